package store

import (
	"context"

	"github.com/virajo/backoffice/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collections groups one Collection per entity.
type Collections struct {
	Blogs        Collection[models.BlogPost]
	Careers      Collection[models.CareerPosting]
	Jobs         Collection[models.JobListing]
	Applications Collection[models.JobApplication]
	Contacts     Collection[models.ContactSubmission]
	ContactPages Collection[models.ContactPageSubmission]
	Intakes      Collection[models.ApplicationIntake]
}

var (
	blogOptions        = Options{SortField: "createdAt", Unique: []string{"slug"}}
	careerOptions      = Options{SortField: "postedAt"}
	jobOptions         = Options{SortField: "createdAt"}
	applicationOptions = Options{SortField: "createdAt"}
	contactOptions     = Options{SortField: "createdAt"}
	contactPageOptions = Options{SortField: "createdAt"}
	intakeOptions      = Options{SortField: "applicationDate"}
)

// NewMongoCollections binds every entity to its collection in db.
func NewMongoCollections(ctx context.Context, db *mongo.Database) *Collections {
	return &Collections{
		Blogs:        NewMongoCollection[models.BlogPost](ctx, db.Collection("blogs"), blogOptions),
		Careers:      NewMongoCollection[models.CareerPosting](ctx, db.Collection("careers"), careerOptions),
		Jobs:         NewMongoCollection[models.JobListing](ctx, db.Collection("jobs"), jobOptions),
		Applications: NewMongoCollection[models.JobApplication](ctx, db.Collection("jobapplications"), applicationOptions),
		Contacts:     NewMongoCollection[models.ContactSubmission](ctx, db.Collection("contacts"), contactOptions),
		ContactPages: NewMongoCollection[models.ContactPageSubmission](ctx, db.Collection("contactpageforms"), contactPageOptions),
		Intakes:      NewMongoCollection[models.ApplicationIntake](ctx, db.Collection("applyjobs"), intakeOptions),
	}
}

// NewMemoryCollections returns empty in-memory collections.
func NewMemoryCollections() *Collections {
	return &Collections{
		Blogs:        NewMemoryCollection[models.BlogPost](blogOptions),
		Careers:      NewMemoryCollection[models.CareerPosting](careerOptions),
		Jobs:         NewMemoryCollection[models.JobListing](jobOptions),
		Applications: NewMemoryCollection[models.JobApplication](applicationOptions),
		Contacts:     NewMemoryCollection[models.ContactSubmission](contactOptions),
		ContactPages: NewMemoryCollection[models.ContactPageSubmission](contactPageOptions),
		Intakes:      NewMemoryCollection[models.ApplicationIntake](intakeOptions),
	}
}
