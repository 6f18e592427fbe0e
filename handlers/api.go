package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/virajo/backoffice/internal/intake"
	"github.com/virajo/backoffice/internal/models"
	"github.com/virajo/backoffice/internal/store"
	"github.com/virajo/backoffice/internal/submission"
	"go.mongodb.org/mongo-driver/bson"
)

// API serves the back-office routes.
type API struct {
	cols     *store.Collections
	workflow *submission.Workflow
	files    *intake.Intake
}

func NewAPI(cols *store.Collections, workflow *submission.Workflow, files *intake.Intake) *API {
	return &API{cols: cols, workflow: workflow, files: files}
}

var (
	blogFields = map[string]coder{
		"title": stringField, "content": stringField, "slug": stringField,
		"image": stringField, "overlayColor": stringField, "author": stringField,
	}
	careerFields = map[string]coder{
		"title": stringField, "description": stringField, "requirements": stringsField,
		"responsibilities": stringsField, "location": stringField, "jobType": stringField,
		"isActive": boolField, "applicationEmail": stringField,
	}
	jobFields = map[string]coder{
		"title": stringField, "department": stringField, "experience": stringField,
		"deadline": timeField, "description": stringField, "requirements": stringsField,
		"responsibilities": stringsField, "isActive": boolField,
	}
	statusOnly = map[string]coder{"status": stringField}
)

// Register mounts every API route on r. submitLimit guards the public
// submission endpoints; pass nil to disable rate limiting.
func (a *API) Register(r gin.IRouter, submitLimit gin.HandlerFunc) {
	submit := func(kind submission.Kind) []gin.HandlerFunc {
		h := a.submitHandler(kind)
		if submitLimit == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{submitLimit, h}
	}

	api := r.Group("/api")

	blogs := &resource[models.BlogPost, *models.BlogPost]{
		noun: "Blog post", col: a.cols.Blogs, newRecord: models.NewBlogPost, updatable: blogFields,
		lookup: func(ctx context.Context, slug string) (*models.BlogPost, error) {
			return a.cols.Blogs.FindOne(ctx, bson.M{"slug": slug})
		},
	}
	blogs.register(api.Group("/blogs"))

	careers := &resource[models.CareerPosting, *models.CareerPosting]{
		noun: "Career", col: a.cols.Careers, newRecord: models.NewCareerPosting, updatable: careerFields,
	}
	careers.register(api.Group("/careers"))

	jobs := &resource[models.JobListing, *models.JobListing]{
		noun: "Job", col: a.cols.Jobs, newRecord: models.NewJobListing, updatable: jobFields,
		listFilter: bson.M{"isActive": true},
	}
	jobs.register(api.Group("/jobs"))

	applications := &resource[models.JobApplication, *models.JobApplication]{
		noun: "Application", col: a.cols.Applications, updatable: statusOnly,
		release: func(ctx context.Context, rec *models.JobApplication) { a.releaseResume(ctx, rec) },
	}
	g := api.Group("/applications")
	g.POST("", submit(submission.KindApplication)...)
	g.GET("/job/:jobId", a.applicationsByJob(applications))
	applications.register(g)

	contacts := &resource[models.ContactSubmission, *models.ContactSubmission]{
		noun: "Contact", col: a.cols.Contacts, updatable: statusOnly,
	}
	g = api.Group("/contact")
	g.POST("", submit(submission.KindContact)...)
	contacts.register(g)

	contactPages := &resource[models.ContactPageSubmission, *models.ContactPageSubmission]{
		noun: "Contact form", col: a.cols.ContactPages, updatable: statusOnly, wrapList: true,
	}
	g = api.Group("/contactpage")
	g.POST("", submit(submission.KindContactPage)...)
	contactPages.register(g)

	intakes := &resource[models.ApplicationIntake, *models.ApplicationIntake]{
		noun: "Application", col: a.cols.Intakes, updatable: statusOnly, wrapList: true,
		release: func(ctx context.Context, rec *models.ApplicationIntake) { a.releaseResume(ctx, rec) },
	}
	g = api.Group("/applyJob")
	g.POST("", submit(submission.KindApplyJob)...)
	intakes.register(g)

	generic := []gin.HandlerFunc{a.submitByKind}
	if submitLimit != nil {
		generic = append([]gin.HandlerFunc{submitLimit}, generic...)
	}
	api.POST("/submissions/:kind", generic...)

	r.GET("/uploads/resumes/:name", a.serveResume)
}

type resumeOwner interface {
	ResumePath() string
}

// releaseResume deletes the résumé of a removed record. Records without a
// file cause no storage call.
func (a *API) releaseResume(ctx context.Context, rec resumeOwner) {
	if p := rec.ResumePath(); p != "" {
		a.files.Release(ctx, p)
	}
}

func (a *API) applicationsByJob(h *resource[models.JobApplication, *models.JobApplication]) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := store.ParseID(c.Param("jobId"))
		if errors.Is(err, store.ErrNotFound) {
			h.respondList(c, []*models.JobApplication{})
			return
		}
		items, err := h.col.List(c.Request.Context(), store.ListOptions{Limit: parseLimit(c), Filter: bson.M{"job": oid}})
		if err != nil {
			respondError(c, h.noun, err)
			return
		}
		h.respondList(c, items)
	}
}
