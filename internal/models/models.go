// Package models holds the persistent record types of the back-office API.
//
// Every record carries its Mongo ObjectID as "_id" (serialized to clients as
// "id") and a creation timestamp used for newest-first listing. Validation
// rules live in `validate` struct tags and are enforced by the store before
// every write.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotProvided is stored in required name fields the submitter left empty.
const NotProvided = "Not provided"

// Base carries the record identifier. Embedding types supply the creation
// timestamp accessors themselves since the field name differs per collection.
type Base struct {
	ID primitive.ObjectID `json:"id" bson:"_id,omitempty"`
}

func (b *Base) RecordID() primitive.ObjectID      { return b.ID }
func (b *Base) SetRecordID(id primitive.ObjectID) { b.ID = id }

// BlogPost is a published article.
type BlogPost struct {
	Base         `bson:",inline"`
	Title        string    `json:"title" bson:"title" validate:"required"`
	Content      string    `json:"content" bson:"content" validate:"required"`
	Slug         string    `json:"slug" bson:"slug" validate:"required"`
	Image        string    `json:"image" bson:"image" validate:"required"`
	OverlayColor string    `json:"overlayColor" bson:"overlayColor"`
	Author       string    `json:"author" bson:"author"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// NewBlogPost returns a post populated with schema defaults.
func NewBlogPost() *BlogPost {
	return &BlogPost{OverlayColor: "rgba(0, 61, 187, 0.45)", Author: "Virajo Team"}
}

func (p *BlogPost) Created() time.Time { return p.CreatedAt }
func (p *BlogPost) ClearCreated() { p.CreatedAt = time.Time{} }
func (p *BlogPost) SetCreated(t time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = t
	}
}

// JobType classifies a career posting.
type JobType string

const (
	JobTypeFullTime JobType = "Full-time"
	JobTypePartTime JobType = "Part-time"
	JobTypeContract JobType = "Contract"
	JobTypeRemote   JobType = "Remote"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeRemote:
		return true
	}
	return false
}

// CareerPosting is an opening shown on the careers page.
type CareerPosting struct {
	Base             `bson:",inline"`
	Title            string    `json:"title" bson:"title" validate:"required"`
	Description      string    `json:"description" bson:"description" validate:"required"`
	Requirements     []string  `json:"requirements" bson:"requirements" validate:"required"`
	Responsibilities []string  `json:"responsibilities" bson:"responsibilities" validate:"required"`
	Location         string    `json:"location" bson:"location" validate:"required"`
	JobType          JobType   `json:"jobType" bson:"jobType" validate:"enum"`
	IsActive         bool      `json:"isActive" bson:"isActive"`
	ApplicationEmail string    `json:"applicationEmail" bson:"applicationEmail" validate:"omitempty,email"`
	PostedAt         time.Time `json:"postedAt" bson:"postedAt"`
}

func NewCareerPosting() *CareerPosting {
	return &CareerPosting{
		Location:         "Pune/Mumbai",
		JobType:          JobTypeFullTime,
		IsActive:         true,
		ApplicationEmail: "careers@virajo.com",
	}
}

func (c *CareerPosting) Created() time.Time { return c.PostedAt }
func (c *CareerPosting) ClearCreated() { c.PostedAt = time.Time{} }
func (c *CareerPosting) SetCreated(t time.Time) {
	if c.PostedAt.IsZero() {
		c.PostedAt = t
	}
}

// JobListing is an open position applications can reference.
type JobListing struct {
	Base             `bson:",inline"`
	Title            string    `json:"title" bson:"title" validate:"required"`
	Department       string    `json:"department" bson:"department" validate:"required"`
	Experience       string    `json:"experience" bson:"experience" validate:"required"`
	Deadline         time.Time `json:"deadline" bson:"deadline" validate:"required"`
	Description      string    `json:"description" bson:"description" validate:"required"`
	Requirements     []string  `json:"requirements" bson:"requirements"`
	Responsibilities []string  `json:"responsibilities" bson:"responsibilities"`
	IsActive         bool      `json:"isActive" bson:"isActive"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
}

func NewJobListing() *JobListing {
	return &JobListing{IsActive: true}
}

func (j *JobListing) Created() time.Time { return j.CreatedAt }
func (j *JobListing) ClearCreated() { j.CreatedAt = time.Time{} }
func (j *JobListing) SetCreated(t time.Time) {
	if j.CreatedAt.IsZero() {
		j.CreatedAt = t
	}
}

// ApplicationStatus tracks a JobApplication through review.
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewed    ApplicationStatus = "reviewed"
	ApplicationInterviewed ApplicationStatus = "interviewed"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationHired       ApplicationStatus = "hired"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationReviewed, ApplicationInterviewed, ApplicationRejected, ApplicationHired:
		return true
	}
	return false
}

// JobApplication is an application for a specific JobListing. Job is a
// lookup-only reference: deleting the listing leaves applications in place.
type JobApplication struct {
	Base        `bson:",inline"`
	Job         primitive.ObjectID `json:"job" bson:"job" validate:"required"`
	Name        string             `json:"name" bson:"name" validate:"required"`
	Email       string             `json:"email" bson:"email" validate:"required,email"`
	Phone       string             `json:"phone" bson:"phone" validate:"required"`
	Resume      string             `json:"resume" bson:"resume" validate:"required"`
	CoverLetter string             `json:"coverLetter,omitempty" bson:"coverLetter,omitempty"`
	Status      ApplicationStatus  `json:"status" bson:"status" validate:"enum"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

func (a *JobApplication) Created() time.Time { return a.CreatedAt }
func (a *JobApplication) ClearCreated() { a.CreatedAt = time.Time{} }
func (a *JobApplication) SetCreated(t time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = t
	}
}
func (a *JobApplication) ResumePath() string { return a.Resume }

// ContactStatus tracks follow-up on a contact submission.
type ContactStatus string

const (
	ContactNew        ContactStatus = "New"
	ContactInProgress ContactStatus = "In Progress"
	ContactCompleted  ContactStatus = "Completed"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactInProgress, ContactCompleted:
		return true
	}
	return false
}

// ContactSubmission is the general (home page) contact form.
type ContactSubmission struct {
	Base      `bson:",inline"`
	Name      string        `json:"name" bson:"name" validate:"required"`
	Contact   string        `json:"contact" bson:"contact" validate:"required"`
	Email     string        `json:"email" bson:"email" validate:"required,email"`
	Company   string        `json:"company" bson:"company" validate:"required"`
	Message   string        `json:"message" bson:"message" validate:"required"`
	Status    ContactStatus `json:"status" bson:"status" validate:"enum"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
}

func (c *ContactSubmission) Created() time.Time { return c.CreatedAt }
func (c *ContactSubmission) ClearCreated() { c.CreatedAt = time.Time{} }
func (c *ContactSubmission) SetCreated(t time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = t
	}
}

// ContactPageSubmission is the contact-page form variant.
type ContactPageSubmission struct {
	Base      `bson:",inline"`
	FirstName string        `json:"firstName" bson:"firstName" validate:"required"`
	LastName  string        `json:"lastName" bson:"lastName"`
	Email     string        `json:"email" bson:"email" validate:"required,email"`
	Phone     string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Message   string        `json:"message" bson:"message" validate:"required"`
	Status    ContactStatus `json:"status" bson:"status" validate:"enum"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
}

func (c *ContactPageSubmission) Created() time.Time { return c.CreatedAt }
func (c *ContactPageSubmission) ClearCreated() { c.CreatedAt = time.Time{} }
func (c *ContactPageSubmission) SetCreated(t time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = t
	}
}

// IntakeStatus tracks a free-form application through review.
type IntakeStatus string

const (
	IntakePending     IntakeStatus = "pending"
	IntakeReviewed    IntakeStatus = "reviewed"
	IntakeShortlisted IntakeStatus = "shortlisted"
	IntakeRejected    IntakeStatus = "rejected"
	IntakeHired       IntakeStatus = "hired"
)

func (s IntakeStatus) Valid() bool {
	switch s {
	case IntakePending, IntakeReviewed, IntakeShortlisted, IntakeRejected, IntakeHired:
		return true
	}
	return false
}

// ApplicationIntake is a free-form application not tied to a JobListing.
type ApplicationIntake struct {
	Base            `bson:",inline"`
	Position        string       `json:"position" bson:"position" validate:"required"`
	FirstName       string       `json:"firstName" bson:"firstName" validate:"required"`
	LastName        string       `json:"lastName" bson:"lastName" validate:"required"`
	Email           string       `json:"email" bson:"email" validate:"required,email"`
	Phone           string       `json:"phone" bson:"phone" validate:"required"`
	Address         string       `json:"address" bson:"address" validate:"required"`
	City            string       `json:"city" bson:"city" validate:"required"`
	Resume          string       `json:"resume" bson:"resume" validate:"required"`
	Experience      string       `json:"experience" bson:"experience" validate:"required"`
	Source          string       `json:"source" bson:"source"`
	Status          IntakeStatus `json:"status" bson:"status" validate:"enum"`
	ApplicationDate time.Time    `json:"applicationDate" bson:"applicationDate"`
}

func (a *ApplicationIntake) Created() time.Time { return a.ApplicationDate }
func (a *ApplicationIntake) ClearCreated() { a.ApplicationDate = time.Time{} }
func (a *ApplicationIntake) SetCreated(t time.Time) {
	if a.ApplicationDate.IsZero() {
		a.ApplicationDate = t
	}
}
func (a *ApplicationIntake) ResumePath() string { return a.Resume }
