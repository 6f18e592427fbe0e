package submission

import (
	"context"
	"errors"
	"strings"

	"github.com/virajo/backoffice/internal/models"
	"github.com/virajo/backoffice/internal/notify"
	"github.com/virajo/backoffice/internal/store"
)

// Kind names a submission form.
type Kind string

const (
	KindContact     Kind = "contact"
	KindContactPage Kind = "contact-page"
	KindApplication Kind = "application"
	KindApplyJob    Kind = "apply-job"
)

// Kinds lists the accepted submission kinds.
var Kinds = []Kind{KindContact, KindContactPage, KindApplication, KindApplyJob}

// ParseKind accepts the kind names used in /api/submissions/:kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// field is a required form field and the form keys accepted for it.
type field struct {
	name    string
	aliases []string
}

func f(name string, aliases ...string) field {
	return field{name: name, aliases: append([]string{name}, aliases...)}
}

func (fd field) value(fields map[string]string) string {
	for _, k := range fd.aliases {
		if v := fields[k]; v != "" {
			return v
		}
	}
	return ""
}

// persisted is what a kind's save step hands back to the workflow.
type persisted struct {
	id     string
	record any
	// notify carries extra fields for the notification, such as the job
	// title of an application.
	notify map[string]string
}

type kindSpec struct {
	required []field
	file     bool
	notify   notify.Kind
	success  string
	save     func(ctx context.Context, w *Workflow, fields map[string]string, resume string) (*persisted, error)
}

var kindSpecs = map[Kind]kindSpec{
	KindContact: {
		required: []field{f("name"), f("email"), f("phone", "contact"), f("company"), f("message")},
		notify:   notify.KindContact,
		success:  "Thank you for contacting us! We will get back to you soon.",
		save:     saveContact,
	},
	KindContactPage: {
		required: []field{f("firstName", "name"), f("email"), f("message")},
		notify:   notify.KindContactPage,
		success:  "Message sent successfully",
		save:     saveContactPage,
	},
	KindApplication: {
		required: []field{f("jobId", "job"), f("name"), f("email"), f("phone")},
		file:     true,
		notify:   notify.KindJobApplication,
		success:  "Application submitted successfully!",
		save:     saveApplication,
	},
	KindApplyJob: {
		required: []field{f("name"), f("email"), f("phone"), f("location", "city"), f("experience"), f("position")},
		file:     true,
		notify:   notify.KindJobApplication,
		success:  "Application submitted successfully!",
		save:     saveApplyJob,
	},
}

// SplitName splits a full name at the first whitespace run. The remaining
// tokens, joined by single spaces, form the last name; an empty last name
// becomes models.NotProvided.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", models.NotProvided
	}
	first = parts[0]
	last = strings.Join(parts[1:], " ")
	if last == "" {
		last = models.NotProvided
	}
	return first, last
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func saveContact(ctx context.Context, w *Workflow, fields map[string]string, _ string) (*persisted, error) {
	rec := &models.ContactSubmission{
		Name:    fields["name"],
		Contact: f("phone", "contact").value(fields),
		Email:   normalizeEmail(fields["email"]),
		Company: fields["company"],
		Message: fields["message"],
		Status:  models.ContactNew,
	}
	if err := w.cols.Contacts.Create(ctx, rec); err != nil {
		return nil, err
	}
	return &persisted{id: rec.ID.Hex(), record: rec}, nil
}

func saveContactPage(ctx context.Context, w *Workflow, fields map[string]string, _ string) (*persisted, error) {
	first, last := fields["firstName"], fields["lastName"]
	if first == "" {
		first, last = SplitName(fields["name"])
	}
	rec := &models.ContactPageSubmission{
		FirstName: first,
		LastName:  last,
		Email:     normalizeEmail(fields["email"]),
		Phone:     f("phone", "contact", "phoneNumber").value(fields),
		Message:   fields["message"],
		Status:    models.ContactNew,
	}
	if err := w.cols.ContactPages.Create(ctx, rec); err != nil {
		return nil, err
	}
	return &persisted{id: rec.ID.Hex(), record: rec}, nil
}

func saveApplication(ctx context.Context, w *Workflow, fields map[string]string, resume string) (*persisted, error) {
	jobID := f("jobId", "job").value(fields)
	job, err := w.cols.Jobs.Get(ctx, jobID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &store.ValidationError{Fields: map[string]string{"jobId": "job not found"}}
	}
	if err != nil {
		return nil, err
	}
	rec := &models.JobApplication{
		Job:         job.ID,
		Name:        fields["name"],
		Email:       normalizeEmail(fields["email"]),
		Phone:       fields["phone"],
		Resume:      resume,
		CoverLetter: fields["coverLetter"],
		Status:      models.ApplicationPending,
	}
	if err := w.cols.Applications.Create(ctx, rec); err != nil {
		return nil, err
	}
	return &persisted{id: rec.ID.Hex(), record: rec, notify: map[string]string{"position": job.Title}}, nil
}

func saveApplyJob(ctx context.Context, w *Workflow, fields map[string]string, resume string) (*persisted, error) {
	first, last := SplitName(fields["name"])
	location := f("location", "city").value(fields)
	rec := &models.ApplicationIntake{
		Position:   fields["position"],
		FirstName:  first,
		LastName:   last,
		Email:      normalizeEmail(fields["email"]),
		Phone:      fields["phone"],
		Address:    location,
		City:       location,
		Resume:     resume,
		Experience: fields["experience"],
		Source:     "Website",
		Status:     models.IntakePending,
	}
	if err := w.cols.Intakes.Create(ctx, rec); err != nil {
		return nil, err
	}
	return &persisted{id: rec.ID.Hex(), record: rec}, nil
}
