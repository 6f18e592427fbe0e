package submission

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/virajo/backoffice/internal/intake"
	"github.com/virajo/backoffice/internal/models"
	"github.com/virajo/backoffice/internal/notify"
	"github.com/virajo/backoffice/internal/storage"
	"github.com/virajo/backoffice/internal/store"
	"go.mongodb.org/mongo-driver/bson"
)

type fakeNotifier struct {
	mu      sync.Mutex
	fail    bool
	calls   []notify.Kind
	fields  []map[string]string
	ctxErrs []error
}

func (n *fakeNotifier) Notify(ctx context.Context, kind notify.Kind, fields map[string]string) notify.Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, kind)
	n.fields = append(n.fields, fields)
	n.ctxErrs = append(n.ctxErrs, ctx.Err())
	if n.fail {
		return notify.Result{Err: errors.New("provider down")}
	}
	return notify.Result{Delivered: true, MessageID: "msg"}
}

type fixture struct {
	wf       *Workflow
	cols     *store.Collections
	notifier *fakeNotifier
	dir      string
}

func newFixture(t *testing.T) *fixture {
	dir := t.TempDir()
	cols := store.NewMemoryCollections()
	n := &fakeNotifier{}
	return &fixture{
		wf:       New(cols, intake.New(storage.NewDiskStorage(dir), 1024), n),
		cols:     cols,
		notifier: n,
		dir:      dir,
	}
}

func (fx *fixture) files(t *testing.T) []string {
	entries, err := os.ReadDir(fx.dir)
	require.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (fx *fixture) addJob(t *testing.T) *models.JobListing {
	job := models.NewJobListing()
	job.Title, job.Department, job.Experience, job.Description = "Backend Engineer", "Engineering", "3+ years", "Build APIs"
	job.Deadline = time.Now().Add(30 * 24 * time.Hour)
	require.NoError(t, fx.cols.Jobs.Create(context.Background(), job))
	return job
}

func pdf(name string) *File {
	return &File{Reader: strings.NewReader("%PDF-1.4 resume"), Name: name, MIME: "application/pdf"}
}

func applyJobFields() map[string]string {
	return map[string]string{
		"name":       "Mary Jane Watson",
		"email":      "Mary@Example.com ",
		"phone":      "+91 9000000000",
		"location":   "Pune",
		"experience": "5 years",
		"position":   "Designer",
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct{ in, first, last string }{
		{"Jane Doe", "Jane", "Doe"},
		{"Cher", "Cher", models.NotProvided},
		{"Mary Jane Watson", "Mary", "Jane Watson"},
		{"  Mary   Jane\tWatson ", "Mary", "Jane Watson"},
	}
	for _, tc := range cases {
		first, last := SplitName(tc.in)
		require.Equal(t, tc.first, first, tc.in)
		require.Equal(t, tc.last, last, tc.in)
	}
}

func TestApplyJobPersistsRecordWithReadableResume(t *testing.T) {
	fx := newFixture(t)
	out, err := fx.wf.Submit(context.Background(), Request{Kind: KindApplyJob, Fields: applyJobFields(), File: pdf("CV.PDF")})
	require.NoError(t, err)
	require.True(t, out.EmailSent)

	rec, err := fx.cols.Intakes.Get(context.Background(), out.ID)
	require.NoError(t, err)
	require.Equal(t, "Mary", rec.FirstName)
	require.Equal(t, "Jane Watson", rec.LastName)
	require.Equal(t, "mary@example.com", rec.Email)
	require.Equal(t, "Pune", rec.City)
	require.Equal(t, "Pune", rec.Address)
	require.Equal(t, "Website", rec.Source)
	require.Equal(t, models.IntakePending, rec.Status)

	require.True(t, strings.HasPrefix(rec.Resume, intake.PublicPrefix))
	b, err := os.ReadFile(filepath.Join(fx.dir, filepath.Base(rec.Resume)))
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4 resume", string(b))

	require.Equal(t, []notify.Kind{notify.KindJobApplication}, fx.notifier.calls)
}

func TestApplyJobSingleWordName(t *testing.T) {
	fx := newFixture(t)
	fields := applyJobFields()
	fields["name"] = "Cher"
	fields["city"], fields["location"] = "Mumbai", ""
	out, err := fx.wf.Submit(context.Background(), Request{Kind: KindApplyJob, Fields: fields, File: pdf("cv.docx")})
	require.NoError(t, err)

	rec := out.Record.(*models.ApplicationIntake)
	require.Equal(t, "Cher", rec.FirstName)
	require.Equal(t, models.NotProvided, rec.LastName)
	require.Equal(t, "Mumbai", rec.City)
}

func TestMissingRequiredFieldsRejectsWithoutSideEffects(t *testing.T) {
	fx := newFixture(t)
	fields := applyJobFields()
	delete(fields, "experience")
	fields["position"] = "   "

	_, err := fx.wf.Submit(context.Background(), Request{Kind: KindApplyJob, Fields: fields, File: pdf("cv.pdf")})
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, CodeValidation, serr.Code)
	require.Equal(t, map[string]bool{
		"name": false, "email": false, "phone": false, "location": false, "experience": true, "position": true,
	}, serr.Missing)
	require.Equal(t, []string{"experience is required", "position is required"}, serr.Messages())

	list, lerr := fx.cols.Intakes.List(context.Background(), store.ListOptions{})
	require.NoError(t, lerr)
	require.Empty(t, list)
	require.Empty(t, fx.files(t))
	require.Empty(t, fx.notifier.calls)
}

func TestMissingFile(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.wf.Submit(context.Background(), Request{Kind: KindApplyJob, Fields: applyJobFields()})
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, CodeMissingFile, serr.Code)
}

func TestDisallowedExtensionCreatesNoRecord(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.wf.Submit(context.Background(), Request{Kind: KindApplyJob, Fields: applyJobFields(), File: pdf("setup.exe")})
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, CodeUnsupportedType, serr.Code)

	list, _ := fx.cols.Intakes.List(context.Background(), store.ListOptions{})
	require.Empty(t, list)
	require.Empty(t, fx.files(t))
}

func TestOversizeFileRejected(t *testing.T) {
	fx := newFixture(t)
	big := &File{Reader: bytes.NewReader(make([]byte, 2048)), Name: "cv.pdf"}
	_, err := fx.wf.Submit(context.Background(), Request{Kind: KindApplyJob, Fields: applyJobFields(), File: big})
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, CodeTooLarge, serr.Code)
	require.ErrorIs(t, err, intake.ErrTooLarge)
	require.Empty(t, fx.files(t))
}

func TestNotificationFailureStillSucceeds(t *testing.T) {
	fx := newFixture(t)
	fx.notifier.fail = true
	out, err := fx.wf.Submit(context.Background(), Request{Kind: KindContact, Fields: map[string]string{
		"name": "Jane Doe", "email": "jane@example.com", "contact": "123", "company": "Acme", "message": "Hello",
	}})
	require.NoError(t, err)
	require.False(t, out.EmailSent)
	require.NotEmpty(t, out.ID)

	rec, err := fx.cols.Contacts.Get(context.Background(), out.ID)
	require.NoError(t, err)
	require.Equal(t, "123", rec.Contact)
	require.Equal(t, models.ContactNew, rec.Status)
}

func TestApplicationUnknownJobReleasesFile(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.wf.Submit(context.Background(), Request{Kind: KindApplication, Fields: map[string]string{
		"jobId": "65f0c0ffee0000000000beef", "name": "Jane", "email": "jane@example.com", "phone": "1",
	}, File: pdf("cv.pdf")})
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, CodeValidation, serr.Code)
	require.Contains(t, serr.Fields, "jobId")
	require.Empty(t, fx.files(t))
	require.Empty(t, fx.notifier.calls)
}

func TestApplicationForExistingJob(t *testing.T) {
	fx := newFixture(t)
	job := fx.addJob(t)
	out, err := fx.wf.Submit(context.Background(), Request{Kind: KindApplication, Fields: map[string]string{
		"job": job.ID.Hex(), "name": "Jane Doe", "email": "JANE@example.com", "phone": "1", "coverLetter": "Hire me",
	}, File: pdf("cv.pdf")})
	require.NoError(t, err)

	apps, err := fx.cols.Applications.List(context.Background(), store.ListOptions{Filter: bson.M{"job": job.ID}})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.Equal(t, out.ID, apps[0].ID.Hex())
	require.Equal(t, "jane@example.com", apps[0].Email)
	require.Equal(t, models.ApplicationPending, apps[0].Status)
	require.Len(t, fx.files(t), 1)

	require.Equal(t, "Backend Engineer", fx.notifier.fields[0]["position"])
}

type failingContacts struct {
	store.Collection[models.ContactPageSubmission]
}

func (failingContacts) Create(context.Context, *models.ContactPageSubmission) error {
	return errors.New("connection refused")
}

func TestPersistenceFailureIsInternal(t *testing.T) {
	fx := newFixture(t)
	fx.cols.ContactPages = failingContacts{}
	_, err := fx.wf.Submit(context.Background(), Request{Kind: KindContactPage, Fields: map[string]string{
		"firstName": "Jane", "email": "jane@example.com", "message": "hi",
	}})
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.True(t, serr.Internal())
	require.Empty(t, fx.notifier.calls)
}

type failingIntakes struct {
	store.Collection[models.ApplicationIntake]
}

func (failingIntakes) Create(context.Context, *models.ApplicationIntake) error {
	return errors.New("connection refused")
}

func TestPersistenceFailureReleasesFile(t *testing.T) {
	fx := newFixture(t)
	fx.cols.Intakes = failingIntakes{}
	_, err := fx.wf.Submit(context.Background(), Request{Kind: KindApplyJob, Fields: applyJobFields(), File: pdf("cv.pdf")})
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, CodeInternal, serr.Code)
	require.Empty(t, fx.files(t))
}

func TestSchemaValidationFailureReleasesFile(t *testing.T) {
	fx := newFixture(t)
	fields := applyJobFields()
	fields["email"] = "not-an-email"
	_, err := fx.wf.Submit(context.Background(), Request{Kind: KindApplyJob, Fields: fields, File: pdf("cv.pdf")})
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, CodeValidation, serr.Code)
	require.Contains(t, serr.Fields, "email")
	require.Empty(t, fx.files(t))
}

func TestContactPageNameAlias(t *testing.T) {
	fx := newFixture(t)
	out, err := fx.wf.Submit(context.Background(), Request{Kind: KindContactPage, Fields: map[string]string{
		"name": "Jane Doe", "email": "jane@example.com", "message": "hi",
	}})
	require.NoError(t, err)
	rec := out.Record.(*models.ContactPageSubmission)
	require.Equal(t, "Jane", rec.FirstName)
	require.Equal(t, "Doe", rec.LastName)
	require.Equal(t, []notify.Kind{notify.KindContactPage}, fx.notifier.calls)
}

func TestResubmissionCreatesNewRecord(t *testing.T) {
	fx := newFixture(t)
	fields := map[string]string{"firstName": "Jane", "email": "jane@example.com", "message": "hi"}
	a, err := fx.wf.Submit(context.Background(), Request{Kind: KindContactPage, Fields: fields})
	require.NoError(t, err)
	b, err := fx.wf.Submit(context.Background(), Request{Kind: KindContactPage, Fields: fields})
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)
}

func TestUnknownKind(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.wf.Submit(context.Background(), Request{Kind: "newsletter"})
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, CodeValidation, serr.Code)

	_, ok := ParseKind("apply-job")
	require.True(t, ok)
	_, ok = ParseKind("applyJob")
	require.False(t, ok)
}

func TestCallerCancellationDoesNotAbortAcceptedSubmission(t *testing.T) {
	fx := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := fx.wf.Submit(ctx, Request{Kind: KindApplyJob, Fields: applyJobFields(), File: pdf("cv.pdf")})
	require.NoError(t, err)
	require.True(t, out.EmailSent)
	require.Equal(t, []error{nil}, fx.notifier.ctxErrs)
	require.Len(t, fx.files(t), 1)

	_, err = fx.cols.Intakes.Get(context.Background(), out.ID)
	require.NoError(t, err)
}
