// Package submission runs public form submissions through validation, file
// intake, persistence and notification.
package submission

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/virajo/backoffice/internal/intake"
	"github.com/virajo/backoffice/internal/notify"
	"github.com/virajo/backoffice/internal/store"
	"github.com/virajo/backoffice/pkg/logger"
	"github.com/virajo/backoffice/pkg/metrics"
)

// FileIntake stores and releases uploaded résumés.
type FileIntake interface {
	Store(ctx context.Context, r io.Reader, declaredMIME, originalName string) (*intake.Stored, error)
	Release(ctx context.Context, path string)
}

// File is an uploaded attachment.
type File struct {
	Reader io.Reader
	Name   string
	MIME   string
}

// Request is one submission as received from a client.
type Request struct {
	Kind   Kind
	Fields map[string]string
	File   *File
}

// Outcome is returned for an accepted submission.
type Outcome struct {
	ID        string
	EmailSent bool
	Message   string
	Record    any
}

// Workflow runs submissions against the store, file intake and notifier.
type Workflow struct {
	cols     *store.Collections
	files    FileIntake
	notifier notify.Notifier
}

// New wires a Workflow.
func New(cols *store.Collections, files FileIntake, notifier notify.Notifier) *Workflow {
	return &Workflow{cols: cols, files: files, notifier: notifier}
}

// Submit processes req. Any rejection is returned as *Error. A stored file is
// removed on every rejection and kept once the record referencing it is saved.
func (w *Workflow) Submit(ctx context.Context, req Request) (*Outcome, error) {
	out, err := w.submit(ctx, req)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(string(req.Kind), string(err.Code)).Inc()
		if err.Internal() {
			logger.Errorf("submission %s: %v", req.Kind, err)
		} else {
			logger.Warnf("submission %s rejected: %v", req.Kind, err)
		}
		return nil, err
	}
	metrics.SubmissionsTotal.WithLabelValues(string(req.Kind), "accepted").Inc()
	logger.Infof("submission %s accepted: id=%s emailSent=%t", req.Kind, out.ID, out.EmailSent)
	return out, nil
}

func (w *Workflow) submit(ctx context.Context, req Request) (*Outcome, *Error) {
	ks, ok := kindSpecs[req.Kind]
	if !ok {
		return nil, &Error{Code: CodeValidation, Message: fmt.Sprintf("unknown submission kind %q", req.Kind)}
	}
	fields := trimFields(req.Fields)

	if err := checkRequired(ks, fields); err != nil {
		return nil, err
	}
	if ks.file && (req.File == nil || req.File.Reader == nil) {
		return nil, &Error{Code: CodeMissingFile, Message: "Please upload your resume", Fields: map[string]string{"resume": "resume is required"}}
	}

	// once accepted, a client disconnect must not abort storage or the email
	ctx = context.WithoutCancel(ctx)

	var l lease
	defer l.release(ctx)
	if ks.file {
		st, err := w.files.Store(ctx, req.File.Reader, req.File.MIME, req.File.Name)
		if err != nil {
			return nil, intakeError(err)
		}
		l = lease{files: w.files, path: st.Path}
	}

	p, err := ks.save(ctx, w, fields, l.path)
	if err != nil {
		return nil, persistError(err)
	}
	l.keep()

	res := w.notifier.Notify(ctx, ks.notify, mergeFields(fields, p.notify))
	return &Outcome{ID: p.id, EmailSent: res.Delivered, Message: ks.success, Record: p.record}, nil
}

func checkRequired(ks kindSpec, fields map[string]string) *Error {
	missing := make(map[string]bool, len(ks.required))
	msgs := map[string]string{}
	for _, fd := range ks.required {
		absent := fd.value(fields) == ""
		missing[fd.name] = absent
		if absent {
			msgs[fd.name] = fd.name + " is required"
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return &Error{Code: CodeValidation, Message: "All fields are required", Fields: msgs, Missing: missing}
}

func trimFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = strings.TrimSpace(v)
	}
	return out
}

func mergeFields(fields, extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return fields
	}
	out := make(map[string]string, len(fields)+len(extra))
	for k, v := range fields {
		out[k] = v
	}
	for k, v := range extra {
		if out[k] == "" {
			out[k] = v
		}
	}
	return out
}

// lease owns a stored file until keep hands it over to a saved record.
type lease struct {
	files FileIntake
	path  string
	kept  bool
}

func (l *lease) keep() { l.kept = true }

func (l *lease) release(ctx context.Context) {
	if l.files == nil || l.path == "" || l.kept {
		return
	}
	l.files.Release(context.WithoutCancel(ctx), l.path)
}
