package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/virajo/backoffice/internal/submission"
)

// formOverhead is the room left for text fields and multipart framing on
// top of the upload limit.
const formOverhead = 1 << 20

const resumeField = "resume"

func (a *API) submitByKind(c *gin.Context) {
	kind, ok := submission.ParseKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("unknown submission kind %q", c.Param("kind"))})
		return
	}
	a.submit(c, kind)
}

func (a *API) submitHandler(kind submission.Kind) gin.HandlerFunc {
	return func(c *gin.Context) { a.submit(c, kind) }
}

func (a *API) submit(c *gin.Context, kind submission.Kind) {
	req, closeFile, err := a.readSubmission(c, kind)
	if err != nil {
		respondError(c, "Submission", err)
		return
	}
	defer closeFile()

	out, err := a.workflow.Submit(c.Request.Context(), *req)
	if err != nil {
		respondError(c, "Submission", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"id":        out.ID,
		"emailSent": out.EmailSent,
		"message":   out.Message,
		"data":      out.Record,
	})
}

// readSubmission collects form fields from a multipart, urlencoded or JSON
// body, plus the optional résumé part.
func (a *API) readSubmission(c *gin.Context, kind submission.Kind) (*submission.Request, func(), error) {
	noop := func() {}
	req := &submission.Request{Kind: kind, Fields: map[string]string{}}

	ct := c.ContentType()
	switch {
	case strings.HasPrefix(ct, "multipart/"):
		limit := a.files.MaxBytes() + formOverhead
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		if err := c.Request.ParseMultipartForm(limit); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return nil, noop, &submission.Error{Code: submission.CodeTooLarge, Message: "file exceeds the upload size limit", Err: err}
			}
			return nil, noop, &submission.Error{Code: submission.CodeValidation, Message: "Invalid form data", Err: err}
		}
		for k, vs := range c.Request.MultipartForm.Value {
			if len(vs) > 0 {
				req.Fields[k] = vs[0]
			}
		}
		if fhs := c.Request.MultipartForm.File[resumeField]; len(fhs) > 0 {
			return openFile(req, fhs[0])
		}
	case ct == gin.MIMEJSON:
		var body map[string]any
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			return nil, noop, &submission.Error{Code: submission.CodeValidation, Message: "Invalid request body", Err: err}
		}
		for k, v := range body {
			switch v := v.(type) {
			case nil:
			case string:
				req.Fields[k] = v
			default:
				req.Fields[k] = fmt.Sprint(v)
			}
		}
	default:
		if err := c.Request.ParseForm(); err != nil {
			return nil, noop, &submission.Error{Code: submission.CodeValidation, Message: "Invalid form data", Err: err}
		}
		for k := range c.Request.PostForm {
			req.Fields[k] = c.Request.PostForm.Get(k)
		}
	}
	return req, noop, nil
}

func openFile(req *submission.Request, fh *multipart.FileHeader) (*submission.Request, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, fmt.Errorf("open uploaded file: %w", err)
	}
	req.File = &submission.File{Reader: f, Name: fh.Filename, MIME: fh.Header.Get("Content-Type")}
	return req, func() { _ = f.Close() }, nil
}
