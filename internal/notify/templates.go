package notify

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/virajo/backoffice/internal/models"
)

type row struct {
	Label string
	Value string
	Link  htmltemplate.URL
}

type message struct {
	Title     string
	Rows      []row
	Body      string
	BodyLabel string
	Name      string
	Timestamp string
}

func valueOr(s string) string {
	if s == "" {
		return models.NotProvided
	}
	return s
}

// buildMessage lays out the fields shown for each kind.
func buildMessage(kind Kind, c Canonical, at time.Time) message {
	m := message{
		Name:      valueOr(c.Name),
		Body:      valueOr(c.Message),
		BodyLabel: "Message",
		Timestamp: at.Format("02/01/2006, 15:04:05 MST"),
	}
	rows := []row{
		{Label: "Name", Value: valueOr(c.Name)},
		{Label: "Email", Value: valueOr(c.Email), Link: htmltemplate.URL("mailto:" + c.Email)},
		{Label: "Phone", Value: valueOr(c.Phone), Link: htmltemplate.URL("tel:" + c.Phone)},
	}
	switch kind {
	case KindContact:
		m.Title = "New Contact Form Submission"
		rows = append(rows, row{Label: "Company", Value: valueOr(c.Company)})
	case KindContactPage:
		m.Title = "New Contact Page Inquiry"
	case KindJobApplication:
		m.Title = "New Job Application"
		m.BodyLabel = "Cover letter"
		rows = append(rows,
			row{Label: "Position", Value: valueOr(c.Position)},
			row{Label: "Location", Value: valueOr(c.Location)},
			row{Label: "Experience", Value: valueOr(c.Experience)},
		)
	}
	if c.Phone == "" {
		rows[2].Link = ""
	}
	if c.Email == "" {
		rows[1].Link = ""
	}
	m.Rows = rows
	return m
}

const htmlLayout = `<div style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; max-width: 600px; margin: 0 auto; background-color: #f8f9fa;">
  <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 30px; text-align: center;">
    <h1 style="color: white; margin: 0; font-size: 24px;">{{.Title}}</h1>
    <p style="color: #e8e8e8; margin: 10px 0 0 0;">From Virajo Website</p>
  </div>
  <div style="padding: 30px; background-color: white;">
    <table style="width: 100%; border-collapse: collapse;">
{{- range .Rows}}
      <tr style="border-bottom: 1px solid #eee;">
        <td style="padding: 12px 0; font-weight: bold; color: #555; width: 110px;">{{.Label}}:</td>
        <td style="padding: 12px 0; color: #333;">{{if .Link}}<a href="{{.Link}}" style="color: #667eea; text-decoration: none;">{{.Value}}</a>{{else}}{{.Value}}{{end}}</td>
      </tr>
{{- end}}
    </table>
    <h3 style="color: #333; font-size: 16px;">{{.BodyLabel}}:</h3>
    <p style="margin: 0; line-height: 1.6; color: #333; white-space: pre-line;">{{.Body}}</p>
    <p style="margin-top: 30px; color: #6c757d; font-size: 14px;">You can reply directly to this email to respond to {{.Name}}</p>
  </div>
  <div style="background-color: #343a40; padding: 20px; text-align: center;">
    <p style="color: #adb5bd; margin: 0; font-size: 12px;">Timestamp: {{.Timestamp}}</p>
  </div>
</div>
`

const textLayout = `{{.Title}} - Virajo Website
{{range .Rows}}
{{.Label}}: {{.Value}}
{{- end}}

{{.BodyLabel}}:
{{.Body}}

---
You can reply directly to this email to respond to {{.Name}}.
Timestamp: {{.Timestamp}}
`

var (
	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(htmlLayout))
	textTmpl = texttemplate.Must(texttemplate.New("text").Parse(textLayout))
)

func render(m message) (html, text string, err error) {
	var hb, tb bytes.Buffer
	if err := htmlTmpl.Execute(&hb, m); err != nil {
		return "", "", err
	}
	if err := textTmpl.Execute(&tb, m); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}
