package notify

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"github.com/virajo/backoffice/internal/config"
	"github.com/virajo/backoffice/pkg/logger"
	"github.com/virajo/backoffice/pkg/metrics"
)

// Mailer delivers notifications with a single POST /emails per submission.
type Mailer struct {
	client *resty.Client
	cfg    config.EmailConfig
	loc    *time.Location
	nowFun func() time.Time
}

func NewMailer(cfg config.EmailConfig) *Mailer {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logger.Warnf("notify: unknown time zone %q, using UTC", cfg.TimeZone)
		loc = time.UTC
	}
	client := resty.New().
		SetBaseURL(cfg.APIURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &Mailer{client: client, cfg: cfg, loc: loc, nowFun: time.Now}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	ReplyTo string   `json:"reply_to"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

func (m *Mailer) Notify(ctx context.Context, kind Kind, fields map[string]string) Result {
	res := m.send(ctx, kind, fields)
	switch {
	case res.Delivered:
		metrics.NotificationsTotal.WithLabelValues(string(kind), "delivered").Inc()
		logger.Infof("notify: %s delivered (id %s)", kind, res.MessageID)
	default:
		metrics.NotificationsTotal.WithLabelValues(string(kind), "failed").Inc()
		logger.Errorf("notify: %s not delivered: %v", kind, res.Err)
	}
	return res
}

func (m *Mailer) send(ctx context.Context, kind Kind, fields map[string]string) Result {
	c := Normalize(fields)
	if c.Email == "" {
		return Result{Err: ErrNoReplyTo}
	}
	if m.cfg.APIKey == "" {
		return Result{Err: ErrNotConfigured}
	}
	to, subject, err := m.route(kind, c)
	if err != nil {
		return Result{Err: err}
	}
	html, text, err := render(buildMessage(kind, c, m.nowFun().In(m.loc)))
	if err != nil {
		return Result{Err: fmt.Errorf("notify: render: %w", err)}
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(sendRequest{From: m.cfg.From, To: []string{to}, Subject: subject, ReplyTo: c.Email, HTML: html, Text: text}).
		Post("/emails")
	if err != nil {
		return Result{Err: fmt.Errorf("notify: request: %w", err)}
	}
	body := resp.Body()
	if resp.IsError() {
		msg := gjson.GetBytes(body, "message").String()
		if msg == "" {
			msg = resp.Status()
		}
		return Result{Err: fmt.Errorf("notify: provider returned %d: %s", resp.StatusCode(), msg)}
	}
	return Result{Delivered: true, MessageID: gjson.GetBytes(body, "id").String()}
}

// route picks the recipient and subject line for kind.
func (m *Mailer) route(kind Kind, c Canonical) (string, string, error) {
	switch kind {
	case KindContact:
		return m.cfg.Recipient, "New Contact Form Submission - Virajo Website", nil
	case KindContactPage:
		return m.cfg.Recipient, "New Contact Page Inquiry - Virajo Website", nil
	case KindJobApplication:
		subject := "New Job Application - Virajo Website"
		if c.Position != "" {
			subject = fmt.Sprintf("New Job Application: %s - %s", c.Position, valueOr(c.Name))
		}
		return m.cfg.CareersRecipient, subject, nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
