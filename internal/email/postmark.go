// Package email sends transactional mail through the Postmark API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"net/http"
	"strings"
	texttemplate "text/template"

	"github.com/Rohit-1301/Health/internal/model"
)

const postmarkURL = "https://api.postmarkapp.com/email"

// ErrNotConfigured is returned by senders when no server token is set.
var ErrNotConfigured = errors.New("email client not configured: missing server token")

type Client struct {
	serverToken string
	fromEmail   string
	baseURL     string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// NewClient returns a Postmark client. baseURL is the public address of the
// web app and is used to build links back into it.
func NewClient(serverToken, fromEmail, baseURL string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Configured() bool {
	return c.serverToken != ""
}

type message struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
	Tag      string `json:"Tag,omitempty"`
}

// apiError is the body Postmark returns with 4xx responses.
type apiError struct {
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
}

type reminderData struct {
	Greeting string
	Lines    []string
	Link     string
}

var reminderText = texttemplate.Must(texttemplate.New("text").Parse(
	`{{.Greeting}},

This is a reminder of your appointment tomorrow.

{{range .Lines}}{{.}}
{{end}}
Manage your appointments: {{.Link}}
`))

var reminderHTML = htmltemplate.Must(htmltemplate.New("html").Parse(
	`<p>{{.Greeting}},</p>
<p>This is a reminder of your appointment tomorrow.</p>
<ul>{{range .Lines}}<li>{{.}}</li>{{end}}</ul>
<p><a href="{{.Link}}">Manage your appointments</a></p>
`))

// ReminderSubject is the subject line of an appointment reminder email.
func ReminderSubject(a model.Appointment) string {
	return fmt.Sprintf("Reminder: appointment with %s tomorrow at %s", a.DoctorName, a.Time)
}

// ReminderLines are the detail lines shared by the text and HTML bodies.
func ReminderLines(a model.Appointment) []string {
	return []string{
		"Doctor: " + a.DoctorName,
		"Specialty: " + a.Specialty,
		"Date: " + a.Date,
		"Time: " + a.Time,
		"Location: " + a.Location,
		"Reason: " + a.ReasonOrDefault(),
	}
}

// SendAppointmentReminder emails the day-before reminder for a.
func (c *Client) SendAppointmentReminder(ctx context.Context, toEmail, name string, a model.Appointment) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if toEmail == "" {
		return fmt.Errorf("user %d has no email address", a.UserID)
	}

	data := reminderData{Greeting: "Hello", Lines: ReminderLines(a), Link: c.baseURL + "/appointments"}
	if name != "" {
		data.Greeting = "Hello " + name
	}

	var text, html bytes.Buffer
	if err := reminderText.Execute(&text, data); err != nil {
		return fmt.Errorf("render reminder text: %w", err)
	}
	if err := reminderHTML.Execute(&html, data); err != nil {
		return fmt.Errorf("render reminder html: %w", err)
	}

	return c.send(ctx, message{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  ReminderSubject(a),
		HtmlBody: html.String(),
		TextBody: text.String(),
		Tag:      "appointment-reminder",
	})
}

func (c *Client) send(ctx context.Context, m message) error {
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, postmarkURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 400 {
		return nil
	}
	var apiErr apiError
	if raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096)); json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
		return fmt.Errorf("postmark: status %d, code %d: %s", resp.StatusCode, apiErr.ErrorCode, apiErr.Message)
	}
	return fmt.Errorf("postmark: status %d", resp.StatusCode)
}
