package service

import (
	"context"
	"encoding/json"

	"github.com/astrahq/auth-service/internal/constants"
	"github.com/astrahq/auth-service/internal/model"
	"github.com/astrahq/auth-service/pkg/logger"
	"github.com/resend/resend-go/v2"
)

// EmailLogStore records outbound notification attempts.
type EmailLogStore interface {
	Create(ctx context.Context, log *model.EmailLog) error
}

// Mailer delivers account emails through Resend and records each attempt in
// the email log. In dev mode (or without an API key) nothing leaves the
// process; the rendered email is logged instead.
type Mailer struct {
	client    *resend.Client
	fromEmail string
	appName   string
	appURL    string
	dev       bool
	logs      EmailLogStore
}

func NewMailer(apiKey, fromEmail, appName, appURL string, dev bool, logs EmailLogStore) *Mailer {
	var client *resend.Client
	if apiKey != "" && !dev {
		client = resend.NewClient(apiKey)
	}

	return &Mailer{
		client:    client,
		fromEmail: fromEmail,
		appName:   appName,
		appURL:    appURL,
		dev:       dev,
		logs:      logs,
	}
}

// SendActivation emails the activation link for a new or unverified account.
func (m *Mailer) SendActivation(ctx context.Context, user *model.User) {
	m.deliver(ctx, user, TemplateSignupActivate, user.ActivationToken)
}

// SendResetRequest emails a freshly issued password reset token.
func (m *Mailer) SendResetRequest(ctx context.Context, user *model.User, token string) {
	m.deliver(ctx, user, TemplatePasswordResetRequest, token)
}

// SendResetSuccess confirms a completed password reset.
func (m *Mailer) SendResetSuccess(ctx context.Context, user *model.User) {
	m.deliver(ctx, user, TemplatePasswordResetSuccess, "")
}

func (m *Mailer) deliver(ctx context.Context, user *model.User, templateName, token string) {
	subject := emailSubject(templateName, m.appName)
	body, err := renderEmail(templateName, emailData{
		FirstName: user.FirstName,
		AppName:   m.appName,
		AppURL:    m.appURL,
		Token:     token,
		TTLHours:  int(constants.ResetTokenTTL.Hours()),
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to render email").
			String("template", templateName).
			String("email", user.Email).
			Err(err).
			Log()
		return
	}

	delivered := m.send(ctx, user.Email, subject, body, templateName)
	m.record(ctx, user.Email, templateName, subject, delivered)
}

func (m *Mailer) send(ctx context.Context, to, subject, body, templateName string) bool {
	if m.dev || m.client == nil {
		logger.InfoWithContext(ctx, "Email sent (dev mode)").
			String("template", templateName).
			String("to", to).
			String("subject", subject).
			Log()
		return true
	}

	params := &resend.SendEmailRequest{
		From:    m.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		logger.WarnWithContext(ctx, "Failed to send email").
			String("template", templateName).
			String("to", to).
			Err(err).
			Log()
		return false
	}

	logger.InfoWithContext(ctx, "Email sent").
		String("template", templateName).
		String("to", to).
		Log()

	return true
}

func (m *Mailer) record(ctx context.Context, email, templateName, subject string, delivered bool) {
	if m.logs == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"subject": subject,
		"from":    m.fromEmail,
	})
	if err != nil {
		return
	}

	// Outbox write is best-effort; the repository logs its own failures
	_ = m.logs.Create(ctx, &model.EmailLog{
		Email:     email,
		Template:  templateName,
		Payload:   payload,
		Delivered: delivered,
	})
}
