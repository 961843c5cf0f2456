package service

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Email template names, also recorded in the email log.
const (
	TemplateSignupActivate       = "signup_activate"
	TemplatePasswordResetRequest = "password_reset_request"
	TemplatePasswordResetSuccess = "password_reset_success"
)

const activationEmailBody = `Hello {{ .FirstName | title }},

Thanks for signing up for {{ .AppName }}!

Please confirm your email address by visiting the link below:

{{ .AppURL }}/api/v1/signup/activate/{{ .Token }}

If you did not create an account, no further action is required.

{{ .AppName }}
`

const resetRequestEmailBody = `Hello {{ .FirstName | title }},

You are receiving this email because we received a password reset request
for your {{ .AppName }} account.

Use the token below to reset your password:

{{ .Token }}

Or follow this link:

{{ .AppURL }}/api/v1/password/reset/find/{{ .Token }}

This token expires in {{ .TTLHours }} hours. If you did not request a
password reset, no further action is required.

{{ .AppName }}
`

const resetSuccessEmailBody = `Hello {{ .FirstName | title }},

The password for your {{ .AppName }} account was just changed.

If you did not perform this change, contact support immediately.

{{ .AppName }}
`

type emailData struct {
	FirstName string
	AppName   string
	AppURL    string
	Token     string
	TTLHours  int
}

var emailTemplates = template.Must(
	template.New("emails").Funcs(sprig.FuncMap()).Parse(
		fmt.Sprintf(
			`{{ define %q }}%s{{ end }}{{ define %q }}%s{{ end }}{{ define %q }}%s{{ end }}`,
			TemplateSignupActivate, activationEmailBody,
			TemplatePasswordResetRequest, resetRequestEmailBody,
			TemplatePasswordResetSuccess, resetSuccessEmailBody,
		),
	),
)

// renderEmail executes one of the named templates.
func renderEmail(name string, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// emailSubject returns the subject line for a template.
func emailSubject(name, appName string) string {
	switch name {
	case TemplateSignupActivate:
		return fmt.Sprintf("Confirm your %s account", appName)
	case TemplatePasswordResetRequest:
		return fmt.Sprintf("Reset your %s password", appName)
	case TemplatePasswordResetSuccess:
		return fmt.Sprintf("Your %s password was changed", appName)
	default:
		return appName
	}
}
