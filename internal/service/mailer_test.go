package service

import (
	"context"
	"sync"
	"testing"

	"github.com/astrahq/auth-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailLogStore struct {
	mu   sync.Mutex
	logs []*model.EmailLog
}

func (s *fakeEmailLogStore) Create(_ context.Context, log *model.EmailLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, log)
	return nil
}

func TestRenderEmail(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     emailData
		contains []string
	}{
		{
			name:     "Activation",
			template: TemplateSignupActivate,
			data: emailData{
				FirstName: "ada",
				AppName:   "Auth Service",
				AppURL:    "https://auth.example.com",
				Token:     "tok123",
			},
			contains: []string{
				"Hello Ada",
				"https://auth.example.com/api/v1/signup/activate/tok123",
			},
		},
		{
			name:     "Reset request",
			template: TemplatePasswordResetRequest,
			data: emailData{
				FirstName: "ada",
				AppName:   "Auth Service",
				AppURL:    "https://auth.example.com",
				Token:     "tok123",
				TTLHours:  12,
			},
			contains: []string{
				"tok123",
				"12 hours",
				"https://auth.example.com/api/v1/password/reset/find/tok123",
			},
		},
		{
			name:     "Reset success",
			template: TemplatePasswordResetSuccess,
			data: emailData{
				FirstName: "ada",
				AppName:   "Auth Service",
			},
			contains: []string{"Hello Ada", "was just changed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := renderEmail(tt.template, tt.data)
			require.NoError(t, err)
			for _, fragment := range tt.contains {
				assert.Contains(t, body, fragment)
			}
		})
	}
}

func TestMailerDevModeRecordsLog(t *testing.T) {
	logs := &fakeEmailLogStore{}
	mailer := NewMailer("", "no-reply@example.com", "Auth Service", "https://auth.example.com", true, logs)

	user := &model.User{
		FirstName:       "Ada",
		Email:           "ada@example.com",
		ActivationToken: "tok123",
	}

	mailer.SendActivation(context.Background(), user)
	mailer.SendResetRequest(context.Background(), user, "reset-tok")
	mailer.SendResetSuccess(context.Background(), user)

	require.Len(t, logs.logs, 3)
	assert.Equal(t, TemplateSignupActivate, logs.logs[0].Template)
	assert.Equal(t, TemplatePasswordResetRequest, logs.logs[1].Template)
	assert.Equal(t, TemplatePasswordResetSuccess, logs.logs[2].Template)

	for _, entry := range logs.logs {
		assert.Equal(t, "ada@example.com", entry.Email)
		assert.True(t, entry.Delivered, "dev mode counts as delivered")
		assert.NotEmpty(t, entry.Payload)
	}
}

func TestEmailSubjects(t *testing.T) {
	assert.Equal(t, "Confirm your Auth Service account", emailSubject(TemplateSignupActivate, "Auth Service"))
	assert.Equal(t, "Reset your Auth Service password", emailSubject(TemplatePasswordResetRequest, "Auth Service"))
	assert.Equal(t, "Your Auth Service password was changed", emailSubject(TemplatePasswordResetSuccess, "Auth Service"))
}
