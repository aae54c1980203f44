package utils

import (
	"context"
	"fmt"

	"github.com/RamaAlqdri/sehatin/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

type SESMailer struct {
	client *ses.Client
	from   string
}

func NewSESMailer(cfg aws.Config, from string) *SESMailer {
	return &SESMailer{client: ses.NewFromConfig(cfg), from: from}
}

// generic SES sender
func (m *SESMailer) sendEmail(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(m.from),
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		logger.Error("ses send failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}

func (m *SESMailer) SendOTPEmail(ctx context.Context, to, code string) error {
	body := fmt.Sprintf("Your verification code is: %s\n\nIt expires in a few minutes. Do not share it with anyone.", code)
	return m.sendEmail(ctx, to, "Your Verification Code", body)
}

func (m *SESMailer) SendResetEmail(ctx context.Context, to, code string) error {
	body := fmt.Sprintf("Your password reset code is: %s\n\nUse this in the app to set a new password.", code)
	return m.sendEmail(ctx, to, "Password Reset Code", body)
}

// LogMailer stands in for SES when no sender address is configured.
type LogMailer struct{}

func (LogMailer) SendOTPEmail(_ context.Context, to, code string) error {
	logger.Warn("mailer disabled, otp not delivered", zap.String("to", to), zap.Int("code_len", len(code)))
	return nil
}

func (LogMailer) SendResetEmail(_ context.Context, to, code string) error {
	logger.Warn("mailer disabled, reset code not delivered", zap.String("to", to), zap.Int("code_len", len(code)))
	return nil
}
