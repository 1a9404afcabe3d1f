package service

import (
	"context"
	"errors"
	"strings"

	"github.com/resend/resend-go/v2"
)

type ResendEmailSender struct {
	client  *resend.Client
	From    string
	AppName string
}

func NewResendEmailSender(apiKey string, from string, appName string) (*ResendEmailSender, error) {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return nil, errors.New("resend email sender requires an api key and a from address")
	}
	return &ResendEmailSender{
		client:  resend.NewClient(apiKey),
		From:    from,
		AppName: appName,
	}, nil
}

func (s *ResendEmailSender) Send(ctx context.Context, message EmailMessage) error {
	rendered, err := RenderEmail(s.AppName, message)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err = s.client.Emails.Send(&resend.SendEmailRequest{
		From:    s.From,
		To:      []string{message.To},
		Subject: rendered.Subject,
		Html:    rendered.HTML,
		Text:    rendered.Text,
	})
	return err
}
