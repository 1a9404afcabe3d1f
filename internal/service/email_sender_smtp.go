package service

import (
	"context"
	"errors"
	"strings"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AppName  string
}

type SMTPEmailSender struct {
	client *mail.Client
	config SMTPConfig
}

func NewSMTPEmailSender(config SMTPConfig) (*SMTPEmailSender, error) {
	if strings.TrimSpace(config.Host) == "" || strings.TrimSpace(config.From) == "" {
		return nil, errors.New("smtp email sender requires a host and a from address")
	}
	opts := []mail.Option{
		mail.WithPort(config.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(config.Username),
			mail.WithPassword(config.Password),
		)
	}
	client, err := mail.NewClient(config.Host, opts...)
	if err != nil {
		return nil, err
	}
	return &SMTPEmailSender{client: client, config: config}, nil
}

func (s *SMTPEmailSender) Send(ctx context.Context, message EmailMessage) error {
	rendered, err := RenderEmail(s.config.AppName, message)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(s.config.From); err != nil {
		return err
	}
	if err := msg.To(message.To); err != nil {
		return err
	}
	msg.Subject(rendered.Subject)
	msg.SetBodyString(mail.TypeTextPlain, rendered.Text)
	msg.AddAlternativeString(mail.TypeTextHTML, rendered.HTML)

	return s.client.DialAndSendWithContext(ctx, msg)
}
