package service

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogEmailSender writes reset emails to the log instead of delivering them.
// Development only: the secret ends up in the log output.
type LogEmailSender struct {
	Logger  logrus.FieldLogger
	AppName string
}

func (s LogEmailSender) Send(_ context.Context, message EmailMessage) error {
	rendered, err := RenderEmail(s.AppName, message)
	if err != nil {
		return err
	}
	s.Logger.WithFields(logrus.Fields{
		"to":       message.To,
		"template": message.Template,
		"subject":  rendered.Subject,
	}).Info(rendered.Text)
	return nil
}
