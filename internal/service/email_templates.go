package service

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

type RenderedEmail struct {
	Subject string
	HTML    string
	Text    string
}

type resetEmailData struct {
	AppName   string
	Title     string
	Greeting  string
	Intro     string
	CodeLabel string
	Secret    string
	Expiry    string
	Signature string
}

var resetEmailHTML = htmltemplate.Must(htmltemplate.New("reset_html").Parse(`<!DOCTYPE html>
<html lang="en">
<body style="font-family: Arial, sans-serif; color: #333;">
<h1>{{.Title}}</h1>
<p>{{.Greeting}}</p>
<p>{{.Intro}}</p>
<h3>{{.CodeLabel}}</h3>
<p><code style="font-family: 'Courier New', monospace; font-size: 20px;">{{.Secret}}</code></p>
{{if .Expiry}}<p>{{.Expiry}}</p>{{end}}
<p>If you did not request a password reset you can ignore this email.</p>
<p>Best regards,<br>{{.Signature}}</p>
</body>
</html>
`))

var resetEmailText = texttemplate.Must(texttemplate.New("reset_text").Parse(`{{.AppName}} - {{.Title}}

{{.Greeting}}

{{.Intro}}

Your {{.CodeLabel}}: {{.Secret}}
{{if .Expiry}}
{{.Expiry}}
{{end}}
If you did not request a password reset you can ignore this email.

Best regards,
{{.Signature}}
`))

// RenderEmail builds the subject and bodies for a password reset email.
func RenderEmail(appName string, message EmailMessage) (*RenderedEmail, error) {
	if appName == "" {
		appName = "Salon Booking App"
	}
	var data resetEmailData
	switch message.Template {
	case TemplateAdminPasswordReset:
		data = resetEmailData{
			AppName:   appName + " - Admin",
			Title:     "Admin Password Reset",
			Greeting:  "Hello Administrator,",
			Intro:     "A password reset was requested for your admin account. Please use the code below.",
			CodeLabel: "admin reset code",
			Signature: appName + " Admin Team",
		}
	case TemplateMobilePasswordReset:
		data = resetEmailData{
			AppName:   appName,
			Title:     "Password Reset Request",
			Greeting:  "Hello,",
			Intro:     "We received a request to reset your password. Please use the verification code below.",
			CodeLabel: "verification code",
			Signature: appName + " Team",
		}
	default:
		return nil, fmt.Errorf("unknown email template %q", message.Template)
	}
	data.Secret = message.Secret
	if message.ExpiresIn > 0 {
		data.Expiry = fmt.Sprintf("This code expires in %s.", humanDuration(message.ExpiresIn))
	}

	var html, text bytes.Buffer
	if err := resetEmailHTML.Execute(&html, data); err != nil {
		return nil, err
	}
	if err := resetEmailText.Execute(&text, data); err != nil {
		return nil, err
	}
	return &RenderedEmail{
		Subject: data.Title + " - " + data.AppName,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

func humanDuration(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	switch {
	case minutes == 1:
		return "1 minute"
	case minutes < 120 || minutes%60 != 0:
		return fmt.Sprintf("%d minutes", minutes)
	default:
		return fmt.Sprintf("%d hours", minutes/60)
	}
}
