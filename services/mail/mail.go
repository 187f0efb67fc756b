package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"memberportal/models"
	"memberportal/utils"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Message is a single outgoing email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender delivers a message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// ResendSender sends through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("resend send failed: %w", err)
	}
	return sent.Id, nil
}

var (
	resetTemplate = template.Must(template.New("reset").Parse(
		`<p>Hello,</p><p>We received a request to reset the password for {{.AppName}}.</p>` +
			`<p><a href="{{.Link}}">Choose a new password</a></p>` +
			`<p>If you did not ask for this, you can ignore this email.</p>`))

	receivedTemplate = template.Must(template.New("received").Parse(
		`<p>Hi {{.Name}},</p><p>Thanks for your {{.What}} for <strong>{{.Target}}</strong>.</p>` +
			`<p>We will be in touch once the team has reviewed it.</p><p>{{.AppName}}</p>`))
)

// Service renders and sends the portal's transactional mail. Without a sender
// every call is a logged no-op.
type Service struct {
	sender  Sender
	appName func() string
}

// NewService builds the mailer; appName is consulted per message so branding
// changes apply without a restart.
func NewService(sender Sender, appName func() string) *Service {
	if appName == nil {
		appName = func() string { return models.DefaultSettings().AppName }
	}
	return &Service{sender: sender, appName: appName}
}

func (s *Service) Enabled() bool {
	return s != nil && s.sender != nil
}

func (s *Service) send(ctx context.Context, to, subject string, tmpl *template.Template, data any) error {
	if !s.Enabled() {
		utils.GetLogger().Debug("Mail disabled, dropping message", zap.String("subject", subject))
		return nil
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", tmpl.Name(), err)
	}
	id, err := s.sender.Send(ctx, Message{To: []string{to}, Subject: subject, HTML: buf.String()})
	if err != nil {
		return err
	}
	utils.GetLogger().Info("Mail sent", zap.String("template", tmpl.Name()), zap.String("messageID", id))
	return nil
}

// SendPasswordReset mails a hosted password-reset link.
func (s *Service) SendPasswordReset(ctx context.Context, email, link string) error {
	name := s.appName()
	return s.send(ctx, email, "Reset your "+name+" password", resetTemplate, map[string]string{
		"AppName": name,
		"Link":    link,
	})
}

var kindNoun = map[models.ApplicationKind]string{
	models.KindProgram:   "application",
	models.KindEventRSVP: "RSVP",
	models.KindVolunteer: "volunteer sign-up",
}

// SendApplicationReceived confirms a submission to the applicant.
func (s *Service) SendApplicationReceived(ctx context.Context, app *models.Application) error {
	name := s.appName()
	return s.send(ctx, app.Email, "We received your "+kindNoun[app.Kind], receivedTemplate, map[string]string{
		"AppName": name,
		"Name":    app.FullName,
		"What":    kindNoun[app.Kind],
		"Target":  app.Target,
	})
}
