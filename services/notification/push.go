package notification

import (
	"context"
	"fmt"

	"memberportal/models"
	"memberportal/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Sender is satisfied by *messaging.Client.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Service sends device pushes. A Service without a sender drops every push,
// which is how deployments without hosted messaging run.
type Service struct {
	client Sender
}

func NewService(client Sender) *Service {
	return &Service{client: client}
}

// Enabled reports whether pushes are actually delivered.
func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

// Push delivers msg to a single device token.
func (s *Service) Push(ctx context.Context, msg models.PushMessage) error {
	if !s.Enabled() || msg.Token == "" {
		return nil
	}
	id, err := s.client.Send(ctx, &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	utils.GetLogger().Debug("Push sent", zap.String("messageID", id))
	return nil
}

// NotifyApplicationStatus tells the applicant their application was reviewed.
func (s *Service) NotifyApplicationStatus(ctx context.Context, u *models.User, app *models.Application) error {
	if u == nil || u.FCMToken == "" {
		return nil
	}
	return s.Push(ctx, models.PushMessage{
		Token: u.FCMToken,
		Title: "Application update",
		Body:  fmt.Sprintf("Your application for %s was %s.", app.Target, app.Status),
		Data: map[string]string{
			"applicationId": app.ID,
			"kind":          string(app.Kind),
			"status":        app.Status,
		},
	})
}
