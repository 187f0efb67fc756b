package donation

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"memberportal/database/repository"
	donationRepo "memberportal/database/repository/donation"
	"memberportal/models"
	"memberportal/services/session"
	"memberportal/utils"

	"go.uber.org/zap"
)

var (
	ErrPaymentsDisabled = errors.New("donations are not configured")
	ErrInvalidAmount    = errors.New("donation amount is out of range")
	ErrInvalidEmail     = errors.New("a valid email is required")
	ErrInvalidFrequency = errors.New("frequency must be once or monthly")
)

// Donation frequencies.
const (
	FrequencyOnce    = "once"
	FrequencyMonthly = "monthly"
)

// Webhook event types the service reacts to.
const (
	EventSucceeded = "payment_intent.succeeded"
	EventFailed    = "payment_intent.payment_failed"
	EventCanceled  = "payment_intent.canceled"
)

// Service runs donation checkout. Completion is only ever recorded from a
// verified webhook, never from the client.
type Service struct {
	repo           donationRepo.DonationRepository
	gateway        Gateway
	currency       string
	maxMinor       int64
	publishableKey string
}

// NewService returns a checkout service; a nil gateway disables donations.
func NewService(repo donationRepo.DonationRepository, gateway Gateway, currency, publishableKey string, maxMinor int64) *Service {
	return &Service{
		repo:           repo,
		gateway:        gateway,
		currency:       strings.ToLower(currency),
		maxMinor:       maxMinor,
		publishableKey: publishableKey,
	}
}

// Checkout records a pending donation and opens a payment intent for it.
func (s *Service) Checkout(ctx context.Context, req models.DonationRequest, donor *models.User) (*models.CheckoutSession, error) {
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}
	email := session.NormalizeEmail(req.Email)
	if email == "" && donor != nil {
		email = donor.Email
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, ErrInvalidEmail
	}
	if req.AmountMinor <= 0 || (s.maxMinor > 0 && req.AmountMinor > s.maxMinor) {
		return nil, ErrInvalidAmount
	}
	freq := strings.ToLower(strings.TrimSpace(req.Frequency))
	if freq == "" {
		freq = FrequencyOnce
	}
	if freq != FrequencyOnce && freq != FrequencyMonthly {
		return nil, ErrInvalidFrequency
	}

	now := time.Now()
	d := &models.Donation{
		ID:          utils.NewID(),
		Email:       email,
		Name:        strings.TrimSpace(req.Name),
		AmountMinor: req.AmountMinor,
		Currency:    s.currency,
		Frequency:   freq,
		Status:      models.DonationPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if donor != nil {
		d.UserID = donor.ID
	}
	if err := s.repo.Insert(ctx, d); err != nil {
		utils.GetLogger().Error("Failed to record donation", zap.Error(err))
		return nil, fmt.Errorf("checkout failed, please try again")
	}

	intent, err := s.gateway.CreateIntent(ctx, IntentRequest{
		AmountMinor: d.AmountMinor,
		Currency:    d.Currency,
		Email:       d.Email,
		Recurring:   freq == FrequencyMonthly,
		Metadata:    map[string]string{"donation_id": d.ID},
	})
	if err != nil {
		utils.GetLogger().Error("Failed to create payment intent", zap.String("donationID", d.ID), zap.Error(err))
		return nil, fmt.Errorf("checkout failed, please try again")
	}
	if err := s.repo.SetPaymentIntent(ctx, d.ID, intent.ID); err != nil {
		utils.GetLogger().Error("Failed to attach payment intent", zap.String("donationID", d.ID), zap.Error(err))
		return nil, fmt.Errorf("checkout failed, please try again")
	}

	return &models.CheckoutSession{
		DonationID:     d.ID,
		ClientSecret:   intent.ClientSecret,
		PublishableKey: s.publishableKey,
		AmountMinor:    d.AmountMinor,
		Currency:       d.Currency,
	}, nil
}

// HandleWebhook verifies a processor callback and settles the donation it names.
// Unknown payment intents and unrelated event types are acknowledged and ignored.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		return ErrPaymentsDisabled
	}
	ev, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}

	var status string
	switch ev.Type {
	case EventSucceeded:
		status = models.DonationSucceeded
	case EventFailed, EventCanceled:
		status = models.DonationFailed
	default:
		return nil
	}
	if ev.PaymentIntentID == "" {
		return nil
	}

	d, err := s.repo.SetStatusByPaymentIntent(ctx, ev.PaymentIntentID, status)
	if errors.Is(err, repository.ErrNotFound) {
		utils.GetLogger().Warn("Webhook for unknown payment intent", zap.String("paymentIntent", ev.PaymentIntentID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to settle donation: %w", err)
	}
	if d.Status != status {
		utils.GetLogger().Info("Ignored late webhook for settled donation",
			zap.String("donationID", d.ID),
			zap.String("status", d.Status),
			zap.String("event", ev.Type))
		return nil
	}
	utils.GetLogger().Info("Donation settled", zap.String("donationID", d.ID), zap.String("status", status))
	return nil
}

func (s *Service) List(ctx context.Context) ([]models.Donation, error) {
	return s.repo.List(ctx)
}

// Form describes the checkout form to the donation page.
type Form struct {
	Enabled        bool     `json:"enabled"`
	PublishableKey string   `json:"publishableKey,omitempty"`
	Currency       string   `json:"currency"`
	MaxAmountMinor int64    `json:"maxAmountMinor"`
	Frequencies    []string `json:"frequencies"`
}

func (s *Service) Form() Form {
	return Form{
		Enabled:        s.gateway != nil,
		PublishableKey: s.publishableKey,
		Currency:       s.currency,
		MaxAmountMinor: s.maxMinor,
		Frequencies:    []string{FrequencyOnce, FrequencyMonthly},
	}
}
