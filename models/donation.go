package models

import "time"

// Donation statuses.
const (
	DonationPending   = "pending"
	DonationSucceeded = "succeeded"
	DonationFailed    = "failed"
)

type Donation struct {
	ID              string    `bson:"id" json:"id"`
	Email           string    `bson:"email" json:"email"`
	Name            string    `bson:"name" json:"name"`
	AmountMinor     int64     `bson:"amount_minor" json:"amountMinor"`
	Currency        string    `bson:"currency" json:"currency"`
	Frequency       string    `bson:"frequency" json:"frequency"`
	PaymentIntentID string    `bson:"payment_intent_id" json:"paymentIntentId"`
	Status          string    `bson:"status" json:"status"`
	UserID          string    `bson:"user_id,omitempty" json:"userId,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updatedAt"`
}

// DonationRequest is the checkout form payload.
type DonationRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	AmountMinor int64  `json:"amountMinor"`
	Frequency   string `json:"frequency"`
}

// CheckoutSession is returned to the client-side payment widget.
type CheckoutSession struct {
	DonationID     string `json:"donationId"`
	ClientSecret   string `json:"clientSecret"`
	PublishableKey string `json:"publishableKey"`
	AmountMinor    int64  `json:"amountMinor"`
	Currency       string `json:"currency"`
}
