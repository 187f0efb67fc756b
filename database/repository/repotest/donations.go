package repotest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"memberportal/database/repository"
	"memberportal/models"
)

type MemoryDonationRepo struct {
	mu        sync.Mutex
	donations []models.Donation
}

func NewMemoryDonationRepo() *MemoryDonationRepo {
	return &MemoryDonationRepo{}
}

func (r *MemoryDonationRepo) Insert(_ context.Context, d *models.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.donations = append(r.donations, *d)
	return nil
}

func (r *MemoryDonationRepo) SetPaymentIntent(_ context.Context, id, paymentIntentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.donations {
		if r.donations[i].ID == id {
			r.donations[i].PaymentIntentID = paymentIntentID
			r.donations[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("donation %s: %w", id, repository.ErrNotFound)
}

func (r *MemoryDonationRepo) GetByPaymentIntent(_ context.Context, paymentIntentID string) (*models.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.donations {
		if d.PaymentIntentID == paymentIntentID {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("donation for %s: %w", paymentIntentID, repository.ErrNotFound)
}

func (r *MemoryDonationRepo) SetStatusByPaymentIntent(_ context.Context, paymentIntentID, status string) (*models.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.donations {
		if r.donations[i].PaymentIntentID == paymentIntentID {
			if r.donations[i].Status == models.DonationSucceeded {
				d := r.donations[i]
				return &d, nil
			}
			r.donations[i].Status = status
			r.donations[i].UpdatedAt = time.Now()
			d := r.donations[i]
			return &d, nil
		}
	}
	return nil, fmt.Errorf("donation for %s: %w", paymentIntentID, repository.ErrNotFound)
}

func (r *MemoryDonationRepo) List(_ context.Context) ([]models.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Donation, 0, len(r.donations))
	for i := len(r.donations) - 1; i >= 0; i-- {
		out = append(out, r.donations[i])
	}
	return out, nil
}
