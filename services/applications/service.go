package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"memberportal/database/repository"
	applicationRepo "memberportal/database/repository/application"
	"memberportal/models"
	"memberportal/services/session"
	"memberportal/utils"

	"go.uber.org/zap"
)

// DefaultVolunteerArea is used when a volunteer sign-up names no area.
const DefaultVolunteerArea = "General volunteering"

// Users is the part of the user service applications rely on.
type Users interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	PromoteToVolunteer(ctx context.Context, userID string) (*models.User, error)
}

type StatusNotifier interface {
	NotifyApplicationStatus(ctx context.Context, u *models.User, app *models.Application) error
}

type ConfirmationMailer interface {
	SendApplicationReceived(ctx context.Context, app *models.Application) error
}

// Submission is the form payload shared by all application kinds.
type Submission struct {
	Email        string   `json:"email"`
	FullName     string   `json:"fullName"`
	Phone        string   `json:"phone"`
	Target       string   `json:"target"`
	Message      string   `json:"message"`
	Guests       int      `json:"guests"`
	Availability string   `json:"availability"`
	Skills       []string `json:"skills"`
}

// Service accepts and reviews applications. Users, Notifier and Mailer are optional.
type Service struct {
	repos    map[models.ApplicationKind]applicationRepo.ApplicationRepository
	Users    Users
	Notifier StatusNotifier
	Mailer   ConfirmationMailer
}

func NewService(repos map[models.ApplicationKind]applicationRepo.ApplicationRepository) *Service {
	return &Service{repos: repos}
}

func (s *Service) repo(kind models.ApplicationKind) (applicationRepo.ApplicationRepository, error) {
	r, ok := s.repos[kind]
	if !ok {
		return nil, ErrUnknownKind
	}
	return r, nil
}

// Exists is the advisory duplicate check offered to forms before submit.
// Submit enforces uniqueness on its own.
func (s *Service) Exists(ctx context.Context, kind models.ApplicationKind, email string) (bool, error) {
	r, err := s.repo(kind)
	if err != nil {
		return false, err
	}
	email = session.NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	return r.Exists(ctx, email)
}

func normalize(kind models.ApplicationKind, sub Submission) (models.Application, error) {
	app := models.Application{
		Kind:         kind,
		Email:        session.NormalizeEmail(sub.Email),
		FullName:     strings.TrimSpace(sub.FullName),
		Phone:        strings.TrimSpace(sub.Phone),
		Target:       strings.TrimSpace(sub.Target),
		Message:      strings.TrimSpace(sub.Message),
		Guests:       sub.Guests,
		Availability: strings.TrimSpace(sub.Availability),
		Status:       models.StatusPending,
	}
	for _, skill := range sub.Skills {
		if v := strings.TrimSpace(skill); v != "" {
			app.Skills = append(app.Skills, v)
		}
	}
	if kind == models.KindVolunteer && app.Target == "" {
		app.Target = DefaultVolunteerArea
	}
	if app.Guests < 0 {
		app.Guests = 0
	}

	var missing []string
	if app.Email == "" {
		missing = append(missing, "email")
	}
	if app.FullName == "" {
		missing = append(missing, "fullName")
	}
	switch kind {
	case models.KindProgram, models.KindEventRSVP:
		if app.Target == "" {
			missing = append(missing, "target")
		}
	case models.KindVolunteer:
		if app.Availability == "" {
			missing = append(missing, "availability")
		}
	}
	if len(missing) > 0 {
		return app, &MissingFieldsError{Fields: missing}
	}
	return app, nil
}

// Submit validates and stores a submission. applicant is the signed-in user,
// or nil. A second submission for the same normalized email is rejected with
// ErrAlreadyApplied whether it is caught by the pre-check or by the unique index.
func (s *Service) Submit(ctx context.Context, kind models.ApplicationKind, sub Submission, applicant *models.User) (*models.Application, error) {
	r, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	app, err := normalize(kind, sub)
	if err != nil {
		return nil, err
	}

	exists, err := r.Exists(ctx, app.Email)
	if err != nil {
		utils.GetLogger().Warn("Duplicate pre-check failed, relying on insert", zap.String("kind", string(kind)), zap.Error(err))
	} else if exists {
		return nil, ErrAlreadyApplied
	}

	now := time.Now()
	app.ID = utils.NewID()
	app.CreatedAt = now
	app.UpdatedAt = now
	if applicant != nil {
		app.UserID = applicant.ID
	}

	if err := r.Insert(ctx, &app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyApplied
		}
		utils.GetLogger().Error("Failed to store application", zap.String("kind", string(kind)), zap.Error(err))
		return nil, fmt.Errorf("submission failed, please try again")
	}

	if kind == models.KindVolunteer && applicant != nil && s.Users != nil {
		if _, err := s.Users.PromoteToVolunteer(ctx, applicant.ID); err != nil {
			utils.GetLogger().Warn("Failed to promote volunteer", zap.String("userID", applicant.ID), zap.Error(err))
		}
	}
	if s.Mailer != nil {
		if err := s.Mailer.SendApplicationReceived(ctx, &app); err != nil {
			utils.GetLogger().Warn("Failed to send confirmation", zap.String("applicationID", app.ID), zap.Error(err))
		}
	}
	return &app, nil
}

// SetStatus records a review decision and pushes it to the applicant's device.
func (s *Service) SetStatus(ctx context.Context, kind models.ApplicationKind, id, status string) (*models.Application, error) {
	switch status {
	case models.StatusPending, models.StatusAccepted, models.StatusRejected:
	default:
		return nil, ErrInvalidStatus
	}
	r, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	app, err := r.SetStatus(ctx, id, status)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	if app.UserID != "" && s.Users != nil && s.Notifier != nil && status != models.StatusPending {
		u, err := s.Users.GetUser(ctx, app.UserID)
		if err == nil {
			err = s.Notifier.NotifyApplicationStatus(ctx, u, app)
		}
		if err != nil {
			utils.GetLogger().Warn("Failed to notify applicant", zap.String("applicationID", app.ID), zap.Error(err))
		}
	}
	return app, nil
}

func (s *Service) Delete(ctx context.Context, kind models.ApplicationKind, id string) error {
	r, err := s.repo(kind)
	if err != nil {
		return err
	}
	err = r.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
