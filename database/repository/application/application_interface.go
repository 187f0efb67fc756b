package applicationRepo

import (
	"context"

	"memberportal/models"
)

// ApplicationRepository stores the submissions of one kind.
type ApplicationRepository interface {
	// Exists reports whether an application with this normalized email is stored.
	Exists(ctx context.Context, email string) (bool, error)
	// Insert writes the application; a second row for the same email fails with repository.ErrDuplicate.
	Insert(ctx context.Context, app *models.Application) error
	List(ctx context.Context) ([]models.Application, error)
	Get(ctx context.Context, id string) (*models.Application, error)
	SetStatus(ctx context.Context, id, status string) (*models.Application, error)
	Delete(ctx context.Context, id string) error
}
