package users

import (
	"context"

	"github.com/dkazarov/uploadgate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateRoles(ctx context.Context, id string, roles []string) error
	Delete(ctx context.Context, id string) error
}
