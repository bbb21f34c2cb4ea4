package announces

import (
	"context"

	"github.com/petiteannonce/server/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Announce) (*models.Announce, error)
	GetByID(ctx context.Context, id int64) (*models.Announce, error)
	SelectAll(ctx context.Context) ([]*models.Announce, error)
	SelectByOwner(ctx context.Context, ownerID int64) ([]*models.Announce, error)
	Update(ctx context.Context, a *models.Announce) error
	Delete(ctx context.Context, id int64) error
}
