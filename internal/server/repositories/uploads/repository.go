package uploads

import (
	"context"

	"github.com/dkazarov/uploadgate/internal/server/models"
)

// Repository persists upload metadata. The approve/reject transitions are
// conditional updates: the storage row is the synchronization point, so two
// concurrent transitions on one upload cannot both win.
type Repository interface {
	Create(ctx context.Context, upload *models.Upload) (*models.Upload, error)
	GetByID(ctx context.Context, id string) (*models.Upload, error)
	GetApprovedByFilename(ctx context.Context, filename string) (*models.Upload, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Upload, error)
	MarkApproved(ctx context.Context, id, actorEmail string) error
	MarkRejected(ctx context.Context, id, actorEmail, reason string) error
}
