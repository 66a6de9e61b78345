package emailconfig

import (
	"context"

	"github.com/dkazarov/uploadgate/internal/server/models"
)

// Key is the config-table row holding the SMTP settings.
const Key = "email_config"

// Repository reads and writes the singleton email configuration. Get returns
// a zero-value config when nothing has been stored yet; merge-patch
// semantics are applied by the service on top of GetRaw/Save.
type Repository interface {
	Get(ctx context.Context) (models.EmailConfig, error)
	GetRaw(ctx context.Context) (map[string]any, error)
	Save(ctx context.Context, value map[string]any, updatedBy string) error
}
