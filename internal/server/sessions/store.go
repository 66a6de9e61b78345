// Package sessions implements the server-side session cache: an expiring
// key-value store mapping opaque handles to identity snapshots. The cache is
// a lookup, not a source of truth; entries disappear on expiry and the
// caller falls back to re-authentication.
package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkazarov/uploadgate/internal/server/models"
)

// Store is the expiring session cache contract. Get returns
// common.ErrNotFound for absent or expired handles.
type Store interface {
	Save(ctx context.Context, handle string, ident models.Identity, ttl time.Duration) error
	Get(ctx context.Context, handle string) (models.Identity, error)
	Delete(ctx context.Context, handle string) error
}

// NewHandle generates an opaque session handle. The user id prefix exists
// only for operator-facing inspection of the cache; it carries no authority.
func NewHandle(userID string) string {
	return fmt.Sprintf("session:%s:%s", userID, uuid.NewString())
}
