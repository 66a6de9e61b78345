package services

import (
	"context"
	"database/sql"

	"github.com/dkazarov/uploadgate/internal/dbx"
	"github.com/dkazarov/uploadgate/internal/server/models"
	"github.com/dkazarov/uploadgate/internal/server/repositories/repomanager"
)

// EmailConfigService reads and merge-writes the singleton SMTP
// configuration.
type EmailConfigService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewEmailConfigService(db *sql.DB, rm repomanager.RepositoryManager) *EmailConfigService {
	return &EmailConfigService{db: db, rm: rm}
}

// GetRedacted returns the stored configuration without the SMTP password.
func (s *EmailConfigService) GetRedacted(ctx context.Context) (models.EmailConfig, error) {
	cfg, err := s.rm.EmailConfig(s.db).Get(ctx)
	if err != nil {
		return models.EmailConfig{}, err
	}
	return cfg.Redacted(), nil
}

// Update applies merge-patch semantics inside a transaction: keys present
// in the patch overwrite stored values, everything else is preserved. An
// absent or empty smtp_password never erases the stored one, so the UI can
// round-trip the redacted config safely.
func (s *EmailConfigService) Update(ctx context.Context, patch map[string]any, updatedBy string) error {

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.EmailConfig(tx)

		existing, err := repo.GetRaw(ctx)
		if err != nil {
			return err
		}

		merged := make(map[string]any, len(existing)+len(patch))
		for k, v := range existing {
			merged[k] = v
		}
		for k, v := range patch {
			merged[k] = v
		}

		if password, ok := patch["smtp_password"]; !ok || password == nil || password == "" {
			delete(merged, "smtp_password")
			if stored, ok := existing["smtp_password"]; ok {
				merged["smtp_password"] = stored
			}
		}

		return repo.Save(ctx, merged, updatedBy)
	})
}
