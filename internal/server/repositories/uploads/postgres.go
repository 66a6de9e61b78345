package uploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkazarov/uploadgate/internal/common"
	"github.com/dkazarov/uploadgate/internal/dbx"
	"github.com/dkazarov/uploadgate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const uploadColumns = `id, filename, original_name, mimetype, size, description, uploader_email, status, uploaded_at, approved_by, approved_at, rejection_reason`

func (r *PostgresRepository) Create(ctx context.Context, upload *models.Upload) (*models.Upload, error) {

	query :=
		`INSERT INTO uploads (filename, original_name, mimetype, size, description, uploader_email)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, status, uploaded_at
         `

	err := r.db.QueryRowContext(ctx, query,
		upload.Filename, upload.OriginalName, upload.Mimetype, upload.Size,
		upload.Description, upload.UploaderEmail).
		Scan(&upload.ID, &upload.Status, &upload.UploadedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return upload, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE id = $1`
	return scanUpload(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetApprovedByFilename(ctx context.Context, filename string) (*models.Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE filename = $1 AND status = $2`
	return scanUpload(r.db.QueryRowContext(ctx, query, filename, models.UploadStatusApproved))
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, status string) ([]*models.Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE status = $1 ORDER BY uploaded_at DESC`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Upload
	for rows.Next() {
		upload, err := scanUploadRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, upload)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// MarkApproved performs the pending→approved transition as a conditional
// update. When the guard matches no row, the current status decides between
// ErrNotFound and ErrInvalidTransition.
func (r *PostgresRepository) MarkApproved(ctx context.Context, id, actorEmail string) error {
	query :=
		`UPDATE uploads SET status = $1, approved_by = $2, approved_at = now()
         WHERE id = $3 AND status = $4
         `

	return r.transition(ctx, id, query, models.UploadStatusApproved, actorEmail, id, models.UploadStatusPending)
}

// MarkRejected performs the pending→rejected transition, storing the reason
// alongside the actor audit fields.
func (r *PostgresRepository) MarkRejected(ctx context.Context, id, actorEmail, reason string) error {
	query :=
		`UPDATE uploads SET status = $1, rejection_reason = $2, approved_by = $3, approved_at = now()
         WHERE id = $4 AND status = $5
         `

	return r.transition(ctx, id, query, models.UploadStatusRejected, reason, actorEmail, id, models.UploadStatusPending)
}

func (r *PostgresRepository) transition(ctx context.Context, id, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// The guard did not match: either the row is gone or a concurrent
	// transition already moved it to a terminal state.
	var status string
	err = r.db.QueryRowContext(ctx, `SELECT status FROM uploads WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	return common.ErrInvalidTransition
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUpload(row *sql.Row) (*models.Upload, error) {
	upload, err := scanUploadRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return upload, nil
}

func scanUploadRow(row rowScanner) (*models.Upload, error) {
	upload := &models.Upload{}
	var approvedBy, rejectionReason sql.NullString
	var approvedAt sql.NullTime

	err := row.Scan(&upload.ID, &upload.Filename, &upload.OriginalName, &upload.Mimetype,
		&upload.Size, &upload.Description, &upload.UploaderEmail, &upload.Status,
		&upload.UploadedAt, &approvedBy, &approvedAt, &rejectionReason)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if approvedBy.Valid {
		upload.ApprovedBy = &approvedBy.String
	}
	if approvedAt.Valid {
		upload.ApprovedAt = &approvedAt.Time
	}
	if rejectionReason.Valid {
		upload.RejectionReason = &rejectionReason.String
	}

	return upload, nil
}
