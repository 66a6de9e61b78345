package emailconfig

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkazarov/uploadgate/internal/dbx"
	"github.com/dkazarov/uploadgate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context) (models.EmailConfig, error) {
	var cfg models.EmailConfig

	value, err := r.value(ctx)
	if err != nil {
		return cfg, err
	}
	if value == nil {
		return cfg, nil
	}

	if err := json.Unmarshal(value, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func (r *PostgresRepository) GetRaw(ctx context.Context) (map[string]any, error) {
	raw := map[string]any{}

	value, err := r.value(ctx)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return raw, nil
	}

	if err := json.Unmarshal(value, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return raw, nil
}

func (r *PostgresRepository) value(ctx context.Context) ([]byte, error) {
	query :=
		`SELECT value FROM config
         WHERE key = $1
         `

	var value []byte
	err := r.db.QueryRowContext(ctx, query, Key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return value, nil
}

func (r *PostgresRepository) Save(ctx context.Context, value map[string]any, updatedBy string) error {

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	query :=
		`INSERT INTO config (key, value, updated_by)
         VALUES ($1, $2, $3)
         ON CONFLICT (key) DO UPDATE SET value = $2, updated_by = $3, updated_at = now()
         `

	if _, err := r.db.ExecContext(ctx, query, Key, data, updatedBy); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
