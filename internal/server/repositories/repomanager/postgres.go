package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dkazarov/uploadgate/internal/dbx"
	"github.com/dkazarov/uploadgate/internal/server/migrations"
	"github.com/dkazarov/uploadgate/internal/server/repositories/emailconfig"
	"github.com/dkazarov/uploadgate/internal/server/repositories/uploads"
	"github.com/dkazarov/uploadgate/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Uploads returns an uploads.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Uploads(db dbx.DBTX) uploads.Repository {
	return uploads.NewPostgresRepository(db)
}

// EmailConfig returns an emailconfig.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) EmailConfig(db dbx.DBTX) emailconfig.Repository {
	return emailconfig.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
