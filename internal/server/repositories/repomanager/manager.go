// Package repomanager vends repository implementations bound to a database
// handle, so services can run the same repositories against *sql.DB or an
// open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkazarov/uploadgate/internal/dbx"
	"github.com/dkazarov/uploadgate/internal/server/repositories/emailconfig"
	"github.com/dkazarov/uploadgate/internal/server/repositories/uploads"
	"github.com/dkazarov/uploadgate/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Uploads(db dbx.DBTX) uploads.Repository
	EmailConfig(db dbx.DBTX) emailconfig.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
