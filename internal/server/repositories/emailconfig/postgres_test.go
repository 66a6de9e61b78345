package emailconfig

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const selectQ = `(?s)^SELECT\s+value\s+FROM\s+config\s+WHERE\s+key\s*=\s*\$1\s*$`
const upsertQ = `(?s)^INSERT\s+INTO\s+config\s*\(key,\s*value,\s*updated_by\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*ON\s+CONFLICT\s*\(key\)\s*DO\s+UPDATE\s+SET\s+value\s*=\s*\$2,\s*updated_by\s*=\s*\$3,\s*updated_at\s*=\s*now\(\)\s*$`

func TestGet_Stored(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	value := []byte(`{"smtp_host":"smtp.example.com","smtp_port":587,"from_email":"noreply@example.com"}`)
	mock.ExpectQuery(selectQ).
		WithArgs(Key).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(value))

	got, err := repo.Get(context.Background())
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.SMTPHost != "smtp.example.com" || got.SMTPPort != 587 || got.FromEmail != "noreply@example.com" {
		t.Fatalf("unexpected config: %+v", got)
	}
}

func TestGet_Missing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).
		WithArgs(Key).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Get(context.Background())
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.SMTPHost != "" || got.SMTPPort != 0 {
		t.Fatalf("want zero config, got %+v", got)
	}
}

func TestGetRaw_Missing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).
		WithArgs(Key).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.GetRaw(context.Background())
	if err != nil {
		t.Fatalf("GetRaw error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty map, got %v", got)
	}
}

func TestGet_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).
		WithArgs(Key).
		WillReturnError(errors.New("db down"))

	_, err := repo.Get(context.Background())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestSave_Upsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertQ).
		WithArgs(Key, []byte(`{"smtp_host":"smtp.example.com"}`), "admin@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), map[string]any{"smtp_host": "smtp.example.com"}, "admin@example.com")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
