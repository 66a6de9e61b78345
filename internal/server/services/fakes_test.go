package services

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dkazarov/uploadgate/internal/dbx"
	"github.com/dkazarov/uploadgate/internal/logging"
	"github.com/dkazarov/uploadgate/internal/server/mail"
	"github.com/dkazarov/uploadgate/internal/server/models"
	emailconfigrepo "github.com/dkazarov/uploadgate/internal/server/repositories/emailconfig"
	uploadsrepo "github.com/dkazarov/uploadgate/internal/server/repositories/uploads"
	usersrepo "github.com/dkazarov/uploadgate/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	listOut []*models.User
	listErr error

	updateErr error
	deleteErr error

	updatedID    string
	updatedRoles []string
	deletedID    string
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	return f.listOut, f.listErr
}

func (f *fakeUsersRepo) UpdateRoles(ctx context.Context, id string, roles []string) error {
	f.updatedID, f.updatedRoles = id, roles
	return f.updateErr
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	f.deletedID = id
	return f.deleteErr
}

type fakeUploadsRepo struct {
	createErr error

	getOut *models.Upload
	getErr error

	listOut []*models.Upload
	listErr error

	approveErr error
	rejectErr  error

	approvedID    string
	approvedBy    string
	rejectedID    string
	rejectedBy    string
	rejectedWhy   string
	createdUpload *models.Upload
}

func (f *fakeUploadsRepo) Create(ctx context.Context, u *models.Upload) (*models.Upload, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "f-1"
	u.Status = models.UploadStatusPending
	u.UploadedAt = time.Now()
	f.createdUpload = u
	return u, nil
}

func (f *fakeUploadsRepo) GetByID(ctx context.Context, id string) (*models.Upload, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUploadsRepo) GetApprovedByFilename(ctx context.Context, filename string) (*models.Upload, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUploadsRepo) ListByStatus(ctx context.Context, status string) ([]*models.Upload, error) {
	return f.listOut, f.listErr
}

func (f *fakeUploadsRepo) MarkApproved(ctx context.Context, id, actorEmail string) error {
	f.approvedID, f.approvedBy = id, actorEmail
	return f.approveErr
}

func (f *fakeUploadsRepo) MarkRejected(ctx context.Context, id, actorEmail, reason string) error {
	f.rejectedID, f.rejectedBy, f.rejectedWhy = id, actorEmail, reason
	return f.rejectErr
}

type fakeEmailConfigRepo struct {
	getOut models.EmailConfig
	getErr error

	rawOut map[string]any
	rawErr error

	saveErr error

	savedValue map[string]any
	savedBy    string
}

func (f *fakeEmailConfigRepo) Get(ctx context.Context) (models.EmailConfig, error) {
	return f.getOut, f.getErr
}

func (f *fakeEmailConfigRepo) GetRaw(ctx context.Context) (map[string]any, error) {
	if f.rawErr != nil {
		return nil, f.rawErr
	}
	if f.rawOut == nil {
		return map[string]any{}, nil
	}
	return f.rawOut, nil
}

func (f *fakeEmailConfigRepo) Save(ctx context.Context, value map[string]any, updatedBy string) error {
	f.savedValue, f.savedBy = value, updatedBy
	return f.saveErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	f *fakeUploadsRepo
	c *fakeEmailConfigRepo
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository             { return m.u }
func (m *fakeRepoManager) Uploads(db dbx.DBTX) uploadsrepo.Repository         { return m.f }
func (m *fakeRepoManager) EmailConfig(db dbx.DBTX) emailconfigrepo.Repository { return m.c }
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }

type fakeSessionStore struct {
	mu      sync.Mutex
	saved   map[string]models.Identity
	saveErr error
	getErr  error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{saved: map[string]models.Identity{}}
}

func (f *fakeSessionStore) Save(ctx context.Context, handle string, ident models.Identity, ttl time.Duration) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[handle] = ident
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, handle string) (models.Identity, error) {
	if f.getErr != nil {
		return models.Identity{}, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ident, ok := f.saved[handle]
	if !ok {
		return models.Identity{}, errBoom{}
	}
	return ident, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, handle)
	return nil
}

type fakeBlobStore struct {
	mu      sync.Mutex
	saved   map[string][]byte
	saveErr error
	openErr error
	delErr  error

	deleted []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{saved: map[string][]byte{}}
}

func (f *fakeBlobStore) Save(ctx context.Context, key string, r io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[key] = data
	return nil
}

func (f *fakeBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.saved[key]
	if !ok {
		return nil, errBoom{}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return f.delErr
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []mail.Message
	sendErr error
	done    chan struct{}
}

func newFakeSender(capacity int) *fakeSender {
	return &fakeSender{done: make(chan struct{}, capacity)}
}

func (f *fakeSender) Send(ctx context.Context, cfg models.EmailConfig, msg mail.Message) error {
	f.mu.Lock()
	f.sent = append(f.sent, msg)
	f.mu.Unlock()
	if f.done != nil {
		f.done <- struct{}{}
	}
	return f.sendErr
}

func (f *fakeSender) messages() []mail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mail.Message(nil), f.sent...)
}
