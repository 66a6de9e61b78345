package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/dkazarov/uploadgate/internal/common"
	"github.com/dkazarov/uploadgate/internal/logging"
	"github.com/dkazarov/uploadgate/internal/server/blob"
	"github.com/dkazarov/uploadgate/internal/server/models"
	"github.com/dkazarov/uploadgate/internal/server/repositories/repomanager"
)

// unsafeNameChars matches everything that may not appear in a stored
// filename.
var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// StoredFilename derives a collision-resistant storage key from the
// submission time and a sanitized original name.
func StoredFilename(originalName string) string {
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), unsafeNameChars.ReplaceAllString(originalName, "_"))
}

// UploadService owns the lifecycle state machine for submitted files:
// pending → approved | rejected, both terminal. Transitions are serialized
// by the database row, not by in-process locks.
type UploadService struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	blobs    blob.Store
	notifier *Notifier
	logger   logging.Logger
}

func NewUploadService(db *sql.DB, rm repomanager.RepositoryManager, blobs blob.Store, notifier *Notifier, logger logging.Logger) *UploadService {
	return &UploadService{
		db:       db,
		rm:       rm,
		blobs:    blobs,
		notifier: notifier,
		logger:   logger.With("module", "uploads"),
	}
}

// Submit registers a new pending upload and stores its payload. The
// metadata row is inserted before the blob is moved into permanent storage:
// a crash in between leaves a recoverable temp file, not a downloadable
// record without content.
func (s *UploadService) Submit(ctx context.Context, originalName, mimetype string, size int64, description, uploaderEmail string, content io.Reader) (*models.Upload, error) {

	if content == nil || originalName == "" {
		return nil, fmt.Errorf("%w: no file uploaded", common.ErrBadRequest)
	}
	if uploaderEmail == "" {
		return nil, fmt.Errorf("%w: uploader email is required", common.ErrBadRequest)
	}

	upload := &models.Upload{
		Filename:      StoredFilename(originalName),
		OriginalName:  originalName,
		Mimetype:      mimetype,
		Size:          size,
		Description:   description,
		UploaderEmail: uploaderEmail,
	}

	upload, err := s.rm.Uploads(s.db).Create(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("create upload: %w", err)
	}

	if err := s.blobs.Save(ctx, upload.Filename, content); err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}

	return upload, nil
}

// ListPending returns uploads awaiting a decision, most recent first.
func (s *UploadService) ListPending(ctx context.Context) ([]*models.Upload, error) {
	return s.rm.Uploads(s.db).ListByStatus(ctx, models.UploadStatusPending)
}

// Approve moves a pending upload to the approved terminal state and
// notifies the uploader. A concurrent competing transition loses with
// ErrInvalidTransition.
func (s *UploadService) Approve(ctx context.Context, id, actorEmail string) (*models.Upload, error) {

	repo := s.rm.Uploads(s.db)

	if err := repo.MarkApproved(ctx, id, actorEmail); err != nil {
		return nil, err
	}

	upload, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifier.UploadApproved(upload, actorEmail)

	return upload, nil
}

// Reject moves a pending upload to the rejected terminal state, removes its
// payload and notifies the uploader. The metadata transition commits first;
// a blob deletion failure is logged, never surfaced.
func (s *UploadService) Reject(ctx context.Context, id, actorEmail, reason string) (*models.Upload, error) {

	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", common.ErrBadRequest)
	}

	repo := s.rm.Uploads(s.db)

	if err := repo.MarkRejected(ctx, id, actorEmail, reason); err != nil {
		return nil, err
	}

	upload, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.blobs.Delete(ctx, upload.Filename); err != nil {
		s.logger.Error(ctx, "failed to delete rejected blob", "filename", upload.Filename, "error", err.Error())
	}

	s.notifier.UploadRejected(upload, actorEmail, reason)

	return upload, nil
}

// Download serves the payload of an approved upload. Pending, rejected and
// unknown filenames are indistinguishable: all yield ErrNotFound.
func (s *UploadService) Download(ctx context.Context, filename string) (*models.Upload, io.ReadCloser, error) {

	upload, err := s.rm.Uploads(s.db).GetApprovedByFilename(ctx, filename)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.blobs.Open(ctx, upload.Filename)
	if err != nil {
		s.logger.Error(ctx, "approved upload has no blob", "filename", upload.Filename, "error", err.Error())
		return nil, nil, common.ErrNotFound
	}

	return upload, content, nil
}
