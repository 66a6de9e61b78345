package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dkazarov/uploadgate/internal/logging"
	"github.com/dkazarov/uploadgate/internal/server/mail"
	"github.com/dkazarov/uploadgate/internal/server/models"
	"github.com/dkazarov/uploadgate/internal/server/repositories/repomanager"
)

// Notifier delivers best-effort emails about lifecycle transitions. Every
// dispatch runs on its own goroutine with a bounded timeout and reads the
// email configuration at send time, so a hanging relay or a stale config
// can never affect the transition that triggered it. Errors are logged and
// swallowed.
type Notifier struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	sender  mail.Sender
	logger  logging.Logger
	baseURL string
	timeout time.Duration

	wg sync.WaitGroup
}

func NewNotifier(db *sql.DB, rm repomanager.RepositoryManager, sender mail.Sender, logger logging.Logger, baseURL string, timeout time.Duration) *Notifier {
	return &Notifier{
		db:      db,
		rm:      rm,
		sender:  sender,
		logger:  logger.With("module", "notifier"),
		baseURL: baseURL,
		timeout: timeout,
	}
}

// UploadApproved notifies the uploader that the file is available for
// download. Returns immediately.
func (n *Notifier) UploadApproved(upload *models.Upload, actorEmail string) {
	if upload == nil || upload.UploaderEmail == "" {
		return
	}

	msg := mail.Message{
		To:      upload.UploaderEmail,
		Subject: fmt.Sprintf("File Approved: %s", upload.OriginalName),
		HTML: fmt.Sprintf(
			`<h2>Your file has been approved!</h2>`+
				`<p>Your uploaded file "<strong>%s</strong>" has been approved by %s.</p>`+
				`<p>Download: <a href="%s/api/files/%s">Click here</a></p>`,
			upload.OriginalName, actorEmail, n.baseURL, upload.Filename),
	}

	n.dispatch("approved", msg)
}

// UploadRejected notifies the uploader with the rejection reason. Returns
// immediately.
func (n *Notifier) UploadRejected(upload *models.Upload, actorEmail, reason string) {
	if upload == nil || upload.UploaderEmail == "" {
		return
	}

	msg := mail.Message{
		To:      upload.UploaderEmail,
		Subject: fmt.Sprintf("File Rejected: %s", upload.OriginalName),
		HTML: fmt.Sprintf(
			`<h2>Your file was rejected</h2>`+
				`<p>Your uploaded file "<strong>%s</strong>" has been rejected by %s.</p>`+
				`<p><strong>Reason:</strong> %s</p>`,
			upload.OriginalName, actorEmail, reason),
	}

	n.dispatch("rejected", msg)
}

// SendTest sends a test email synchronously using the stored configuration.
// Unlike the lifecycle notifications, the caller wants the error.
func (n *Notifier) SendTest(ctx context.Context, toEmail string) error {
	cfg, err := n.rm.EmailConfig(n.db).Get(ctx)
	if err != nil {
		return err
	}

	msg := mail.Message{
		To:      toEmail,
		Subject: "Test Email - Upload System",
		Text:    "This is a test email from the upload system configuration.",
	}

	return n.sender.Send(ctx, cfg, msg)
}

func (n *Notifier) dispatch(kind string, msg mail.Message) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		cfg, err := n.rm.EmailConfig(n.db).Get(ctx)
		if err != nil {
			n.logger.Error(ctx, "failed to load email config", "kind", kind, "error", err.Error())
			return
		}

		if err := n.sender.Send(ctx, cfg, msg); err != nil {
			n.logger.Error(ctx, "failed to send notification", "kind", kind, "to", msg.To, "error", err.Error())
		}
	}()
}

// Wait blocks until all in-flight notifications finish. Used on shutdown
// and in tests.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
