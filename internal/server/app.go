// Package server initializes and runs the upload workflow server: it wires
// configuration, database, repositories, services and the HTTP surface, and
// handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dkazarov/uploadgate/internal/logging"
	"github.com/dkazarov/uploadgate/internal/server/blob"
	"github.com/dkazarov/uploadgate/internal/server/config"
	"github.com/dkazarov/uploadgate/internal/server/httpapi"
	"github.com/dkazarov/uploadgate/internal/server/mail"
	"github.com/dkazarov/uploadgate/internal/server/repositories/repomanager"
	"github.com/dkazarov/uploadgate/internal/server/services"
	"github.com/dkazarov/uploadgate/internal/server/sessions"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	server   *httpapi.Server
	notifier *services.Notifier
	sessions sessions.Store
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	authSvc := services.NewAuthService(db, rm, store, cfg)
	userSvc := services.NewUserService(db, rm)
	notifier := services.NewNotifier(db, rm, mail.NewSMTPSender(), logger, cfg.PublicBaseURL, cfg.NotifyTimeout)
	uploadSvc := services.NewUploadService(db, rm, blobs, notifier, logger)
	emailSvc := services.NewEmailConfigService(db, rm)

	srv := httpapi.NewServer(cfg, logger, authSvc, userSvc, uploadSvc, emailSvc, notifier)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		server:   srv,
		notifier: notifier,
		sessions: store,
	}, nil
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.RedisAddr != "" {
		return sessions.NewRedisStore(cfg.RedisAddr), nil
	}
	return sessions.NewMemoryStore(), nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch cfg.BlobBackend {
	case "s3":
		return blob.NewS3Store(ctx, blob.S3Options{
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	default:
		return blob.NewLocalStore(cfg.UploadDir)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.Addr)

	app.initSignalHandler(cancelFunc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Listen(app.config.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			app.logger.Error(ctx, "server error", "error", err.Error())
		}
	case <-ctx.Done():
		app.logger.Info(ctx, "Shutting down...")
		if err := app.server.Shutdown(); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}

	// let in-flight notifications drain before closing shared resources
	app.notifier.Wait()

	if closer, ok := app.sessions.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			app.logger.Error(ctx, "session store close error", "error", err.Error())
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
