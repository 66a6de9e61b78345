// Package httpapi exposes the upload workflow over HTTP. Handlers translate
// between the wire contract and the service layer; all business rules live
// below this package.
package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dkazarov/uploadgate/internal/logging"
	"github.com/dkazarov/uploadgate/internal/server/auth"
	"github.com/dkazarov/uploadgate/internal/server/config"
	"github.com/dkazarov/uploadgate/internal/server/services"
)

type Server struct {
	app      *fiber.App
	cfg      *config.Config
	logger   logging.Logger
	auth     *services.AuthService
	users    *services.UserService
	uploads  *services.UploadService
	emailCfg *services.EmailConfigService
	notifier *services.Notifier
}

func NewServer(cfg *config.Config, logger logging.Logger,
	authSvc *services.AuthService, users *services.UserService,
	uploads *services.UploadService, emailCfg *services.EmailConfigService,
	notifier *services.Notifier) *Server {

	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.MaxUploadSize,
		DisableStartupMessage: true,
	})

	s := &Server{
		app:      app,
		cfg:      cfg,
		logger:   logger.With("module", "httpapi"),
		auth:     authSvc,
		users:    users,
		uploads:  uploads,
		emailCfg: emailCfg,
		notifier: notifier,
	}
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.handleHealth)

	s.app.Post("/auth/login", s.handleLogin)
	s.app.Post("/auth/logout", s.handleLogout)
	s.app.Get("/auth/verify-manager", s.handleVerify(auth.RoleManager, "Manager access required"))
	s.app.Get("/auth/verify-admin", s.handleVerify(auth.RoleAdmin, "Admin access required"))

	s.app.Post("/api/upload", s.handleUpload)
	s.app.Get("/api/files/:filename", s.handleDownload)

	manager := s.app.Group("/api/manager", s.requireRole(auth.RoleManager))
	manager.Get("/pending", s.handlePending)
	manager.Post("/approve/:id", s.handleApprove)
	manager.Post("/reject/:id", s.handleReject)

	admin := s.app.Group("/api/admin", s.requireRole(auth.RoleAdmin))
	admin.Get("/config", s.handleGetConfig)
	admin.Put("/config", s.handleUpdateConfig)
	admin.Post("/test-email", s.handleTestEmail)

	users := s.app.Group("/api/users", s.requireRole(auth.RoleAdmin))
	users.Get("/", s.handleListUsers)
	users.Post("/", s.handleCreateUser)
	users.Put("/:id/role", s.handleUpdateUserRole)
	users.Delete("/:id", s.handleDeleteUser)
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy", "service": "upload-system-backend"})
}
