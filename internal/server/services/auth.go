// Package services implements the business rules of the upload workflow on
// top of the repository and storage layers.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkazarov/uploadgate/internal/common"
	"github.com/dkazarov/uploadgate/internal/server/auth"
	"github.com/dkazarov/uploadgate/internal/server/config"
	"github.com/dkazarov/uploadgate/internal/server/models"
	"github.com/dkazarov/uploadgate/internal/server/repositories/repomanager"
	"github.com/dkazarov/uploadgate/internal/server/sessions"
)

// AuthService is the session issuer: it authenticates credentials and hands
// out the two identity carriers (signed bearer token and cached session
// handle), and verifies either carrier on later requests.
type AuthService struct {
	db            *sql.DB
	rm            repomanager.RepositoryManager
	sessions      sessions.Store
	jwtSecret     []byte
	tokenValidity time.Duration
	sessionTTL    time.Duration
}

func NewAuthService(db *sql.DB, rm repomanager.RepositoryManager, store sessions.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		db:            db,
		rm:            rm,
		sessions:      store,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidity,
		sessionTTL:    cfg.SessionTTL,
	}
}

// LoginResult carries both identity carriers issued for a successful login.
type LoginResult struct {
	Token  string
	Handle string
	User   *models.User
}

// Login verifies the credentials and issues a bearer token plus a session
// handle. Unknown email and wrong password are indistinguishable to the
// caller: both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {

	user, err := s.rm.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	ident := models.Identity{UserID: user.ID, Email: user.Email, Roles: user.Roles}

	token, err := auth.GenerateToken(ident, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrInternal
	}

	handle := sessions.NewHandle(user.ID)
	if err := s.sessions.Save(ctx, handle, ident, s.sessionTTL); err != nil {
		return nil, common.ErrInternal
	}

	return &LoginResult{Token: token, Handle: handle, User: user}, nil
}

// Verify resolves an identity from either carrier, bearer token first. A
// request needs only one valid carrier; with neither it is unauthenticated.
func (s *AuthService) Verify(ctx context.Context, bearer, handle string) (models.Identity, error) {

	if bearer != "" {
		ident, err := auth.GetIdentityFromToken(bearer, s.jwtSecret)
		if err == nil {
			return ident, nil
		}
	}

	if handle != "" {
		ident, err := s.sessions.Get(ctx, handle)
		if err == nil {
			return ident, nil
		}
	}

	return models.Identity{}, common.ErrUnauthenticated
}

// Logout drops the server-side session. The bearer token stays valid until
// its own expiry; only the cached carrier can be revoked.
func (s *AuthService) Logout(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}
	return s.sessions.Delete(ctx, handle)
}
