package services

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkazarov/uploadgate/internal/common"
	"github.com/dkazarov/uploadgate/internal/server/auth"
	"github.com/dkazarov/uploadgate/internal/server/models"
	"github.com/dkazarov/uploadgate/internal/server/repositories/repomanager"
)

// UserService owns user records and their role sets. Role changes and
// deletions are guarded against self-action: an admin cannot demote or
// delete the account their own session is acting as.
type UserService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, rm repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, rm: rm}
}

func (s *UserService) Create(ctx context.Context, email, name, password string, roles []string) (*models.User, error) {

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrBadRequest)
	}
	if len(roles) == 0 {
		roles = []string{string(auth.RoleUser)}
	}
	if !auth.ValidRoleSet(roles) {
		return nil, fmt.Errorf("%w: unknown role", common.ErrBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Roles:        roles,
	}

	user, err = s.rm.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.rm.Users(s.db).List(ctx)
}

// UpdateRoles replaces the target's role set. Fails with ErrForbidden when
// the target is the acting identity itself.
func (s *UserService) UpdateRoles(ctx context.Context, actor models.Identity, targetID string, roles []string) error {

	if targetID == actor.UserID {
		return fmt.Errorf("%w: cannot change own roles", common.ErrForbidden)
	}
	if !auth.ValidRoleSet(roles) {
		return fmt.Errorf("%w: unknown role", common.ErrBadRequest)
	}

	return s.rm.Users(s.db).UpdateRoles(ctx, targetID, roles)
}

// Delete removes the target user. Fails with ErrForbidden when the target
// is the acting identity itself.
func (s *UserService) Delete(ctx context.Context, actor models.Identity, targetID string) error {

	if targetID == actor.UserID {
		return fmt.Errorf("%w: cannot delete own account", common.ErrForbidden)
	}

	return s.rm.Users(s.db).Delete(ctx, targetID)
}
