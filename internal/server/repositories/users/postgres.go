package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dkazarov/uploadgate/internal/common"
	"github.com/dkazarov/uploadgate/internal/dbx"
	"github.com/dkazarov/uploadgate/internal/server/models"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	roles, err := json.Marshal(user.Roles)
	if err != nil {
		return nil, fmt.Errorf("marshal roles: %w", err)
	}

	query :=
		`INSERT INTO users (email, name, password_hash, roles)
         VALUES ($1, $2, $3, $4)
         RETURNING id, created_at
         `

	err = r.db.QueryRowContext(ctx, query,
		user.Email, user.Name, user.PasswordHash, roles).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, name, password_hash, roles, created_at FROM users
         WHERE email = $1
         `

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, email, name, password_hash, roles, created_at FROM users
         WHERE id = $1
         `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var roles []byte

	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &roles, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(roles, &user.Roles); err != nil {
		return nil, fmt.Errorf("unmarshal roles: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT id, email, name, password_hash, roles, created_at FROM users
         ORDER BY created_at
         `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user := &models.User{}
		var roles []byte
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &roles, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if err := json.Unmarshal(roles, &user.Roles); err != nil {
			return nil, fmt.Errorf("unmarshal roles: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateRoles(ctx context.Context, id string, roles []string) error {

	data, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("marshal roles: %w", err)
	}

	query :=
		`UPDATE users SET roles = $1
         WHERE id = $2
         `

	res, err := r.db.ExecContext(ctx, query, data, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM users
         WHERE id = $1
         `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
