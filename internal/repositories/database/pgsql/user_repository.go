package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portsrepo "github.com/SscSPs/orsys_voucher_app/internal/core/ports/repositories"
	"github.com/SscSPs/orsys_voucher_app/internal/models"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `user_id, email, display_name, role, active, permissions, created_at, created_by, last_updated_at, last_updated_by`

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func scanUser(row pgx.Row) (*domain.AppUser, error) {
	var m models.AppUser
	err := row.Scan(&m.UserID, &m.Email, &m.DisplayName, &m.Role, &m.Active, &m.Permissions,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	d, err := mapping.ToDomainAppUser(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgxUserRepository) findOne(ctx context.Context, where string, arg any) (*domain.AppUser, error) {
	user, err := scanUser(r.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM app_users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.AppUser, error) {
	return r.findOne(ctx, `user_id = $1`, userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.AppUser, error) {
	return r.findOne(ctx, `LOWER(email) = LOWER($1)`, email)
}

func (r *PgxUserRepository) FindUsers(ctx context.Context) ([]domain.AppUser, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+userColumns+` FROM app_users ORDER BY display_name, user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.AppUser{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.AppUser) error {
	m, err := mapping.ToModelAppUser(user)
	if err != nil {
		return err
	}
	query := `INSERT INTO app_users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.Pool.Exec(ctx, query, m.UserID, m.Email, m.DisplayName, m.Role, m.Active, m.Permissions,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", m.Email, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.AppUser) error {
	m, err := mapping.ToModelAppUser(user)
	if err != nil {
		return err
	}
	query := `
		UPDATE app_users
		SET email = $1, display_name = $2, role = $3, active = $4, permissions = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE user_id = $8`
	cmdTag, err := r.Pool.Exec(ctx, query, m.Email, m.DisplayName, m.Role, m.Active, m.Permissions,
		m.LastUpdatedAt, m.LastUpdatedBy, m.UserID)
	if err != nil {
		return fmt.Errorf("failed to execute update user query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", m.UserID, apperrors.ErrNotFound)
	}
	return nil
}
