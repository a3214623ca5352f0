package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portsrepo "github.com/SscSPs/orsys_voucher_app/internal/core/ports/repositories"
	"github.com/SscSPs/orsys_voucher_app/internal/models"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/mapping"
)

const userColumns = `user_id, email, display_name, role, active, permissions, created_at, created_by, last_updated_at, last_updated_by`

type SQLiteUserRepository struct {
	BaseRepository
}

func newSQLiteUserRepository(db *sql.DB) portsrepo.UserRepositoryFacade {
	return &SQLiteUserRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.UserRepositoryFacade = (*SQLiteUserRepository)(nil)

func scanUser(row rowScanner) (*domain.AppUser, error) {
	var (
		m                    models.AppUser
		perms                string
		createdAt, updatedAt string
	)
	if err := row.Scan(&m.UserID, &m.Email, &m.DisplayName, &m.Role, &m.Active, &perms,
		&createdAt, &m.CreatedBy, &updatedAt, &m.LastUpdatedBy); err != nil {
		return nil, err
	}
	m.Permissions = []byte(perms)
	var err error
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if m.LastUpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	d, err := mapping.ToDomainAppUser(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *SQLiteUserRepository) findOne(ctx context.Context, where string, arg any) (*domain.AppUser, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM app_users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (r *SQLiteUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.AppUser, error) {
	return r.findOne(ctx, `user_id = ?`, userID)
}

func (r *SQLiteUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.AppUser, error) {
	return r.findOne(ctx, `email = ? COLLATE NOCASE`, email)
}

func (r *SQLiteUserRepository) FindUsers(ctx context.Context) ([]domain.AppUser, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM app_users ORDER BY display_name, user_id`)
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

func (r *SQLiteUserRepository) SaveUser(ctx context.Context, user domain.AppUser) error {
	m, err := mapping.ToModelAppUser(user)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `INSERT INTO app_users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.UserID, m.Email, m.DisplayName, m.Role, m.Active, string(m.Permissions),
		formatTime(m.CreatedAt), m.CreatedBy, formatTime(m.LastUpdatedAt), m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", m.Email, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepository) UpdateUser(ctx context.Context, user domain.AppUser) error {
	m, err := mapping.ToModelAppUser(user)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE app_users
		SET email = ?, display_name = ?, role = ?, active = ?, permissions = ?, last_updated_at = ?, last_updated_by = ?
		WHERE user_id = ?`,
		m.Email, m.DisplayName, m.Role, m.Active, string(m.Permissions), formatTime(m.LastUpdatedAt), m.LastUpdatedBy, m.UserID)
	if err != nil {
		return fmt.Errorf("failed to execute update user query: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", m.UserID, apperrors.ErrNotFound)
	}
	return nil
}
