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

const headColumns = `head_id, name, code, status, category, description, created_at, created_by, last_updated_at, last_updated_by`

type SQLiteHeadRepository struct {
	BaseRepository
}

func newSQLiteHeadRepository(db *sql.DB) portsrepo.HeadRepositoryFacade {
	return &SQLiteHeadRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.HeadRepositoryFacade = (*SQLiteHeadRepository)(nil)

func scanHead(row rowScanner) (*domain.Head, error) {
	var (
		m                    models.Head
		createdAt, updatedAt string
	)
	if err := row.Scan(&m.HeadID, &m.Name, &m.Code, &m.Status, &m.Category, &m.Description,
		&createdAt, &m.CreatedBy, &updatedAt, &m.LastUpdatedBy); err != nil {
		return nil, err
	}
	var err error
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if m.LastUpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	d := mapping.ToDomainHead(m)
	return &d, nil
}

func (r *SQLiteHeadRepository) findOne(ctx context.Context, where string, arg any) (*domain.Head, error) {
	head, err := scanHead(r.DB.QueryRowContext(ctx, `SELECT `+headColumns+` FROM heads WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find head: %w", err)
	}
	return head, nil
}

func (r *SQLiteHeadRepository) FindHeadByID(ctx context.Context, headID string) (*domain.Head, error) {
	return r.findOne(ctx, `head_id = ?`, headID)
}

func (r *SQLiteHeadRepository) FindHeadByName(ctx context.Context, name string) (*domain.Head, error) {
	return r.findOne(ctx, `name = ? COLLATE NOCASE`, name)
}

func (r *SQLiteHeadRepository) ListHeads(ctx context.Context, status domain.HeadStatus) ([]domain.Head, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+headColumns+` FROM heads WHERE (? = '' OR status = ?) ORDER BY name`, string(status), string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query heads: %w", err)
	}
	defer rows.Close()

	heads := []domain.Head{}
	for rows.Next() {
		head, err := scanHead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan head row: %w", err)
		}
		heads = append(heads, *head)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating head rows: %w", err)
	}
	return heads, nil
}

func (r *SQLiteHeadRepository) SaveHead(ctx context.Context, head domain.Head) error {
	m := mapping.ToModelHead(head)
	_, err := r.DB.ExecContext(ctx, `INSERT INTO heads (`+headColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.HeadID, m.Name, m.Code, m.Status, m.Category, m.Description,
		formatTime(m.CreatedAt), m.CreatedBy, formatTime(m.LastUpdatedAt), m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("head %q: %w", m.Name, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save head: %w", err)
	}
	return nil
}

func (r *SQLiteHeadRepository) UpdateHead(ctx context.Context, head domain.Head) error {
	m := mapping.ToModelHead(head)
	res, err := r.DB.ExecContext(ctx, `
		UPDATE heads
		SET name = ?, code = ?, status = ?, category = ?, description = ?, last_updated_at = ?, last_updated_by = ?
		WHERE head_id = ?`,
		m.Name, m.Code, m.Status, m.Category, m.Description, formatTime(m.LastUpdatedAt), m.LastUpdatedBy, m.HeadID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("head %q: %w", m.Name, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update head: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("head %s: %w", m.HeadID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *SQLiteHeadRepository) DeleteHead(ctx context.Context, headID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM heads WHERE head_id = ?`, headID)
	if err != nil {
		return fmt.Errorf("failed to delete head: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("head %s: %w", headID, apperrors.ErrNotFound)
	}
	return nil
}
