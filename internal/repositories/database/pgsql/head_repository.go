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

const headColumns = `head_id, name, code, status, category, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxHeadRepository struct {
	BaseRepository
}

func newPgxHeadRepository(db *pgxpool.Pool) portsrepo.HeadRepositoryFacade {
	return &PgxHeadRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.HeadRepositoryFacade = (*PgxHeadRepository)(nil)

func scanHead(row pgx.Row) (*domain.Head, error) {
	var m models.Head
	err := row.Scan(&m.HeadID, &m.Name, &m.Code, &m.Status, &m.Category, &m.Description,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainHead(m)
	return &d, nil
}

func (r *PgxHeadRepository) FindHeadByID(ctx context.Context, headID string) (*domain.Head, error) {
	head, err := scanHead(r.Pool.QueryRow(ctx, `SELECT `+headColumns+` FROM heads WHERE head_id = $1`, headID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find head %s: %w", headID, err)
	}
	return head, nil
}

func (r *PgxHeadRepository) FindHeadByName(ctx context.Context, name string) (*domain.Head, error) {
	head, err := scanHead(r.Pool.QueryRow(ctx, `SELECT `+headColumns+` FROM heads WHERE LOWER(name) = LOWER($1)`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find head by name: %w", err)
	}
	return head, nil
}

func (r *PgxHeadRepository) ListHeads(ctx context.Context, status domain.HeadStatus) ([]domain.Head, error) {
	query := `SELECT ` + headColumns + ` FROM heads WHERE ($1 = '' OR status = $1) ORDER BY name`
	rows, err := r.Pool.Query(ctx, query, string(status))
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

func (r *PgxHeadRepository) SaveHead(ctx context.Context, head domain.Head) error {
	m := mapping.ToModelHead(head)
	query := `INSERT INTO heads (` + headColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.Pool.Exec(ctx, query, m.HeadID, m.Name, m.Code, m.Status, m.Category, m.Description,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("head %q: %w", m.Name, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save head: %w", err)
	}
	return nil
}

func (r *PgxHeadRepository) UpdateHead(ctx context.Context, head domain.Head) error {
	m := mapping.ToModelHead(head)
	query := `
		UPDATE heads
		SET name = $1, code = $2, status = $3, category = $4, description = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE head_id = $8`
	cmdTag, err := r.Pool.Exec(ctx, query, m.Name, m.Code, m.Status, m.Category, m.Description,
		m.LastUpdatedAt, m.LastUpdatedBy, m.HeadID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("head %q: %w", m.Name, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update head: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("head %s: %w", m.HeadID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxHeadRepository) DeleteHead(ctx context.Context, headID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM heads WHERE head_id = $1`, headID)
	if err != nil {
		return fmt.Errorf("failed to delete head: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("head %s: %w", headID, apperrors.ErrNotFound)
	}
	return nil
}
