package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portsrepo "github.com/SscSPs/orsys_voucher_app/internal/core/ports/repositories"
	"github.com/SscSPs/orsys_voucher_app/internal/models"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const voucherColumns = `id, book, doc, entry_date, slip_no, created_at`

// PgxVoucherRepository stores voucher documents as JSONB.
type PgxVoucherRepository struct {
	BaseRepository
}

func newPgxVoucherRepository(db *pgxpool.Pool) portsrepo.VoucherRepositoryFacade {
	return &PgxVoucherRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.VoucherRepositoryFacade = (*PgxVoucherRepository)(nil)

// filterClause renders the WHERE conditions of filter starting at placeholder $1.
func filterClause(filter domain.VoucherFilter) (string, []any) {
	conds := []string{"book = $1"}
	args := []any{string(filter.Book)}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		conds = append(conds, fmt.Sprintf("entry_date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		conds = append(conds, fmt.Sprintf("entry_date <= $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("doc->>'paymentStatus' = $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

func scanVoucherRows(rows pgx.Rows) ([]models.Voucher, error) {
	defer rows.Close()

	var out []models.Voucher
	for rows.Next() {
		var m models.Voucher
		if err := rows.Scan(&m.ID, &m.Book, &m.Doc, &m.EntryDate, &m.SlipNo, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan voucher row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voucher rows: %w", err)
	}
	return out, nil
}

func toRawVouchers(ms []models.Voucher) ([]domain.RawVoucher, error) {
	raws := make([]domain.RawVoucher, 0, len(ms))
	for _, m := range ms {
		raw, err := mapping.ToDomainRawVoucher(m)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

func (r *PgxVoucherRepository) FindVouchers(ctx context.Context, filter domain.VoucherFilter) ([]domain.RawVoucher, error) {
	where, args := filterClause(filter)
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE ` + where + ` ORDER BY entry_date DESC NULLS LAST, id DESC`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vouchers: %w", err)
	}
	ms, err := scanVoucherRows(rows)
	if err != nil {
		return nil, err
	}
	return toRawVouchers(ms)
}

func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, book domain.Book, id string) (*domain.RawVoucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE book = $1 AND id = $2`

	var m models.Voucher
	err := r.Pool.QueryRow(ctx, query, string(book), id).Scan(&m.ID, &m.Book, &m.Doc, &m.EntryDate, &m.SlipNo, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find voucher %s: %w", id, err)
	}

	raw, err := mapping.ToDomainRawVoucher(m)
	if err != nil {
		return nil, err
	}
	return &raw, nil
}

func (r *PgxVoucherRepository) FindVouchersBySlipNo(ctx context.Context, book domain.Book, slipNo int64) ([]domain.RawVoucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE book = $1 AND slip_no = $2 ORDER BY created_at`

	rows, err := r.Pool.Query(ctx, query, string(book), slipNo)
	if err != nil {
		return nil, fmt.Errorf("failed to query vouchers by slip %d: %w", slipNo, err)
	}
	ms, err := scanVoucherRows(rows)
	if err != nil {
		return nil, err
	}
	return toRawVouchers(ms)
}

func (r *PgxVoucherRepository) ListVouchers(ctx context.Context, filter domain.VoucherFilter, limit int, afterEntry *time.Time, afterID string) (domain.ListPage, error) {
	where, args := filterClause(filter)
	where += " AND entry_date IS NOT NULL"
	if afterEntry != nil {
		args = append(args, *afterEntry, afterID)
		where += fmt.Sprintf(" AND (entry_date, id) < ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE ` + where +
		fmt.Sprintf(` ORDER BY entry_date DESC, id DESC LIMIT $%d`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return domain.ListPage{}, fmt.Errorf("failed to list vouchers: %w", err)
	}
	ms, err := scanVoucherRows(rows)
	if err != nil {
		return domain.ListPage{}, err
	}
	return buildListPage(ms, limit)
}

// buildListPage trims the look-ahead row and records where the next page starts.
func buildListPage(ms []models.Voucher, limit int) (domain.ListPage, error) {
	page := domain.ListPage{}
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		page.NextEntry = last.EntryDate
		page.NextID = last.ID
	}
	raws, err := toRawVouchers(ms)
	if err != nil {
		return domain.ListPage{}, err
	}
	page.Records = raws
	return page, nil
}

func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.RawVoucher, entryDate time.Time) error {
	m, err := mapping.ToModelVoucher(voucher, entryDate, mapping.SlipNoOf(voucher.Fields), time.Now().UTC())
	if err != nil {
		return err
	}

	query := `INSERT INTO vouchers (` + voucherColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.Pool.Exec(ctx, query, m.ID, m.Book, m.Doc, m.EntryDate, m.SlipNo, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("voucher %s: %w", m.ID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save voucher: %w", err)
	}
	return nil
}

func (r *PgxVoucherRepository) DeleteVoucher(ctx context.Context, book domain.Book, id string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM vouchers WHERE book = $1 AND id = $2`, string(book), id)
	if err != nil {
		return fmt.Errorf("failed to delete voucher: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("voucher %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
