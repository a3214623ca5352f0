package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portsrepo "github.com/SscSPs/orsys_voucher_app/internal/core/ports/repositories"
	"github.com/SscSPs/orsys_voucher_app/internal/models"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/mapping"
)

const voucherColumns = `id, book, doc, entry_date, slip_no, created_at`

// SQLiteVoucherRepository stores voucher documents as JSON text.
type SQLiteVoucherRepository struct {
	BaseRepository
}

func newSQLiteVoucherRepository(db *sql.DB) portsrepo.VoucherRepositoryFacade {
	return &SQLiteVoucherRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.VoucherRepositoryFacade = (*SQLiteVoucherRepository)(nil)

func filterClause(filter domain.VoucherFilter) (string, []any) {
	conds := []string{"book = ?"}
	args := []any{string(filter.Book)}
	if !filter.From.IsZero() {
		conds = append(conds, "entry_date >= ?")
		args = append(args, formatTime(filter.From))
	}
	if !filter.To.IsZero() {
		conds = append(conds, "entry_date <= ?")
		args = append(args, formatTime(filter.To))
	}
	if filter.Status != "" {
		conds = append(conds, "json_extract(doc, '$.paymentStatus') = ?")
		args = append(args, string(filter.Status))
	}
	return strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVoucher(row rowScanner) (models.Voucher, error) {
	var (
		m         models.Voucher
		doc       string
		entryDate sql.NullString
		slipNo    sql.NullInt64
		createdAt string
	)
	if err := row.Scan(&m.ID, &m.Book, &doc, &entryDate, &slipNo, &createdAt); err != nil {
		return models.Voucher{}, err
	}
	m.Doc = []byte(doc)
	ed, err := parseNullTime(entryDate)
	if err != nil {
		return models.Voucher{}, err
	}
	m.EntryDate = ed
	if slipNo.Valid {
		n := slipNo.Int64
		m.SlipNo = &n
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Voucher{}, err
	}
	return m, nil
}

func (r *SQLiteVoucherRepository) queryVouchers(ctx context.Context, query string, args ...any) ([]models.Voucher, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vouchers: %w", err)
	}
	defer rows.Close()

	var out []models.Voucher
	for rows.Next() {
		m, err := scanVoucher(rows)
		if err != nil {
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

func (r *SQLiteVoucherRepository) FindVouchers(ctx context.Context, filter domain.VoucherFilter) ([]domain.RawVoucher, error) {
	where, args := filterClause(filter)
	// NULL entry dates sort last
	ms, err := r.queryVouchers(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE `+where+
		` ORDER BY entry_date IS NULL, entry_date DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}
	return toRawVouchers(ms)
}

func (r *SQLiteVoucherRepository) FindVoucherByID(ctx context.Context, book domain.Book, id string) (*domain.RawVoucher, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE book = ? AND id = ?`, string(book), id)
	m, err := scanVoucher(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

func (r *SQLiteVoucherRepository) FindVouchersBySlipNo(ctx context.Context, book domain.Book, slipNo int64) ([]domain.RawVoucher, error) {
	ms, err := r.queryVouchers(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE book = ? AND slip_no = ? ORDER BY created_at`, string(book), slipNo)
	if err != nil {
		return nil, err
	}
	return toRawVouchers(ms)
}

func (r *SQLiteVoucherRepository) ListVouchers(ctx context.Context, filter domain.VoucherFilter, limit int, afterEntry *time.Time, afterID string) (domain.ListPage, error) {
	where, args := filterClause(filter)
	where += " AND entry_date IS NOT NULL"
	if afterEntry != nil {
		e := formatTime(*afterEntry)
		where += " AND (entry_date < ? OR (entry_date = ? AND id < ?))"
		args = append(args, e, e, afterID)
	}
	args = append(args, limit+1)

	ms, err := r.queryVouchers(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE `+where+
		` ORDER BY entry_date DESC, id DESC LIMIT ?`, args...)
	if err != nil {
		return domain.ListPage{}, err
	}

	page := domain.ListPage{}
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		page.NextEntry = last.EntryDate
		page.NextID = last.ID
	}
	if page.Records, err = toRawVouchers(ms); err != nil {
		return domain.ListPage{}, err
	}
	return page, nil
}

func (r *SQLiteVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.RawVoucher, entryDate time.Time) error {
	m, err := mapping.ToModelVoucher(voucher, entryDate, mapping.SlipNoOf(voucher.Fields), time.Now().UTC())
	if err != nil {
		return err
	}

	var ed sql.NullString
	if m.EntryDate != nil {
		ed = sql.NullString{String: formatTime(*m.EntryDate), Valid: true}
	}
	var slip sql.NullInt64
	if m.SlipNo != nil {
		slip = sql.NullInt64{Int64: *m.SlipNo, Valid: true}
	}

	_, err = r.DB.ExecContext(ctx, `INSERT INTO vouchers (`+voucherColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Book, string(m.Doc), ed, slip, formatTime(m.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("voucher %s: %w", m.ID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save voucher: %w", err)
	}
	return nil
}

func (r *SQLiteVoucherRepository) DeleteVoucher(ctx context.Context, book domain.Book, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM vouchers WHERE book = ? AND id = ?`, string(book), id)
	if err != nil {
		return fmt.Errorf("failed to delete voucher: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("voucher %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
