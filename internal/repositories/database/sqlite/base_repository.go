package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	portsrepo "github.com/SscSPs/orsys_voucher_app/internal/core/ports/repositories"
)

// timeLayout is fixed-width so text columns sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB *sql.DB
}

// NewRepositoryProvider wires every SQLite repository onto one handle.
func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		VoucherRepo: newSQLiteVoucherRepository(db),
		HeadRepo:    newSQLiteHeadRepository(db),
		UserRepo:    newSQLiteUserRepository(db),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored time %q: %w", s, err)
	}
	return t, nil
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// isUniqueViolation matches the driver's constraint error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
