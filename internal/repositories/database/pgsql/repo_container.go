package pgsql

import (
	portsrepo "github.com/SscSPs/orsys_voucher_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every PostgreSQL repository onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		VoucherRepo: newPgxVoucherRepository(dbPool),
		HeadRepo:    newPgxHeadRepository(dbPool),
		UserRepo:    newPgxUserRepository(dbPool),
	}
}
