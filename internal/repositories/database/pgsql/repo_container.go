package pgsql

import (
	portsrepo "github.com/creditleaf/credit_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	creditRepo := newPgxCreditRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CreditRepo: creditRepo,
	}
}
