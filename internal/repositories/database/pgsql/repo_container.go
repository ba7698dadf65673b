package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxnRepo:       newPgxTransactionRepository(dbPool),
		SplitRepo:     newPgxSplitRepository(dbPool),
		AccountRepo:   newPgxBankAccountRepository(dbPool),
		ReconRepo:     newPgxReconciliationRepository(dbPool),
		InventoryRepo: newPgxInventoryRepository(dbPool),
		MemberRepo:    newPgxMemberRepository(dbPool),
	}
}
