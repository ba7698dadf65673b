package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chapterfin/chapterledger/internal/apperrors"
	"github.com/chapterfin/chapterledger/internal/core/domain"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/utils/balances"
	"github.com/shopspring/decimal"
)

var ErrAccountNotFound = errors.New("bank account not found")

// balanceService reconstructs account balances from transactions and splits.
// It is stateless; the computation is a pure sum and therefore invariant
// under reordering of the underlying transactions.
type balanceService struct {
	accountRepo portsrepo.BankAccountRepositoryFacade
	txnRepo     portsrepo.TransactionRepositoryFacade
	splitRepo   portsrepo.SplitRepositoryFacade
}

// NewBalanceService creates the balance calculator.
func NewBalanceService(accountRepo portsrepo.BankAccountRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade, splitRepo portsrepo.SplitRepositoryFacade) portssvc.BalanceSvcFacade {
	return &balanceService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		splitRepo:   splitRepo,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// ComputeBalance reconstructs the account balance as of a date. Non-split
// transactions contribute their signed amount to their category's bucket;
// split parents are expanded into their splits, each contributing to its own
// category's bucket with the sign taken from the parent's type.
func (s *balanceService) ComputeBalance(ctx context.Context, bankAccountID string, asOf time.Time, bucketFilter *domain.Bucket) (*domain.Balance, error) {
	account, err := s.accountRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, bankAccountID)
		}
		return nil, fmt.Errorf("failed to load bank account %s: %w", bankAccountID, err)
	}

	txns, err := s.txnRepo.FindTransactionsByAccountUpTo(ctx, bankAccountID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for account %s: %w", bankAccountID, err)
	}

	totals := balances.NewBucketTotals()

	parentByID := make(map[string]domain.Transaction)
	splitParentIDs := make([]string, 0)
	for _, txn := range txns {
		if txn.IsSplit {
			splitParentIDs = append(splitParentIDs, txn.TransactionID)
			parentByID[txn.TransactionID] = txn
			continue
		}
		bucket := balances.BucketFor(txn.Category)
		totals[bucket] = totals[bucket].Add(txn.SignedAmount())
	}

	if len(splitParentIDs) > 0 {
		splitsByParent, err := s.splitRepo.FindSplitsByParentIDs(ctx, splitParentIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load splits for balance computation: %w", err)
		}
		for parentID, splits := range splitsByParent {
			parent := parentByID[parentID]
			for _, sp := range splits {
				// Sign comes from the parent's type, bucket from the split's
				// own category.
				signed := balances.SignedAmount(parent.Type, sp.Amount)
				bucket := balances.BucketFor(sp.Category)
				totals[bucket] = totals[bucket].Add(signed)
			}
		}
	}

	balance := &domain.Balance{ByBucket: totals}
	if bucketFilter != nil {
		balance.Total = totals[*bucketFilter]
		return balance, nil
	}

	balance.Total = account.InitialBalance.Add(sumBuckets(totals))
	return balance, nil
}

// sumBuckets adds every bucket total. Shared by callers that need the raw
// transaction sum without the opening balance.
func sumBuckets(totals map[domain.Bucket]decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, amount := range totals {
		sum = sum.Add(amount)
	}
	return sum
}
