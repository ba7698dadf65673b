package balances

import (
	"github.com/chapterfin/chapterledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Tolerance is the maximum absolute difference under which two monetary
// amounts are considered equal.
var Tolerance = decimal.NewFromFloat(0.01)

// AmountsEqual reports whether a and b agree within Tolerance.
func AmountsEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// SignedAmount applies the ledger sign convention to an amount: Income is
// positive, Expense negative.
func SignedAmount(txnType domain.TransactionType, amount decimal.Decimal) decimal.Decimal {
	if txnType == domain.Expense {
		return amount.Neg()
	}
	return amount
}

// BucketFor maps an accounting category onto its reporting bucket. Anything
// that is not a known category lands in operations.
func BucketFor(category domain.Category) domain.Bucket {
	switch category {
	case domain.CategoryProjects:
		return domain.BucketProject
	case domain.CategoryMembership:
		return domain.BucketDues
	case domain.CategoryAdministrative:
		return domain.BucketOperations
	default:
		return domain.BucketOperations
	}
}

// NewBucketTotals returns a zeroed per-bucket accumulator covering every
// bucket, so callers always see all four keys.
func NewBucketTotals() map[domain.Bucket]decimal.Decimal {
	totals := make(map[domain.Bucket]decimal.Decimal, len(domain.AllBuckets))
	for _, b := range domain.AllBuckets {
		totals[b] = decimal.Zero
	}
	return totals
}

// SumSplits adds up the amounts of a split set.
func SumSplits(splits []domain.TransactionSplit) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(s.Amount)
	}
	return sum
}
