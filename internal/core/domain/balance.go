package domain

import "github.com/shopspring/decimal"

// Bucket groups balances by category for reporting and reconciliation
// breakdowns.
type Bucket string

const (
	BucketProject     Bucket = "project"
	BucketOperations  Bucket = "operations"
	BucketDues        Bucket = "dues"
	BucketMerchandise Bucket = "merchandise"
)

// AllBuckets lists every bucket in display order.
var AllBuckets = []Bucket{BucketProject, BucketOperations, BucketDues, BucketMerchandise}

// ValidBucket reports whether b is a known bucket.
func ValidBucket(b Bucket) bool {
	switch b {
	case BucketProject, BucketOperations, BucketDues, BucketMerchandise:
		return true
	}
	return false
}

// Balance is the output of the balance calculator: the overall total and the
// per-bucket contributions. Total includes the account's opening balance when
// no bucket filter is applied.
type Balance struct {
	Total    decimal.Decimal            `json:"total"`
	ByBucket map[Bucket]decimal.Decimal `json:"byBucket"`
}
