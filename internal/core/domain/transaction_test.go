package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/chapterfin/chapterledger/internal/core/domain"
)

func TestTransaction_SignedAmount(t *testing.T) {
	amount := decimal.NewFromFloat(123.45)

	income := domain.Transaction{Type: domain.Income, Amount: amount}
	assert.True(t, income.SignedAmount().Equal(amount))

	expense := domain.Transaction{Type: domain.Expense, Amount: amount}
	assert.True(t, expense.SignedAmount().Equal(amount.Neg()))
}

func TestInventoryLink_Complete(t *testing.T) {
	tests := []struct {
		name string
		link domain.InventoryLink
		want bool
	}{
		{
			name: "full trio",
			link: domain.InventoryLink{ItemID: "item-1", Variant: "M", Quantity: 2},
			want: true,
		},
		{
			name: "missing item",
			link: domain.InventoryLink{Variant: "M", Quantity: 2},
			want: false,
		},
		{
			name: "missing variant",
			link: domain.InventoryLink{ItemID: "item-1", Quantity: 2},
			want: false,
		},
		{
			name: "zero quantity",
			link: domain.InventoryLink{ItemID: "item-1", Variant: "M"},
			want: false,
		},
		{
			name: "empty link",
			link: domain.InventoryLink{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.link.Complete())
		})
	}
}

func TestValidCategory(t *testing.T) {
	assert.True(t, domain.ValidCategory(domain.CategoryProjects))
	assert.True(t, domain.ValidCategory(domain.CategoryMembership))
	assert.True(t, domain.ValidCategory(domain.CategoryAdministrative))
	assert.False(t, domain.ValidCategory(domain.CategoryUnset))
	assert.False(t, domain.ValidCategory(domain.Category("GROCERIES")))
}

func TestValidBucket(t *testing.T) {
	for _, b := range domain.AllBuckets {
		assert.True(t, domain.ValidBucket(b))
	}
	assert.False(t, domain.ValidBucket(domain.Bucket("snacks")))
}
