package domain

import "time"

// ItemStatus is the stock state of an inventory item.
type ItemStatus string

const (
	ItemAvailable  ItemStatus = "AVAILABLE"
	ItemOutOfStock ItemStatus = "OUT_OF_STOCK"
	ItemCheckedOut ItemStatus = "CHECKED_OUT"
)

// ItemVariant is a size label with a signed quantity. An item without declared
// variants carries a single implicit variant.
type ItemVariant struct {
	Size     string `json:"size"`
	Quantity int64  `json:"quantity"`
}

// DefaultVariant is the implicit variant used when an item declares none.
const DefaultVariant = "default"

// InventoryItem owns physical stock quantities. Quantity is the sum of its
// variant quantities.
type InventoryItem struct {
	ItemID   string        `json:"itemID"`
	Name     string        `json:"name"`
	Quantity int64         `json:"quantity"`
	Status   ItemStatus    `json:"status"`
	Variants []ItemVariant `json:"variants,omitempty"`
	AuditFields
}

// TotalQuantity sums the variant quantities.
func (i InventoryItem) TotalQuantity() int64 {
	var total int64
	for _, v := range i.Variants {
		total += v.Quantity
	}
	return total
}

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// StockMovement is a signed audit record of an inventory quantity change.
// Quantity is the delta applied (+in, -out). ReferenceID optionally ties the
// movement to the transaction that caused it; at most one movement exists per
// reference.
type StockMovement struct {
	MovementID       string       `json:"movementID"`
	ItemID           string       `json:"itemID"`
	Variant          string       `json:"variant"`
	Quantity         int64        `json:"quantity"`
	PreviousQuantity int64        `json:"previousQuantity"`
	NewQuantity      int64        `json:"newQuantity"`
	Type             MovementType `json:"type"`
	Reason           string       `json:"reason"`
	PerformedBy      string       `json:"performedBy"`
	ReferenceID      string       `json:"referenceID,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
}
