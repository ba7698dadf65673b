package dto

import "github.com/chapterfin/chapterledger/internal/core/domain"

// VariantInput declares a size variant with its starting quantity.
type VariantInput struct {
	Size     string `json:"size" binding:"required"`
	Quantity int64  `json:"quantity"`
}

// CreateItemRequest registers an inventory item. Items without variants get a
// single implicit variant.
type CreateItemRequest struct {
	Name     string         `json:"name" binding:"required"`
	Quantity int64          `json:"quantity"`
	Variants []VariantInput `json:"variants" binding:"dive"`
}

// AdjustStockRequest applies a manual signed quantity change to an item
// variant.
type AdjustStockRequest struct {
	Variant string `json:"variant"`
	Delta   int64  `json:"delta" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

// StockCard is an item together with its movement history, newest first.
type StockCard struct {
	Item      domain.InventoryItem   `json:"item"`
	Movements []domain.StockMovement `json:"movements"`
}
