package dto

import "github.com/shopspring/decimal"

type CreatePartRequest struct {
	Name         string          `json:"name"          validate:"required,min=2,max=200"`
	Reference    string          `json:"reference"     validate:"required,min=1,max=100"`
	Barcode      *string         `json:"barcode"`
	Supplier     string          `json:"supplier"      validate:"omitempty,max=200"`
	CurrentStock int             `json:"current_stock" validate:"gte=0"`
	MinimumStock int             `json:"minimum_stock" validate:"gte=0"`
	UnitPrice    decimal.Decimal `json:"unit_price"    validate:"min=0"`
}

type UpdatePartRequest struct {
	Name         string           `json:"name"          validate:"omitempty,min=2,max=200"`
	Barcode      *string          `json:"barcode"`
	Supplier     *string          `json:"supplier"`
	MinimumStock *int             `json:"minimum_stock" validate:"omitempty,gte=0"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
}

// AdjustStockRequest moves stock up (restock) or down (consumption).
// Delta must be non-zero; negative deltas that would take stock below zero
// are rejected. InterventionID optionally ties a manual correction to the
// intervention it belongs to, e.g. a part consumption that was missed when
// the ticket was closed.
type AdjustStockRequest struct {
	Delta          int     `json:"delta"  validate:"required"`
	Reason         string  `json:"reason" validate:"required,min=3,max=300"`
	InterventionID *string `json:"intervention_id" validate:"omitempty,uuid"`
}

type PartFilter struct {
	Name     string
	LowStock bool
	Page     int
	Limit    int
}

type StockMovementFilter struct {
	PartID string
	Type   string
	Page   int
	Limit  int
}

type PartResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Reference    string          `json:"reference"`
	Barcode      *string         `json:"barcode"`
	Supplier     string          `json:"supplier"`
	CurrentStock int             `json:"current_stock"`
	MinimumStock int             `json:"minimum_stock"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LowStock     bool            `json:"low_stock"`
}

type PartListResponse struct {
	Data  []PartResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type StockMovementResponse struct {
	ID             string  `json:"id"`
	PartID         string  `json:"part_id"`
	PartName       string  `json:"part_name,omitempty"`
	Type           string  `json:"type"`
	Quantity       int     `json:"quantity"`
	StockBefore    int     `json:"stock_before"`
	StockAfter     int     `json:"stock_after"`
	Reason         string  `json:"reason"`
	InterventionID *string `json:"intervention_id"`
	UserID         string  `json:"user_id"`
	CreatedAt      string  `json:"created_at"`
}

type StockMovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
