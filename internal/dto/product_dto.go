package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	SKU           string           `json:"sku"             validate:"required,min=2,max=64"`
	Name          string           `json:"name"            validate:"required,min=2,max=120"`
	Description   *string          `json:"description"`
	CategoryID    string           `json:"category_id"     validate:"required,uuid"`
	WarehouseID   string           `json:"warehouse_id"    validate:"required,uuid"`
	Stock         int              `json:"stock"           validate:"min=0"`
	MinStockLevel *int             `json:"min_stock_level" validate:"omitempty,min=0"`
	UnitOfMeasure string           `json:"unit_of_measure"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
}

// UpdateProductRequest carries descriptive fields only. Stock is never
// updated through this path; use the adjustment endpoint so the change
// lands in the movement ledger.
type UpdateProductRequest struct {
	Name          *string          `json:"name"            validate:"omitempty,min=2,max=120"`
	Description   *string          `json:"description"`
	CategoryID    *string          `json:"category_id"     validate:"omitempty,uuid"`
	MinStockLevel *int             `json:"min_stock_level" validate:"omitempty,min=0"`
	UnitOfMeasure *string          `json:"unit_of_measure"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
}

type AdjustStockRequest struct {
	NewQuantity int    `json:"new_quantity" validate:"min=0"`
	Reason      string `json:"reason"       validate:"required,min=3,max=255"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	SKU         string `form:"sku"`
	Name        string `form:"name"`
	CategoryID  string `form:"category_id"`
	WarehouseID string `form:"warehouse_id"`
	StockStatus string `form:"stock_status"` // out | low | ok
	Page        int    `form:"page,default=1"  validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	CategoryID    string          `json:"category_id"`
	CategoryName  string          `json:"category_name,omitempty"`
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name,omitempty"`
	Stock         int             `json:"stock"`
	MinStockLevel *int            `json:"min_stock_level"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	StockStatus   string          `json:"stock_status"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
