package dto

import "time"

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type MovementFilter struct {
	ProductID   string `form:"product_id"`
	WarehouseID string `form:"warehouse_id"`
	Type        string `form:"type"` // RECEIPT | DELIVERY | TRANSFER | ADJUSTMENT
	From        string `form:"from"` // RFC 3339 date
	To          string `form:"to"`
	Page        int    `form:"page,default=1"  validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	ProductSKU    string    `json:"product_sku,omitempty"`
	ProductName   string    `json:"product_name,omitempty"`
	WarehouseID   string    `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name,omitempty"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"` // signed
	ReferenceID   *string   `json:"reference_id"`
	UserID        string    `json:"user_id"`
	Notes         *string   `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

type MovementListResponse struct {
	Data       []MovementResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
