package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ReceiptItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CreateReceiptRequest struct {
	SupplierName string               `json:"supplier_name" validate:"required,min=2,max=120"`
	WarehouseID  string               `json:"warehouse_id"  validate:"required,uuid"`
	Notes        *string              `json:"notes"`
	Items        []ReceiptItemRequest `json:"items"         validate:"required,min=1,dive"`
}

type UpdateReceiptRequest struct {
	SupplierName *string              `json:"supplier_name" validate:"omitempty,min=2,max=120"`
	Notes        *string              `json:"notes"`
	Items        []ReceiptItemRequest `json:"items"         validate:"omitempty,min=1,dive"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ReceiptFilter struct {
	Status      string `form:"status"`
	WarehouseID string `form:"warehouse_id"`
	Page        int    `form:"page,default=1"  validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ReceiptItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductSKU  string `json:"product_sku,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
}

type ReceiptResponse struct {
	ID            string                `json:"id"`
	ReceiptNumber string                `json:"receipt_number"`
	SupplierName  string                `json:"supplier_name"`
	WarehouseID   string                `json:"warehouse_id"`
	WarehouseName string                `json:"warehouse_name,omitempty"`
	UserID        string                `json:"user_id"`
	Status        string                `json:"status"`
	Notes         *string               `json:"notes"`
	ValidatedAt   *time.Time            `json:"validated_at"`
	CreatedAt     time.Time             `json:"created_at"`
	Items         []ReceiptItemResponse `json:"items"`
}

type ReceiptListResponse struct {
	Data       []ReceiptResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
