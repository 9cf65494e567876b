package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type TransferItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CreateTransferRequest struct {
	FromWarehouseID string                `json:"from_warehouse_id" validate:"required,uuid"`
	ToWarehouseID   string                `json:"to_warehouse_id"   validate:"required,uuid,nefield=FromWarehouseID"`
	Notes           *string               `json:"notes"`
	Items           []TransferItemRequest `json:"items"             validate:"required,min=1,dive"`
}

type UpdateTransferRequest struct {
	Notes *string               `json:"notes"`
	Items []TransferItemRequest `json:"items" validate:"omitempty,min=1,dive"`
}

type MarkInTransitRequest struct {
	Notes *string `json:"notes"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type TransferFilter struct {
	Status          string `form:"status"`
	FromWarehouseID string `form:"from_warehouse_id"`
	ToWarehouseID   string `form:"to_warehouse_id"`
	Page            int    `form:"page,default=1"  validate:"min=1"`
	Limit           int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransferItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductSKU  string `json:"product_sku,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
}

type TransferResponse struct {
	ID                string                 `json:"id"`
	TransferNumber    string                 `json:"transfer_number"`
	FromWarehouseID   string                 `json:"from_warehouse_id"`
	FromWarehouseName string                 `json:"from_warehouse_name,omitempty"`
	ToWarehouseID     string                 `json:"to_warehouse_id"`
	ToWarehouseName   string                 `json:"to_warehouse_name,omitempty"`
	UserID            string                 `json:"user_id"`
	Status            string                 `json:"status"`
	Notes             *string                `json:"notes"`
	CompletedAt       *time.Time             `json:"completed_at"`
	CreatedAt         time.Time              `json:"created_at"`
	ItemsCount        int                    `json:"items_count"`
	TotalQuantity     int                    `json:"total_quantity"`
	Items             []TransferItemResponse `json:"items"`
}

type TransferListResponse struct {
	Data       []TransferResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
