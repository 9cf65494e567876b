package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DeliveryItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CreateDeliveryRequest struct {
	CustomerName    string                `json:"customer_name"    validate:"required,min=2,max=120"`
	WarehouseID     string                `json:"warehouse_id"     validate:"required,uuid"`
	OperationType   string                `json:"operation_type"   validate:"omitempty,oneof=DECREMENT INCREMENT"`
	ScheduleDate    *time.Time            `json:"schedule_date"`
	DeliveryAddress *string               `json:"delivery_address"`
	Notes           *string               `json:"notes"`
	Items           []DeliveryItemRequest `json:"items"            validate:"required,min=1,dive"`
}

// UpdateDeliveryRequest edits a draft. Status is deliberately absent;
// completion goes through the validate endpoint only.
type UpdateDeliveryRequest struct {
	CustomerName    *string               `json:"customer_name"    validate:"omitempty,min=2,max=120"`
	ScheduleDate    *time.Time            `json:"schedule_date"`
	DeliveryAddress *string               `json:"delivery_address"`
	Notes           *string               `json:"notes"`
	Items           []DeliveryItemRequest `json:"items"            validate:"omitempty,min=1,dive"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type DeliveryFilter struct {
	Status      string `form:"status"`
	WarehouseID string `form:"warehouse_id"`
	Page        int    `form:"page,default=1"  validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DeliveryItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductSKU  string `json:"product_sku,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
}

type DeliveryResponse struct {
	ID              string                 `json:"id"`
	DeliveryNumber  string                 `json:"delivery_number"`
	CustomerName    string                 `json:"customer_name"`
	WarehouseID     string                 `json:"warehouse_id"`
	WarehouseName   string                 `json:"warehouse_name,omitempty"`
	UserID          string                 `json:"user_id"`
	OperationType   string                 `json:"operation_type"`
	Status          string                 `json:"status"`
	ScheduleDate    *time.Time             `json:"schedule_date"`
	DeliveryAddress *string                `json:"delivery_address"`
	Notes           *string                `json:"notes"`
	DeliveredAt     *time.Time             `json:"delivered_at"`
	CreatedAt       time.Time              `json:"created_at"`
	Items           []DeliveryItemResponse `json:"items"`
}

type DeliveryListResponse struct {
	Data       []DeliveryResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
