package dto

// ─── Warehouse DTOs ──────────────────────────────────────────────────────────

type CreateWarehouseRequest struct {
	Name      string  `json:"name"       validate:"required,min=2,max=120"`
	ShortCode *string `json:"short_code" validate:"omitempty,min=1,max=10"`
	Location  *string `json:"location"`
}

type UpdateWarehouseRequest struct {
	Name      *string `json:"name"       validate:"omitempty,min=2,max=120"`
	ShortCode *string `json:"short_code" validate:"omitempty,min=1,max=10"`
	Location  *string `json:"location"`
	IsActive  *bool   `json:"is_active"`
}

type WarehouseResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ShortCode *string `json:"short_code"`
	Location  *string `json:"location"`
	IsActive  bool    `json:"is_active"`
}

// ─── Location DTOs ───────────────────────────────────────────────────────────

type CreateLocationRequest struct {
	Name        string  `json:"name"         validate:"required,min=1,max=120"`
	ShortCode   *string `json:"short_code"   validate:"omitempty,min=1,max=10"`
	WarehouseID string  `json:"warehouse_id" validate:"required,uuid"`
}

type UpdateLocationRequest struct {
	Name      *string `json:"name"       validate:"omitempty,min=1,max=120"`
	ShortCode *string `json:"short_code" validate:"omitempty,min=1,max=10"`
}

type LocationResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ShortCode   *string `json:"short_code"`
	WarehouseID string  `json:"warehouse_id"`
}

// ─── Category DTOs ───────────────────────────────────────────────────────────

type CreateCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=120"`
	Description *string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=2,max=120"`
	Description *string `json:"description"`
}

type CategoryResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	ProductCount int64   `json:"product_count,omitempty"`
}
