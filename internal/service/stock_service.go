package service

import (
	"context"

	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
)

type StockService interface {
	Movements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	LowStock(ctx context.Context, warehouseID *uuid.UUID) ([]dto.ProductResponse, error)
}

type stockService struct {
	movementRepo repository.StockMovementRepository
	productRepo  repository.ProductRepository
}

func NewStockService(movementRepo repository.StockMovementRepository, productRepo repository.ProductRepository) StockService {
	return &stockService{movementRepo: movementRepo, productRepo: productRepo}
}

func (s *stockService) Movements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	movements, total, err := s.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		out = append(out, movementToResponse(&movements[i]))
	}
	return &dto.MovementListResponse{
		Data:       out,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *stockService) LowStock(ctx context.Context, warehouseID *uuid.UUID) ([]dto.ProductResponse, error) {
	products, err := s.productRepo.ListBelowMin(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, productToResponse(&products[i]))
	}
	return out, nil
}

// ─── Mapping ─────────────────────────────────────────────────────────────────

func movementToResponse(m *model.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:          m.ID.String(),
		ProductID:   m.ProductID.String(),
		WarehouseID: m.WarehouseID.String(),
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		UserID:      m.UserID.String(),
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
	if m.ReferenceID != nil {
		ref := m.ReferenceID.String()
		resp.ReferenceID = &ref
	}
	if m.Product != nil {
		resp.ProductSKU = m.Product.SKU
		resp.ProductName = m.Product.Name
	}
	if m.Warehouse != nil {
		resp.WarehouseName = m.Warehouse.Name
	}
	return resp
}
