package service

import (
	"context"
	"errors"
	"fmt"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	// AdjustStock sets the on-hand quantity directly and writes an
	// ADJUSTMENT ledger row for the delta. This is the only write path
	// that touches stock outside the document workflows.
	AdjustStock(ctx context.Context, id uuid.UUID, userID uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo          repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	warehouseRepo repository.WarehouseRepository
	movementRepo  repository.StockMovementRepository
}

func NewProductService(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	warehouseRepo repository.WarehouseRepository,
	movementRepo repository.StockMovementRepository,
) ProductService {
	return &productService{repo: repo, categoryRepo: categoryRepo, warehouseRepo: warehouseRepo, movementRepo: movementRepo}
}

func (s *productService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, apierror.Validation("invalid category_id")
	}
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return nil, apierror.Validation("invalid warehouse_id")
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, apierror.NotFound("category not found")
	}
	if _, err := s.warehouseRepo.FindByID(ctx, warehouseID); err != nil {
		return nil, apierror.NotFound("warehouse not found")
	}
	if _, err := s.repo.FindBySKUAndWarehouse(ctx, req.SKU, warehouseID); err == nil {
		return nil, apierror.Validation(fmt.Sprintf("SKU %s already exists in this warehouse", req.SKU))
	}

	unitCost := decimal.Zero
	if req.UnitCost != nil {
		unitCost = *req.UnitCost
	}
	unit := req.UnitOfMeasure
	if unit == "" {
		unit = "unit"
	}

	p := &model.Product{
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    categoryID,
		WarehouseID:   warehouseID,
		Stock:         req.Stock,
		MinStockLevel: req.MinStockLevel,
		UnitOfMeasure: unit,
		UnitCost:      unitCost,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, p); err != nil {
			return apierror.Transaction("could not create product", err)
		}
		if req.Stock > 0 {
			notes := "initial stock"
			mov := &model.StockMovement{
				ProductID:   p.ID,
				WarehouseID: warehouseID,
				Type:        model.MovementAdjustment,
				Quantity:    req.Stock,
				UserID:      userID,
				Notes:       &notes,
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return apierror.Transaction("could not record stock movement", err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Get(ctx, p.ID)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("product not found")
		}
		return nil, err
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:       out,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("product not found")
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, apierror.Validation("invalid category_id")
		}
		if _, err := s.categoryRepo.FindByID(ctx, cid); err != nil {
			return nil, apierror.NotFound("category not found")
		}
		p.CategoryID = cid
	}
	if req.MinStockLevel != nil {
		p.MinStockLevel = req.MinStockLevel
	}
	if req.UnitOfMeasure != nil {
		p.UnitOfMeasure = *req.UnitOfMeasure
	}
	if req.UnitCost != nil {
		p.UnitCost = *req.UnitCost
	}

	p.Category = nil
	p.Warehouse = nil
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, userID uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("product not found")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		current, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return apierror.Transaction("could not load product", err)
		}
		delta := req.NewQuantity - current.Stock
		if delta == 0 {
			return nil
		}
		if err := s.repo.SetStockTx(tx, id, req.NewQuantity); err != nil {
			return apierror.Transaction("could not set stock", err)
		}
		notes := req.Reason
		mov := &model.StockMovement{
			ProductID:   id,
			WarehouseID: p.WarehouseID,
			Type:        model.MovementAdjustment,
			Quantity:    delta,
			UserID:      userID,
			Notes:       &notes,
		}
		if err := s.movementRepo.CreateTx(tx, mov); err != nil {
			return apierror.Transaction("could not record stock movement", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Get(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("product not found")
	}
	if p.Stock != 0 {
		return apierror.Validation(fmt.Sprintf("product %s still has %d units on hand; adjust to zero before deleting", p.SKU, p.Stock))
	}
	return s.repo.Delete(ctx, id)
}

// ─── Mapping ─────────────────────────────────────────────────────────────────

func productToResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:            p.ID.String(),
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID.String(),
		WarehouseID:   p.WarehouseID.String(),
		Stock:         p.Stock,
		MinStockLevel: p.MinStockLevel,
		UnitOfMeasure: p.UnitOfMeasure,
		UnitCost:      p.UnitCost,
		StockStatus:   p.StockStatus(),
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}
	if p.Warehouse != nil {
		resp.WarehouseName = p.Warehouse.Name
	}
	return resp
}
