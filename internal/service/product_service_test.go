package service

import (
	"context"
	"testing"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productFixture() (ProductService, *stubProductRepo, *stubMovementRepo, *model.Category, *model.Warehouse) {
	productRepo := newStubProductRepo()
	categoryRepo := newStubCategoryRepo()
	warehouseRepo := newStubWarehouseRepo()
	movementRepo := &stubMovementRepo{}

	category := categoryRepo.add("Electronics")
	warehouse := warehouseRepo.add("Main Warehouse")

	svc := NewProductService(productRepo, categoryRepo, warehouseRepo, movementRepo)
	return svc, productRepo, movementRepo, category, warehouse
}

func TestProductCreateWithInitialStockWritesLedger(t *testing.T) {
	svc, _, movementRepo, category, warehouse := productFixture()
	userID := uuid.New()

	resp, err := svc.Create(context.Background(), userID, dto.CreateProductRequest{
		SKU:         "CAM-001",
		Name:        "Security Camera",
		CategoryID:  category.ID.String(),
		WarehouseID: warehouse.ID.String(),
		Stock:       25,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, resp.Stock)
	assert.Equal(t, "ok", resp.StockStatus)

	movements := movementRepo.byType(model.MovementAdjustment)
	require.Len(t, movements, 1)
	assert.Equal(t, 25, movements[0].Quantity)
	assert.Equal(t, userID, movements[0].UserID)
	require.NotNil(t, movements[0].Notes)
	assert.Equal(t, "initial stock", *movements[0].Notes)
}

func TestProductCreateZeroStockSkipsLedger(t *testing.T) {
	svc, _, movementRepo, category, warehouse := productFixture()

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateProductRequest{
		SKU:         "CAM-002",
		Name:        "Security Camera",
		CategoryID:  category.ID.String(),
		WarehouseID: warehouse.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Stock)
	assert.Equal(t, "out", resp.StockStatus)
	assert.Empty(t, movementRepo.movements)
}

func TestProductCreateDuplicateSKUInWarehouse(t *testing.T) {
	svc, _, _, category, warehouse := productFixture()
	ctx := context.Background()

	req := dto.CreateProductRequest{
		SKU:         "CAM-001",
		Name:        "Security Camera",
		CategoryID:  category.ID.String(),
		WarehouseID: warehouse.ID.String(),
	}
	_, err := svc.Create(ctx, uuid.New(), req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, uuid.New(), req)
	require.Error(t, err)
	assert.Equal(t, 400, apierror.HTTPStatus(err))
}

func TestProductAdjustStockRecordsDelta(t *testing.T) {
	svc, productRepo, movementRepo, category, warehouse := productFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, dto.CreateProductRequest{
		SKU:         "CAM-001",
		Name:        "Security Camera",
		CategoryID:  category.ID.String(),
		WarehouseID: warehouse.ID.String(),
		Stock:       25,
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	resp, err := svc.AdjustStock(ctx, id, userID, dto.AdjustStockRequest{
		NewQuantity: 18,
		Reason:      "cycle count correction",
	})
	require.NoError(t, err)
	assert.Equal(t, 18, resp.Stock)
	assert.Equal(t, 18, productRepo.products[id].Stock)

	movements := movementRepo.byType(model.MovementAdjustment)
	require.Len(t, movements, 2) // initial stock + adjustment
	adj := movements[1]
	assert.Equal(t, -7, adj.Quantity)
	require.NotNil(t, adj.Notes)
	assert.Equal(t, "cycle count correction", *adj.Notes)
	assert.Nil(t, adj.ReferenceID)
}

func TestProductAdjustStockNoopWritesNothing(t *testing.T) {
	svc, _, movementRepo, category, warehouse := productFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, dto.CreateProductRequest{
		SKU:         "CAM-001",
		Name:        "Security Camera",
		CategoryID:  category.ID.String(),
		WarehouseID: warehouse.ID.String(),
		Stock:       25,
	})
	require.NoError(t, err)

	before := len(movementRepo.movements)
	_, err = svc.AdjustStock(ctx, uuid.MustParse(created.ID), userID, dto.AdjustStockRequest{
		NewQuantity: 25,
		Reason:      "cycle count, no change",
	})
	require.NoError(t, err)
	assert.Len(t, movementRepo.movements, before)
}

func TestProductDeleteRefusesWhileStocked(t *testing.T) {
	svc, productRepo, _, category, warehouse := productFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, dto.CreateProductRequest{
		SKU:         "CAM-001",
		Name:        "Security Camera",
		CategoryID:  category.ID.String(),
		WarehouseID: warehouse.ID.String(),
		Stock:       25,
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	err = svc.Delete(ctx, id)
	require.Error(t, err)
	assert.Equal(t, 400, apierror.HTTPStatus(err))

	_, err = svc.AdjustStock(ctx, id, userID, dto.AdjustStockRequest{NewQuantity: 0, Reason: "write-off before delisting"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, id))
	assert.Empty(t, productRepo.products)
}

func TestProductUpdateNeverTouchesStock(t *testing.T) {
	svc, productRepo, movementRepo, category, warehouse := productFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, dto.CreateProductRequest{
		SKU:         "CAM-001",
		Name:        "Security Camera",
		CategoryID:  category.ID.String(),
		WarehouseID: warehouse.ID.String(),
		Stock:       25,
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	name := "Dome Camera"
	min := 10
	resp, err := svc.Update(ctx, id, dto.UpdateProductRequest{Name: &name, MinStockLevel: &min})
	require.NoError(t, err)

	assert.Equal(t, "Dome Camera", resp.Name)
	assert.Equal(t, 25, resp.Stock)
	assert.Equal(t, 25, productRepo.products[id].Stock)
	assert.Len(t, movementRepo.movements, 1) // initial stock only
}

func TestProductStockStatusThresholds(t *testing.T) {
	min := 10
	p := &model.Product{Stock: 0, MinStockLevel: &min}
	assert.Equal(t, "out", p.StockStatus())

	p.Stock = 10
	assert.Equal(t, "low", p.StockStatus())

	p.Stock = 11
	assert.Equal(t, "ok", p.StockStatus())

	noMin := &model.Product{Stock: 1}
	assert.Equal(t, "ok", noMin.StockStatus())
	assert.False(t, noMin.BelowMinimum())
}
