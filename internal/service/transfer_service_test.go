package service

import (
	"context"
	"errors"
	"testing"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transferFixture struct {
	svc           TransferService
	transferRepo  *stubTransferRepo
	productRepo   *stubProductRepo
	movementRepo  *stubMovementRepo
	warehouseRepo *stubWarehouseRepo
	dispatcher    *stubAlertDispatcher
	from, to      *model.Warehouse
}

func newTransferFixture() *transferFixture {
	f := &transferFixture{
		transferRepo:  newStubTransferRepo(),
		productRepo:   newStubProductRepo(),
		movementRepo:  &stubMovementRepo{},
		warehouseRepo: newStubWarehouseRepo(),
		dispatcher:    &stubAlertDispatcher{},
	}
	f.from = f.warehouseRepo.add("Main Warehouse")
	f.to = f.warehouseRepo.add("East Coast Facility")
	f.svc = NewTransferService(f.transferRepo, f.productRepo, f.movementRepo, f.warehouseRepo, f.dispatcher)
	return f
}

func (f *transferFixture) sourceProduct(sku string, stock int) *model.Product {
	return f.productRepo.add(&model.Product{
		SKU:         sku,
		Name:        "Product " + sku,
		CategoryID:  uuid.New(),
		WarehouseID: f.from.ID,
		Stock:       stock,
	})
}

func (f *transferFixture) create(t *testing.T, userID uuid.UUID, items ...dto.TransferItemRequest) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), userID, dto.CreateTransferRequest{
		FromWarehouseID: f.from.ID.String(),
		ToWarehouseID:   f.to.ID.String(),
		Items:           items,
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func TestTransferCreateRejectsSameWarehouse(t *testing.T) {
	f := newTransferFixture()
	p := f.sourceProduct("ALPHA", 10)

	_, err := f.svc.Create(context.Background(), uuid.New(), dto.CreateTransferRequest{
		FromWarehouseID: f.from.ID.String(),
		ToWarehouseID:   f.from.ID.String(),
		Items:           []dto.TransferItemRequest{{ProductID: p.ID.String(), Quantity: 4}},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apierror.HTTPStatus(err))
}

func TestTransferCreateRejectsUnknownDestination(t *testing.T) {
	f := newTransferFixture()
	p := f.sourceProduct("ALPHA", 10)

	_, err := f.svc.Create(context.Background(), uuid.New(), dto.CreateTransferRequest{
		FromWarehouseID: f.from.ID.String(),
		ToWarehouseID:   uuid.NewString(),
		Items:           []dto.TransferItemRequest{{ProductID: p.ID.String(), Quantity: 4}},
	})
	require.Error(t, err)
	assert.Equal(t, 404, apierror.HTTPStatus(err))
}

func TestTransferCompleteMovesStockBetweenWarehouses(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()
	userID := uuid.New()
	src := f.sourceProduct("ALPHA", 10)
	dest := f.productRepo.add(&model.Product{
		SKU:         "ALPHA",
		Name:        "Product ALPHA",
		CategoryID:  src.CategoryID,
		WarehouseID: f.to.ID,
		Stock:       3,
	})

	id := f.create(t, userID, dto.TransferItemRequest{ProductID: src.ID.String(), Quantity: 4})
	resp, err := f.svc.Complete(ctx, id, userID)
	require.NoError(t, err)

	assert.Equal(t, string(model.StatusCompleted), resp.Status)
	assert.NotNil(t, resp.CompletedAt)
	assert.Equal(t, 6, f.productRepo.products[src.ID].Stock)
	assert.Equal(t, 7, f.productRepo.products[dest.ID].Stock)

	// One row out, one row in, same reference — units are conserved.
	movements := f.movementRepo.byType(model.MovementTransfer)
	require.Len(t, movements, 2)
	total := 0
	for _, m := range movements {
		total += m.Quantity
		require.NotNil(t, m.ReferenceID)
		assert.Equal(t, id, *m.ReferenceID)
	}
	assert.Equal(t, 0, total)
	assert.Equal(t, -4, movements[0].Quantity)
	assert.Equal(t, f.from.ID, movements[0].WarehouseID)
	assert.Equal(t, 4, movements[1].Quantity)
	assert.Equal(t, f.to.ID, movements[1].WarehouseID)
}

func TestTransferCompleteCreatesDestinationProduct(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()
	userID := uuid.New()
	src := f.sourceProduct("BETA", 10)

	id := f.create(t, userID, dto.TransferItemRequest{ProductID: src.ID.String(), Quantity: 4})
	_, err := f.svc.Complete(ctx, id, userID)
	require.NoError(t, err)

	dest, err := f.productRepo.FindBySKUAndWarehouse(ctx, "BETA", f.to.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, dest.Stock)
	assert.Equal(t, src.Name, dest.Name)
	assert.Equal(t, src.CategoryID, dest.CategoryID)
	assert.Equal(t, 6, f.productRepo.products[src.ID].Stock)
}

func TestTransferCompleteViaInTransit(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()
	userID := uuid.New()
	src := f.sourceProduct("ALPHA", 10)

	id := f.create(t, userID, dto.TransferItemRequest{ProductID: src.ID.String(), Quantity: 4})

	resp, err := f.svc.MarkInTransit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusInTransit), resp.Status)

	resp, err = f.svc.Complete(ctx, id, userID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCompleted), resp.Status)
}

func TestTransferCompleteTwiceConflicts(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()
	userID := uuid.New()
	src := f.sourceProduct("ALPHA", 10)

	id := f.create(t, userID, dto.TransferItemRequest{ProductID: src.ID.String(), Quantity: 4})
	_, err := f.svc.Complete(ctx, id, userID)
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, id, userID)
	require.Error(t, err)
	assert.Equal(t, 409, apierror.HTTPStatus(err))

	// Stock moved exactly once.
	assert.Equal(t, 6, f.productRepo.products[src.ID].Stock)
	assert.Len(t, f.movementRepo.byType(model.MovementTransfer), 2)
}

func TestTransferCompleteInsufficientSource(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()
	userID := uuid.New()
	src := f.sourceProduct("ALPHA", 3)

	id := f.create(t, userID, dto.TransferItemRequest{ProductID: src.ID.String(), Quantity: 5})
	_, err := f.svc.Complete(ctx, id, userID)
	require.Error(t, err)
	assert.Equal(t, 400, apierror.HTTPStatus(err))

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierror.KindInsufficientStock, apiErr.Kind)
	require.Len(t, apiErr.Details, 1)
	assert.Contains(t, apiErr.Details[0], "ALPHA: requested 5, available 3")

	assert.Equal(t, 3, f.productRepo.products[src.ID].Stock)
	assert.Empty(t, f.movementRepo.movements)
}

func TestTransferCompleteRejectsProductOutsideSourceWarehouse(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()
	userID := uuid.New()
	src := f.sourceProduct("ALPHA", 10)

	id := f.create(t, userID, dto.TransferItemRequest{ProductID: src.ID.String(), Quantity: 4})

	// Product left the source warehouse between draft and completion.
	f.productRepo.products[src.ID].WarehouseID = f.to.ID

	_, err := f.svc.Complete(ctx, id, userID)
	require.Error(t, err)
	assert.Equal(t, 400, apierror.HTTPStatus(err))

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierror.KindValidation, apiErr.Kind)
	assert.Contains(t, apiErr.Error(), "ALPHA is not in the source warehouse")

	assert.Equal(t, 10, f.productRepo.products[src.ID].Stock)
	assert.Empty(t, f.movementRepo.movements)
}

func TestTransferCompleteEnqueuesStockAlertCheck(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()
	userID := uuid.New()
	src := f.sourceProduct("ALPHA", 10)

	id := f.create(t, userID, dto.TransferItemRequest{ProductID: src.ID.String(), Quantity: 4})
	_, err := f.svc.Complete(ctx, id, userID)
	require.NoError(t, err)

	require.Len(t, f.dispatcher.alerts, 1)
	assert.Equal(t, worker.StockAlertPayload{WarehouseID: f.from.ID.String()}, f.dispatcher.alerts[0])
}

func TestTransferMarkInTransitFromCompletedRejected(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()
	userID := uuid.New()
	src := f.sourceProduct("ALPHA", 10)

	id := f.create(t, userID, dto.TransferItemRequest{ProductID: src.ID.String(), Quantity: 4})
	_, err := f.svc.Complete(ctx, id, userID)
	require.NoError(t, err)

	_, err = f.svc.MarkInTransit(ctx, id)
	require.Error(t, err)
	assert.Equal(t, 409, apierror.HTTPStatus(err))
}

func TestTransferCancelInTransit(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()
	userID := uuid.New()
	src := f.sourceProduct("ALPHA", 10)

	id := f.create(t, userID, dto.TransferItemRequest{ProductID: src.ID.String(), Quantity: 4})
	_, err := f.svc.MarkInTransit(ctx, id)
	require.NoError(t, err)

	resp, err := f.svc.Cancel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCanceled), resp.Status)
	assert.Equal(t, 10, f.productRepo.products[src.ID].Stock)
}
