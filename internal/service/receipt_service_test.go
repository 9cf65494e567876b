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

func receiptFixture() (ReceiptService, *stubReceiptRepo, *stubProductRepo, *stubMovementRepo, *model.Product) {
	receiptRepo := newStubReceiptRepo()
	productRepo := newStubProductRepo()
	movementRepo := &stubMovementRepo{}

	warehouseID := uuid.New()
	p := productRepo.add(&model.Product{
		SKU:         "WIDGET-1",
		Name:        "Widget",
		CategoryID:  uuid.New(),
		WarehouseID: warehouseID,
		Stock:       5,
	})

	svc := NewReceiptService(receiptRepo, productRepo, movementRepo)
	return svc, receiptRepo, productRepo, movementRepo, p
}

func TestReceiptCreateStartsAsDraft(t *testing.T) {
	svc, _, _, movementRepo, p := receiptFixture()
	ctx := context.Background()

	resp, err := svc.Create(ctx, uuid.New(), dto.CreateReceiptRequest{
		SupplierName: "Acme Supplies",
		WarehouseID:  p.WarehouseID.String(),
		Items:        []dto.ReceiptItemRequest{{ProductID: p.ID.String(), Quantity: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusDraft), resp.Status)
	assert.Len(t, resp.Items, 1)
	// Creating a draft must not touch stock or the ledger.
	assert.Equal(t, 5, p.Stock)
	assert.Empty(t, movementRepo.movements)
}

func TestReceiptCreateRejectsForeignWarehouseProduct(t *testing.T) {
	svc, _, _, _, p := receiptFixture()

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateReceiptRequest{
		SupplierName: "Acme Supplies",
		WarehouseID:  uuid.NewString(), // not the product's warehouse
		Items:        []dto.ReceiptItemRequest{{ProductID: p.ID.String(), Quantity: 10}},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apierror.HTTPStatus(err))
}

func TestReceiptValidateDraftOnlyMarksReady(t *testing.T) {
	svc, _, productRepo, movementRepo, p := receiptFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, dto.CreateReceiptRequest{
		SupplierName: "Acme Supplies",
		WarehouseID:  p.WarehouseID.String(),
		Items:        []dto.ReceiptItemRequest{{ProductID: p.ID.String(), Quantity: 10}},
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	resp, err := svc.Validate(ctx, id, userID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusReady), resp.Status)

	// First step does not post stock.
	assert.Equal(t, 5, productRepo.products[p.ID].Stock)
	assert.Empty(t, movementRepo.movements)
}

func TestReceiptValidateReadyPostsStockAndLedger(t *testing.T) {
	svc, _, productRepo, movementRepo, p := receiptFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, dto.CreateReceiptRequest{
		SupplierName: "Acme Supplies",
		WarehouseID:  p.WarehouseID.String(),
		Items:        []dto.ReceiptItemRequest{{ProductID: p.ID.String(), Quantity: 10}},
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	_, err = svc.Validate(ctx, id, userID) // DRAFT → READY
	require.NoError(t, err)
	resp, err := svc.Validate(ctx, id, userID) // READY → DONE
	require.NoError(t, err)

	assert.Equal(t, string(model.StatusDone), resp.Status)
	assert.NotNil(t, resp.ValidatedAt)
	assert.Equal(t, 15, productRepo.products[p.ID].Stock)

	movements := movementRepo.byType(model.MovementReceipt)
	require.Len(t, movements, 1)
	assert.Equal(t, 10, movements[0].Quantity)
	assert.Equal(t, p.ID, movements[0].ProductID)
	assert.Equal(t, p.WarehouseID, movements[0].WarehouseID)
	require.NotNil(t, movements[0].ReferenceID)
	assert.Equal(t, id, *movements[0].ReferenceID)
	assert.Equal(t, userID, movements[0].UserID)
}

func TestReceiptValidateDoneConflicts(t *testing.T) {
	svc, _, productRepo, movementRepo, p := receiptFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, _ := svc.Create(ctx, userID, dto.CreateReceiptRequest{
		SupplierName: "Acme Supplies",
		WarehouseID:  p.WarehouseID.String(),
		Items:        []dto.ReceiptItemRequest{{ProductID: p.ID.String(), Quantity: 10}},
	})
	id := uuid.MustParse(created.ID)
	_, _ = svc.Validate(ctx, id, userID)
	_, _ = svc.Validate(ctx, id, userID)

	_, err := svc.Validate(ctx, id, userID)
	require.Error(t, err)
	assert.Equal(t, 409, apierror.HTTPStatus(err))

	// No double posting.
	assert.Equal(t, 15, productRepo.products[p.ID].Stock)
	assert.Len(t, movementRepo.byType(model.MovementReceipt), 1)
}

func TestReceiptCancelDoneRejected(t *testing.T) {
	svc, _, _, _, p := receiptFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, _ := svc.Create(ctx, userID, dto.CreateReceiptRequest{
		SupplierName: "Acme Supplies",
		WarehouseID:  p.WarehouseID.String(),
		Items:        []dto.ReceiptItemRequest{{ProductID: p.ID.String(), Quantity: 10}},
	})
	id := uuid.MustParse(created.ID)
	_, _ = svc.Validate(ctx, id, userID)
	_, _ = svc.Validate(ctx, id, userID)

	_, err := svc.Cancel(ctx, id)
	require.Error(t, err)
	assert.Equal(t, 409, apierror.HTTPStatus(err))
}

func TestReceiptCancelReady(t *testing.T) {
	svc, _, _, _, p := receiptFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, _ := svc.Create(ctx, userID, dto.CreateReceiptRequest{
		SupplierName: "Acme Supplies",
		WarehouseID:  p.WarehouseID.String(),
		Items:        []dto.ReceiptItemRequest{{ProductID: p.ID.String(), Quantity: 10}},
	})
	id := uuid.MustParse(created.ID)
	_, _ = svc.Validate(ctx, id, userID)

	resp, err := svc.Cancel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCanceled), resp.Status)
}

func TestReceiptUpdateNonDraftRejected(t *testing.T) {
	svc, _, _, _, p := receiptFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, _ := svc.Create(ctx, userID, dto.CreateReceiptRequest{
		SupplierName: "Acme Supplies",
		WarehouseID:  p.WarehouseID.String(),
		Items:        []dto.ReceiptItemRequest{{ProductID: p.ID.String(), Quantity: 10}},
	})
	id := uuid.MustParse(created.ID)
	_, _ = svc.Validate(ctx, id, userID)

	name := "Other Supplier"
	_, err := svc.Update(ctx, id, dto.UpdateReceiptRequest{SupplierName: &name})
	require.Error(t, err)
	assert.Equal(t, 409, apierror.HTTPStatus(err))
}

func TestReceiptDeleteDraftOnly(t *testing.T) {
	svc, receiptRepo, _, _, p := receiptFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, _ := svc.Create(ctx, userID, dto.CreateReceiptRequest{
		SupplierName: "Acme Supplies",
		WarehouseID:  p.WarehouseID.String(),
		Items:        []dto.ReceiptItemRequest{{ProductID: p.ID.String(), Quantity: 10}},
	})
	id := uuid.MustParse(created.ID)

	require.NoError(t, svc.Delete(ctx, id))
	assert.Empty(t, receiptRepo.receipts)

	created2, _ := svc.Create(ctx, userID, dto.CreateReceiptRequest{
		SupplierName: "Acme Supplies",
		WarehouseID:  p.WarehouseID.String(),
		Items:        []dto.ReceiptItemRequest{{ProductID: p.ID.String(), Quantity: 10}},
	})
	id2 := uuid.MustParse(created2.ID)
	_, _ = svc.Validate(ctx, id2, userID)

	err := svc.Delete(ctx, id2)
	require.Error(t, err)
	assert.Equal(t, 409, apierror.HTTPStatus(err))
}

func TestReceiptGetUnknownIsNotFound(t *testing.T) {
	svc, _, _, _, _ := receiptFixture()

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apierror.HTTPStatus(err))
}
