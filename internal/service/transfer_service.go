package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type TransferService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateTransferRequest) (*dto.TransferResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.TransferResponse, error)
	List(ctx context.Context, filter dto.TransferFilter) (*dto.TransferListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateTransferRequest) (*dto.TransferResponse, error)
	MarkInTransit(ctx context.Context, id uuid.UUID) (*dto.TransferResponse, error)
	// Complete moves all items out of the source warehouse and into the
	// destination in one transaction. Per item it decrements the source
	// product and increments (or creates) the destination product, writing
	// a ledger row on each side, so total stock across warehouses is
	// conserved for existing destinations.
	Complete(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*dto.TransferResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*dto.TransferResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type transferService struct {
	repo          repository.TransferRepository
	productRepo   repository.ProductRepository
	movementRepo  repository.StockMovementRepository
	warehouseRepo repository.WarehouseRepository
	dispatcher    stockAlertDispatcher
}

func NewTransferService(
	repo repository.TransferRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	warehouseRepo repository.WarehouseRepository,
	dispatcher stockAlertDispatcher,
) TransferService {
	return &transferService{repo: repo, productRepo: productRepo, movementRepo: movementRepo, warehouseRepo: warehouseRepo, dispatcher: dispatcher}
}

func (s *transferService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	fromID, err := uuid.Parse(req.FromWarehouseID)
	if err != nil {
		return nil, apierror.Validation("invalid from_warehouse_id")
	}
	toID, err := uuid.Parse(req.ToWarehouseID)
	if err != nil {
		return nil, apierror.Validation("invalid to_warehouse_id")
	}
	if fromID == toID {
		return nil, apierror.Validation("source and destination warehouses must differ")
	}
	if _, err := s.warehouseRepo.FindByID(ctx, fromID); err != nil {
		return nil, apierror.NotFound("source warehouse not found")
	}
	if _, err := s.warehouseRepo.FindByID(ctx, toID); err != nil {
		return nil, apierror.NotFound("destination warehouse not found")
	}

	items := make([]model.TransferItem, 0, len(req.Items))
	for _, it := range req.Items {
		pid, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, apierror.Validation("invalid product_id")
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, apierror.NotFound(fmt.Sprintf("product %s not found", it.ProductID))
		}
		if p.WarehouseID != fromID {
			return nil, apierror.Validation(fmt.Sprintf("product %s does not belong to the source warehouse", p.SKU))
		}
		items = append(items, model.TransferItem{ProductID: pid, Quantity: it.Quantity})
	}

	t := &model.Transfer{
		TransferNumber:  newTransferNumber(),
		FromWarehouseID: fromID,
		ToWarehouseID:   toID,
		UserID:          userID,
		Status:          model.StatusDraft,
		Notes:           req.Notes,
		Items:           items,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, apierror.Transaction("could not create transfer", err)
	}
	return s.Get(ctx, t.ID)
}

func (s *transferService) Get(ctx context.Context, id uuid.UUID) (*dto.TransferResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("transfer not found")
		}
		return nil, err
	}
	resp := transferToResponse(t)
	return &resp, nil
}

func (s *transferService) List(ctx context.Context, filter dto.TransferFilter) (*dto.TransferListResponse, error) {
	transfers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransferResponse, 0, len(transfers))
	for i := range transfers {
		out = append(out, transferToResponse(&transfers[i]))
	}
	return &dto.TransferListResponse{
		Data:       out,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *transferService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateTransferRequest) (*dto.TransferResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("transfer not found")
	}
	if t.Status != model.StatusDraft {
		return nil, apierror.InvalidTransition(fmt.Sprintf("transfer %s is %s and can no longer be edited", t.TransferNumber, t.Status))
	}

	if req.Notes != nil {
		t.Notes = req.Notes
		if err := s.repo.Update(ctx, t); err != nil {
			return nil, err
		}
	}
	if len(req.Items) > 0 {
		items := make([]model.TransferItem, 0, len(req.Items))
		for _, it := range req.Items {
			pid, err := uuid.Parse(it.ProductID)
			if err != nil {
				return nil, apierror.Validation("invalid product_id")
			}
			p, err := s.productRepo.FindByID(ctx, pid)
			if err != nil {
				return nil, apierror.NotFound(fmt.Sprintf("product %s not found", it.ProductID))
			}
			if p.WarehouseID != t.FromWarehouseID {
				return nil, apierror.Validation(fmt.Sprintf("product %s does not belong to the source warehouse", p.SKU))
			}
			items = append(items, model.TransferItem{ProductID: pid, Quantity: it.Quantity})
		}
		if err := s.repo.ReplaceItems(ctx, t.ID, items); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *transferService) MarkInTransit(ctx context.Context, id uuid.UUID) (*dto.TransferResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("transfer not found")
	}
	if !model.TransferTransitions.Allowed(t.Status, model.StatusInTransit) {
		return nil, apierror.InvalidTransition(fmt.Sprintf("transfer %s is %s and cannot be marked in transit", t.TransferNumber, t.Status))
	}
	rows, err := s.repo.UpdateStatusGuardedTx(s.repo.DB(), id,
		[]model.Status{model.StatusDraft}, model.StatusInTransit, nil)
	if err != nil {
		return nil, apierror.Transaction("could not update transfer status", err)
	}
	if rows == 0 {
		return nil, apierror.InvalidTransition(fmt.Sprintf("transfer %s was modified concurrently", t.TransferNumber))
	}
	return s.Get(ctx, id)
}

func (s *transferService) Complete(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*dto.TransferResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("transfer not found")
	}
	if !model.TransferTransitions.Allowed(t.Status, model.StatusCompleted) {
		return nil, apierror.InvalidTransition(fmt.Sprintf("transfer %s is %s and cannot be completed", t.TransferNumber, t.Status))
	}
	if len(t.Items) == 0 {
		return nil, apierror.Validation("transfer has no items")
	}

	// Pre-flight scan: every item must still live in the source warehouse
	// and be available in full, so the error names every offending line.
	var shortages []string
	for _, item := range t.Items {
		p, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, apierror.NotFound(fmt.Sprintf("product %s not found", item.ProductID))
		}
		if p.WarehouseID != t.FromWarehouseID {
			return nil, apierror.Validation(fmt.Sprintf("product %s is not in the source warehouse", p.SKU))
		}
		if p.Stock < item.Quantity {
			shortages = append(shortages, fmt.Sprintf("%s: requested %d, available %d", p.SKU, item.Quantity, p.Stock))
		}
	}
	if len(shortages) > 0 {
		return nil, apierror.InsufficientStock("insufficient stock at source warehouse", shortages)
	}

	now := time.Now().UTC()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.UpdateStatusGuardedTx(tx, t.ID,
			model.TransferTransitions.Sources(model.StatusCompleted), model.StatusCompleted, &now)
		if err != nil {
			return apierror.Transaction("could not update transfer status", err)
		}
		if rows == 0 {
			return apierror.InvalidTransition(fmt.Sprintf("transfer %s was already processed", t.TransferNumber))
		}

		var txShortages []string
		for _, item := range t.Items {
			src, err := s.productRepo.FindByIDTx(tx, item.ProductID)
			if err != nil {
				return apierror.Transaction("could not load source product", err)
			}

			affected, err := s.productRepo.DecrementStockGuardedTx(tx, src.ID, item.Quantity)
			if err != nil {
				return apierror.Transaction("could not decrement source stock", err)
			}
			if affected == 0 {
				txShortages = append(txShortages, fmt.Sprintf("%s: requested %d, available %d", src.SKU, item.Quantity, src.Stock))
				continue
			}

			dest, err := s.resolveDestination(tx, src, t.ToWarehouseID)
			if err != nil {
				return err
			}
			if err := s.productRepo.UpdateStockTx(tx, dest.ID, item.Quantity); err != nil {
				return apierror.Transaction("could not increment destination stock", err)
			}

			refID := t.ID
			out := &model.StockMovement{
				ProductID:   src.ID,
				WarehouseID: t.FromWarehouseID,
				Type:        model.MovementTransfer,
				Quantity:    -item.Quantity,
				ReferenceID: &refID,
				UserID:      userID,
				Notes:       t.Notes,
			}
			in := &model.StockMovement{
				ProductID:   dest.ID,
				WarehouseID: t.ToWarehouseID,
				Type:        model.MovementTransfer,
				Quantity:    item.Quantity,
				ReferenceID: &refID,
				UserID:      userID,
				Notes:       t.Notes,
			}
			if err := s.movementRepo.CreateTx(tx, out); err != nil {
				return apierror.Transaction("could not record outbound movement", err)
			}
			if err := s.movementRepo.CreateTx(tx, in); err != nil {
				return apierror.Transaction("could not record inbound movement", err)
			}
		}
		if len(txShortages) > 0 {
			return apierror.InsufficientStock("insufficient stock at source warehouse", txShortages)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueStockAlert(ctx, worker.StockAlertPayload{WarehouseID: t.FromWarehouseID.String()}); err != nil {
			log.Warn().Err(err).Str("transfer", t.TransferNumber).Msg("could not enqueue stock alert check")
		}
	}
	return s.Get(ctx, id)
}

// resolveDestination finds the product row for src's SKU at the destination
// warehouse, creating one with zero stock when it does not exist yet. A new
// row copies the descriptive fields from the source. When a concurrent
// create wins the unique index race, the SKU gets a -W1, -W2… suffix.
func (s *transferService) resolveDestination(tx *gorm.DB, src *model.Product, toWarehouseID uuid.UUID) (*model.Product, error) {
	const maxSuffix = 10
	for i := 0; i < maxSuffix; i++ {
		sku := src.SKU
		if i > 0 {
			sku = fmt.Sprintf("%s-W%d", src.SKU, i)
		}
		if dest, err := s.productRepo.FindBySKUAndWarehouseTx(tx, sku, toWarehouseID); err == nil {
			return dest, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Transaction("could not look up destination product", err)
		}

		dest := &model.Product{
			SKU:           sku,
			Name:          src.Name,
			Description:   src.Description,
			CategoryID:    src.CategoryID,
			WarehouseID:   toWarehouseID,
			Stock:         0,
			MinStockLevel: src.MinStockLevel,
			UnitOfMeasure: src.UnitOfMeasure,
			UnitCost:      src.UnitCost,
		}
		if err := s.productRepo.CreateTx(tx, dest); err == nil {
			return dest, nil
		}
		// Create lost the race; retry with the next suffix.
	}
	return nil, apierror.Transaction(fmt.Sprintf("could not allocate destination SKU for %s", src.SKU), nil)
}

func (s *transferService) Cancel(ctx context.Context, id uuid.UUID) (*dto.TransferResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("transfer not found")
	}
	if !model.TransferTransitions.Allowed(t.Status, model.StatusCanceled) {
		return nil, apierror.InvalidTransition(fmt.Sprintf("transfer %s is %s and cannot be canceled", t.TransferNumber, t.Status))
	}
	rows, err := s.repo.UpdateStatusGuardedTx(s.repo.DB(), id,
		model.TransferTransitions.Sources(model.StatusCanceled), model.StatusCanceled, nil)
	if err != nil {
		return nil, apierror.Transaction("could not cancel transfer", err)
	}
	if rows == 0 {
		return nil, apierror.InvalidTransition(fmt.Sprintf("transfer %s was modified concurrently", t.TransferNumber))
	}
	return s.Get(ctx, id)
}

func (s *transferService) Delete(ctx context.Context, id uuid.UUID) error {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("transfer not found")
	}
	if t.Status != model.StatusDraft {
		return apierror.InvalidTransition(fmt.Sprintf("transfer %s is %s; only drafts can be deleted", t.TransferNumber, t.Status))
	}
	return s.repo.Delete(ctx, id)
}

// ─── Mapping ─────────────────────────────────────────────────────────────────

func transferToResponse(t *model.Transfer) dto.TransferResponse {
	items := make([]dto.TransferItemResponse, 0, len(t.Items))
	totalQty := 0
	for _, it := range t.Items {
		totalQty += it.Quantity
		r := dto.TransferItemResponse{
			ID:        it.ID.String(),
			ProductID: it.ProductID.String(),
			Quantity:  it.Quantity,
		}
		if it.Product != nil {
			r.ProductSKU = it.Product.SKU
			r.ProductName = it.Product.Name
		}
		items = append(items, r)
	}
	resp := dto.TransferResponse{
		ID:              t.ID.String(),
		TransferNumber:  t.TransferNumber,
		FromWarehouseID: t.FromWarehouseID.String(),
		ToWarehouseID:   t.ToWarehouseID.String(),
		UserID:          t.UserID.String(),
		Status:          string(t.Status),
		Notes:           t.Notes,
		CompletedAt:     t.CompletedAt,
		CreatedAt:       t.CreatedAt,
		ItemsCount:      len(items),
		TotalQuantity:   totalQty,
		Items:           items,
	}
	if t.FromWarehouse != nil {
		resp.FromWarehouseName = t.FromWarehouse.Name
	}
	if t.ToWarehouse != nil {
		resp.ToWarehouseName = t.ToWarehouse.Name
	}
	return resp
}
