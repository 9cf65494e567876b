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

type DeliveryService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateDeliveryRequest) (*dto.DeliveryResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DeliveryResponse, error)
	List(ctx context.Context, filter dto.DeliveryFilter) (*dto.DeliveryListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateDeliveryRequest) (*dto.DeliveryResponse, error)
	// Validate completes a draft delivery. For DECREMENT deliveries every
	// line must be satisfiable; when any is short the whole call fails with
	// all offending lines listed and no stock changes at all.
	Validate(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*dto.DeliveryResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*dto.DeliveryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// stockAlertDispatcher is the slice of the worker dispatcher the stock
// mutation services enqueue low-stock checks through.
type stockAlertDispatcher interface {
	EnqueueStockAlert(ctx context.Context, payload interface{}) error
}

type deliveryService struct {
	repo         repository.DeliveryRepository
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	dispatcher   stockAlertDispatcher
}

func NewDeliveryService(
	repo repository.DeliveryRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	dispatcher stockAlertDispatcher,
) DeliveryService {
	return &deliveryService{repo: repo, productRepo: productRepo, movementRepo: movementRepo, dispatcher: dispatcher}
}

func (s *deliveryService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateDeliveryRequest) (*dto.DeliveryResponse, error) {
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return nil, apierror.Validation("invalid warehouse_id")
	}

	opType := model.OperationDecrement
	if req.OperationType != "" {
		opType = model.OperationType(req.OperationType)
	}

	items := make([]model.DeliveryItem, 0, len(req.Items))
	for _, it := range req.Items {
		pid, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, apierror.Validation("invalid product_id")
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, apierror.NotFound(fmt.Sprintf("product %s not found", it.ProductID))
		}
		if p.WarehouseID != warehouseID {
			return nil, apierror.Validation(fmt.Sprintf("product %s does not belong to warehouse %s", p.SKU, req.WarehouseID))
		}
		items = append(items, model.DeliveryItem{ProductID: pid, Quantity: it.Quantity})
	}

	seq, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	d := &model.Delivery{
		DeliveryNumber:  newDeliveryNumber(seq),
		CustomerName:    req.CustomerName,
		WarehouseID:     warehouseID,
		UserID:          userID,
		OperationType:   opType,
		Status:          model.StatusDraft,
		ScheduleDate:    req.ScheduleDate,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		Items:           items,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, apierror.Transaction("could not create delivery", err)
	}
	return s.Get(ctx, d.ID)
}

func (s *deliveryService) Get(ctx context.Context, id uuid.UUID) (*dto.DeliveryResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("delivery not found")
		}
		return nil, err
	}
	resp := deliveryToResponse(d)
	return &resp, nil
}

func (s *deliveryService) List(ctx context.Context, filter dto.DeliveryFilter) (*dto.DeliveryListResponse, error) {
	deliveries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeliveryResponse, 0, len(deliveries))
	for i := range deliveries {
		out = append(out, deliveryToResponse(&deliveries[i]))
	}
	return &dto.DeliveryListResponse{
		Data:       out,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *deliveryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateDeliveryRequest) (*dto.DeliveryResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("delivery not found")
	}
	if d.Status != model.StatusDraft {
		return nil, apierror.InvalidTransition(fmt.Sprintf("delivery %s is %s and can no longer be edited", d.DeliveryNumber, d.Status))
	}

	if req.CustomerName != nil {
		d.CustomerName = *req.CustomerName
	}
	if req.ScheduleDate != nil {
		d.ScheduleDate = req.ScheduleDate
	}
	if req.DeliveryAddress != nil {
		d.DeliveryAddress = req.DeliveryAddress
	}
	if req.Notes != nil {
		d.Notes = req.Notes
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}

	if len(req.Items) > 0 {
		items := make([]model.DeliveryItem, 0, len(req.Items))
		for _, it := range req.Items {
			pid, err := uuid.Parse(it.ProductID)
			if err != nil {
				return nil, apierror.Validation("invalid product_id")
			}
			p, err := s.productRepo.FindByID(ctx, pid)
			if err != nil {
				return nil, apierror.NotFound(fmt.Sprintf("product %s not found", it.ProductID))
			}
			if p.WarehouseID != d.WarehouseID {
				return nil, apierror.Validation(fmt.Sprintf("product %s does not belong to the delivery warehouse", p.SKU))
			}
			items = append(items, model.DeliveryItem{ProductID: pid, Quantity: it.Quantity})
		}
		if err := s.repo.ReplaceItems(ctx, d.ID, items); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *deliveryService) Validate(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*dto.DeliveryResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("delivery not found")
	}
	if d.Status != model.StatusDraft {
		return nil, apierror.InvalidTransition(fmt.Sprintf("delivery %s is %s and cannot be validated", d.DeliveryNumber, d.Status))
	}
	if len(d.Items) == 0 {
		return nil, apierror.Validation("delivery has no items")
	}

	// Pre-flight availability check. Collects every short line so the
	// caller sees the full picture, not just the first failure.
	if d.OperationType == model.OperationDecrement {
		var shortages []string
		for _, item := range d.Items {
			p, err := s.productRepo.FindByID(ctx, item.ProductID)
			if err != nil {
				return nil, apierror.NotFound(fmt.Sprintf("product %s not found", item.ProductID))
			}
			if p.Stock < item.Quantity {
				shortages = append(shortages, fmt.Sprintf("%s: requested %d, available %d", p.SKU, item.Quantity, p.Stock))
			}
		}
		if len(shortages) > 0 {
			return nil, apierror.InsufficientStock("insufficient stock", shortages)
		}
	}

	now := time.Now().UTC()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.UpdateStatusGuardedTx(tx, d.ID,
			[]model.Status{model.StatusDraft}, model.StatusDone, &now)
		if err != nil {
			return apierror.Transaction("could not update delivery status", err)
		}
		if rows == 0 {
			return apierror.InvalidTransition(fmt.Sprintf("delivery %s was already processed", d.DeliveryNumber))
		}

		var shortages []string
		for _, item := range d.Items {
			if d.OperationType == model.OperationDecrement {
				affected, err := s.productRepo.DecrementStockGuardedTx(tx, item.ProductID, item.Quantity)
				if err != nil {
					return apierror.Transaction("could not decrement stock", err)
				}
				if affected == 0 {
					// Lost a race since the pre-flight check. Keep
					// scanning so the error lists every short line.
					if p, err := s.productRepo.FindByIDTx(tx, item.ProductID); err == nil {
						shortages = append(shortages, fmt.Sprintf("%s: requested %d, available %d", p.SKU, item.Quantity, p.Stock))
					} else {
						shortages = append(shortages, fmt.Sprintf("%s: requested %d", item.ProductID, item.Quantity))
					}
					continue
				}
			} else {
				if err := s.productRepo.UpdateStockTx(tx, item.ProductID, item.Quantity); err != nil {
					return apierror.Transaction("could not increment stock", err)
				}
			}

			qty := item.Quantity
			if d.OperationType == model.OperationDecrement {
				qty = -item.Quantity
			}
			refID := d.ID
			mov := &model.StockMovement{
				ProductID:   item.ProductID,
				WarehouseID: d.WarehouseID,
				Type:        model.MovementDelivery,
				Quantity:    qty,
				ReferenceID: &refID,
				UserID:      userID,
				Notes:       d.Notes,
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return apierror.Transaction("could not record stock movement", err)
			}
		}
		if len(shortages) > 0 {
			return apierror.InsufficientStock("insufficient stock", shortages)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil && d.OperationType == model.OperationDecrement {
		if err := s.dispatcher.EnqueueStockAlert(ctx, worker.StockAlertPayload{WarehouseID: d.WarehouseID.String()}); err != nil {
			log.Warn().Err(err).Str("delivery", d.DeliveryNumber).Msg("could not enqueue stock alert check")
		}
	}
	return s.Get(ctx, id)
}

func (s *deliveryService) Cancel(ctx context.Context, id uuid.UUID) (*dto.DeliveryResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("delivery not found")
	}
	if !model.DeliveryTransitions.Allowed(d.Status, model.StatusCanceled) {
		return nil, apierror.InvalidTransition(fmt.Sprintf("delivery %s is %s and cannot be canceled", d.DeliveryNumber, d.Status))
	}
	rows, err := s.repo.UpdateStatusGuardedTx(s.repo.DB(), id,
		model.DeliveryTransitions.Sources(model.StatusCanceled), model.StatusCanceled, nil)
	if err != nil {
		return nil, apierror.Transaction("could not cancel delivery", err)
	}
	if rows == 0 {
		return nil, apierror.InvalidTransition(fmt.Sprintf("delivery %s was modified concurrently", d.DeliveryNumber))
	}
	return s.Get(ctx, id)
}

func (s *deliveryService) Delete(ctx context.Context, id uuid.UUID) error {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("delivery not found")
	}
	if d.Status != model.StatusDraft {
		return apierror.InvalidTransition(fmt.Sprintf("delivery %s is %s; only drafts can be deleted", d.DeliveryNumber, d.Status))
	}
	return s.repo.Delete(ctx, id)
}

// ─── Mapping ─────────────────────────────────────────────────────────────────

func deliveryToResponse(d *model.Delivery) dto.DeliveryResponse {
	items := make([]dto.DeliveryItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		r := dto.DeliveryItemResponse{
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
	resp := dto.DeliveryResponse{
		ID:              d.ID.String(),
		DeliveryNumber:  d.DeliveryNumber,
		CustomerName:    d.CustomerName,
		WarehouseID:     d.WarehouseID.String(),
		UserID:          d.UserID.String(),
		OperationType:   string(d.OperationType),
		Status:          string(d.Status),
		ScheduleDate:    d.ScheduleDate,
		DeliveryAddress: d.DeliveryAddress,
		Notes:           d.Notes,
		DeliveredAt:     d.DeliveredAt,
		CreatedAt:       d.CreatedAt,
		Items:           items,
	}
	if d.Warehouse != nil {
		resp.WarehouseName = d.Warehouse.Name
	}
	return resp
}
