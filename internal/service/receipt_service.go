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

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceiptService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateReceiptRequest) (*dto.ReceiptResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ReceiptResponse, error)
	List(ctx context.Context, filter dto.ReceiptFilter) (*dto.ReceiptListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateReceiptRequest) (*dto.ReceiptResponse, error)
	// Validate advances the receipt one step: DRAFT becomes READY with no
	// stock effect, READY becomes DONE and posts the stock plus the ledger
	// rows in a single transaction.
	Validate(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*dto.ReceiptResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*dto.ReceiptResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type receiptService struct {
	repo         repository.ReceiptRepository
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

func NewReceiptService(
	repo repository.ReceiptRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) ReceiptService {
	return &receiptService{repo: repo, productRepo: productRepo, movementRepo: movementRepo}
}

func (s *receiptService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateReceiptRequest) (*dto.ReceiptResponse, error) {
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return nil, apierror.Validation("invalid warehouse_id")
	}

	items := make([]model.ReceiptItem, 0, len(req.Items))
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
		items = append(items, model.ReceiptItem{ProductID: pid, Quantity: it.Quantity})
	}

	rec := &model.Receipt{
		ReceiptNumber: newReceiptNumber(),
		SupplierName:  req.SupplierName,
		WarehouseID:   warehouseID,
		UserID:        userID,
		Status:        model.StatusDraft,
		Notes:         req.Notes,
		Items:         items,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, apierror.Transaction("could not create receipt", err)
	}
	return s.Get(ctx, rec.ID)
}

func (s *receiptService) Get(ctx context.Context, id uuid.UUID) (*dto.ReceiptResponse, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("receipt not found")
		}
		return nil, err
	}
	resp := receiptToResponse(rec)
	return &resp, nil
}

func (s *receiptService) List(ctx context.Context, filter dto.ReceiptFilter) (*dto.ReceiptListResponse, error) {
	receipts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		out = append(out, receiptToResponse(&receipts[i]))
	}
	return &dto.ReceiptListResponse{
		Data:       out,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *receiptService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateReceiptRequest) (*dto.ReceiptResponse, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("receipt not found")
	}
	if rec.Status != model.StatusDraft {
		return nil, apierror.InvalidTransition(fmt.Sprintf("receipt %s is %s and can no longer be edited", rec.ReceiptNumber, rec.Status))
	}

	if req.SupplierName != nil {
		rec.SupplierName = *req.SupplierName
	}
	if req.Notes != nil {
		rec.Notes = req.Notes
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}

	if len(req.Items) > 0 {
		items := make([]model.ReceiptItem, 0, len(req.Items))
		for _, it := range req.Items {
			pid, err := uuid.Parse(it.ProductID)
			if err != nil {
				return nil, apierror.Validation("invalid product_id")
			}
			p, err := s.productRepo.FindByID(ctx, pid)
			if err != nil {
				return nil, apierror.NotFound(fmt.Sprintf("product %s not found", it.ProductID))
			}
			if p.WarehouseID != rec.WarehouseID {
				return nil, apierror.Validation(fmt.Sprintf("product %s does not belong to the receipt warehouse", p.SKU))
			}
			items = append(items, model.ReceiptItem{ProductID: pid, Quantity: it.Quantity})
		}
		if err := s.repo.ReplaceItems(ctx, rec.ID, items); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *receiptService) Validate(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*dto.ReceiptResponse, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("receipt not found")
	}

	switch rec.Status {
	case model.StatusDraft:
		// First step: mark ready, stock untouched.
		rows, err := s.repo.UpdateStatusGuardedTx(s.repo.DB(), id,
			[]model.Status{model.StatusDraft}, model.StatusReady, nil)
		if err != nil {
			return nil, apierror.Transaction("could not update receipt status", err)
		}
		if rows == 0 {
			return nil, apierror.InvalidTransition(fmt.Sprintf("receipt %s was modified concurrently", rec.ReceiptNumber))
		}
		return s.Get(ctx, id)

	case model.StatusReady:
		return s.post(ctx, rec, userID)

	default:
		return nil, apierror.InvalidTransition(fmt.Sprintf("receipt %s is %s and cannot be validated", rec.ReceiptNumber, rec.Status))
	}
}

// post moves a READY receipt to DONE: increments stock for every item and
// writes one ledger row per item, all inside one transaction.
func (s *receiptService) post(ctx context.Context, rec *model.Receipt, userID uuid.UUID) (*dto.ReceiptResponse, error) {
	if len(rec.Items) == 0 {
		return nil, apierror.Validation("receipt has no items")
	}

	now := time.Now().UTC()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.UpdateStatusGuardedTx(tx, rec.ID,
			[]model.Status{model.StatusReady}, model.StatusDone, &now)
		if err != nil {
			return apierror.Transaction("could not update receipt status", err)
		}
		if rows == 0 {
			return apierror.InvalidTransition(fmt.Sprintf("receipt %s was already processed", rec.ReceiptNumber))
		}

		for _, item := range rec.Items {
			if err := s.productRepo.UpdateStockTx(tx, item.ProductID, item.Quantity); err != nil {
				return apierror.Transaction("could not increment stock", err)
			}
			refID := rec.ID
			mov := &model.StockMovement{
				ProductID:   item.ProductID,
				WarehouseID: rec.WarehouseID,
				Type:        model.MovementReceipt,
				Quantity:    item.Quantity,
				ReferenceID: &refID,
				UserID:      userID,
				Notes:       rec.Notes,
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
	return s.Get(ctx, rec.ID)
}

func (s *receiptService) Cancel(ctx context.Context, id uuid.UUID) (*dto.ReceiptResponse, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("receipt not found")
	}
	if !model.ReceiptTransitions.Allowed(rec.Status, model.StatusCanceled) {
		return nil, apierror.InvalidTransition(fmt.Sprintf("receipt %s is %s and cannot be canceled", rec.ReceiptNumber, rec.Status))
	}
	rows, err := s.repo.UpdateStatusGuardedTx(s.repo.DB(), id,
		model.ReceiptTransitions.Sources(model.StatusCanceled), model.StatusCanceled, nil)
	if err != nil {
		return nil, apierror.Transaction("could not cancel receipt", err)
	}
	if rows == 0 {
		return nil, apierror.InvalidTransition(fmt.Sprintf("receipt %s was modified concurrently", rec.ReceiptNumber))
	}
	return s.Get(ctx, id)
}

func (s *receiptService) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("receipt not found")
	}
	if rec.Status != model.StatusDraft {
		return apierror.InvalidTransition(fmt.Sprintf("receipt %s is %s; only drafts can be deleted", rec.ReceiptNumber, rec.Status))
	}
	return s.repo.Delete(ctx, id)
}

// ─── Mapping ─────────────────────────────────────────────────────────────────

func receiptToResponse(rec *model.Receipt) dto.ReceiptResponse {
	items := make([]dto.ReceiptItemResponse, 0, len(rec.Items))
	for _, it := range rec.Items {
		r := dto.ReceiptItemResponse{
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
	resp := dto.ReceiptResponse{
		ID:            rec.ID.String(),
		ReceiptNumber: rec.ReceiptNumber,
		SupplierName:  rec.SupplierName,
		WarehouseID:   rec.WarehouseID.String(),
		UserID:        rec.UserID.String(),
		Status:        string(rec.Status),
		Notes:         rec.Notes,
		ValidatedAt:   rec.ValidatedAt,
		CreatedAt:     rec.CreatedAt,
		Items:         items,
	}
	if rec.Warehouse != nil {
		resp.WarehouseName = rec.Warehouse.Name
	}
	return resp
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
