package repository

import (
	"context"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceiptRepository interface {
	Create(ctx context.Context, rec *model.Receipt) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error)
	List(ctx context.Context, filter dto.ReceiptFilter) ([]model.Receipt, int64, error)
	Update(ctx context.Context, rec *model.Receipt) error
	ReplaceItems(ctx context.Context, receiptID uuid.UUID, items []model.ReceiptItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, warehouseID *uuid.UUID, statuses ...model.Status) (int64, error)

	// Used inside transactions — callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Receipt, error)
	// UpdateStatusGuardedTx transitions only when the current status is one
	// of from; the returned count is 0 when another writer got there first.
	UpdateStatusGuardedTx(tx *gorm.DB, id uuid.UUID, from []model.Status, to model.Status, validatedAt *time.Time) (int64, error)

	DB() *gorm.DB
}

type receiptRepo struct{ db *gorm.DB }

func NewReceiptRepository(db *gorm.DB) ReceiptRepository { return &receiptRepo{db: db} }

func (r *receiptRepo) Create(ctx context.Context, rec *model.Receipt) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *receiptRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	var rec model.Receipt
	err := r.db.WithContext(ctx).
		Preload("Items.Product").Preload("Warehouse").Preload("User").
		First(&rec, id).Error
	return &rec, err
}

func (r *receiptRepo) List(ctx context.Context, filter dto.ReceiptFilter) ([]model.Receipt, int64, error) {
	var receipts []model.Receipt
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Receipt{}).
		Preload("Items.Product").Preload("Warehouse")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.WarehouseID != "" {
		q = q.Where("warehouse_id = ?", filter.WarehouseID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&receipts).Error
	return receipts, total, err
}

func (r *receiptRepo) Update(ctx context.Context, rec *model.Receipt) error {
	return r.db.WithContext(ctx).Omit("Items").Save(rec).Error
}

func (r *receiptRepo) ReplaceItems(ctx context.Context, receiptID uuid.UUID, items []model.ReceiptItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("receipt_id = ?", receiptID).Delete(&model.ReceiptItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ReceiptID = receiptID
		}
		return tx.Create(&items).Error
	})
}

func (r *receiptRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Items").Delete(&model.Receipt{ID: id}).Error
}

func (r *receiptRepo) CountByStatus(ctx context.Context, warehouseID *uuid.UUID, statuses ...model.Status) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.Receipt{}).Where("status IN ?", statuses)
	if warehouseID != nil {
		q = q.Where("warehouse_id = ?", *warehouseID)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *receiptRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Receipt, error) {
	var rec model.Receipt
	err := tx.Preload("Items.Product").First(&rec, id).Error
	return &rec, err
}

func (r *receiptRepo) UpdateStatusGuardedTx(tx *gorm.DB, id uuid.UUID, from []model.Status, to model.Status, validatedAt *time.Time) (int64, error) {
	updates := map[string]interface{}{"status": to}
	if validatedAt != nil {
		updates["validated_at"] = *validatedAt
	}
	res := tx.Model(&model.Receipt{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *receiptRepo) DB() *gorm.DB { return r.db }
