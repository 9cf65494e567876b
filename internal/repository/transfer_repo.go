package repository

import (
	"context"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransferRepository interface {
	Create(ctx context.Context, t *model.Transfer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transfer, error)
	List(ctx context.Context, filter dto.TransferFilter) ([]model.Transfer, int64, error)
	Update(ctx context.Context, t *model.Transfer) error
	ReplaceItems(ctx context.Context, transferID uuid.UUID, items []model.TransferItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, statuses ...model.Status) (int64, error)

	// Used inside transactions — callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Transfer, error)
	UpdateStatusGuardedTx(tx *gorm.DB, id uuid.UUID, from []model.Status, to model.Status, completedAt *time.Time) (int64, error)

	DB() *gorm.DB
}

type transferRepo struct{ db *gorm.DB }

func NewTransferRepository(db *gorm.DB) TransferRepository { return &transferRepo{db: db} }

func (r *transferRepo) Create(ctx context.Context, t *model.Transfer) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transferRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transfer, error) {
	var t model.Transfer
	err := r.db.WithContext(ctx).
		Preload("Items.Product").Preload("FromWarehouse").Preload("ToWarehouse").Preload("User").
		First(&t, id).Error
	return &t, err
}

func (r *transferRepo) List(ctx context.Context, filter dto.TransferFilter) ([]model.Transfer, int64, error) {
	var transfers []model.Transfer
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Transfer{}).
		Preload("Items.Product").Preload("FromWarehouse").Preload("ToWarehouse")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.FromWarehouseID != "" {
		q = q.Where("from_warehouse_id = ?", filter.FromWarehouseID)
	}
	if filter.ToWarehouseID != "" {
		q = q.Where("to_warehouse_id = ?", filter.ToWarehouseID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&transfers).Error
	return transfers, total, err
}

func (r *transferRepo) Update(ctx context.Context, t *model.Transfer) error {
	return r.db.WithContext(ctx).Omit("Items").Save(t).Error
}

func (r *transferRepo) ReplaceItems(ctx context.Context, transferID uuid.UUID, items []model.TransferItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transfer_id = ?", transferID).Delete(&model.TransferItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].TransferID = transferID
		}
		return tx.Create(&items).Error
	})
}

func (r *transferRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Items").Delete(&model.Transfer{ID: id}).Error
}

func (r *transferRepo) CountByStatus(ctx context.Context, statuses ...model.Status) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Transfer{}).
		Where("status IN ?", statuses).Count(&n).Error
	return n, err
}

func (r *transferRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Transfer, error) {
	var t model.Transfer
	err := tx.Preload("Items.Product").First(&t, id).Error
	return &t, err
}

func (r *transferRepo) UpdateStatusGuardedTx(tx *gorm.DB, id uuid.UUID, from []model.Status, to model.Status, completedAt *time.Time) (int64, error) {
	updates := map[string]interface{}{"status": to}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	res := tx.Model(&model.Transfer{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *transferRepo) DB() *gorm.DB { return r.db }
