package repository

import (
	"context"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryRepository interface {
	Create(ctx context.Context, d *model.Delivery) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Delivery, error)
	List(ctx context.Context, filter dto.DeliveryFilter) ([]model.Delivery, int64, error)
	Update(ctx context.Context, d *model.Delivery) error
	ReplaceItems(ctx context.Context, deliveryID uuid.UUID, items []model.DeliveryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, warehouseID *uuid.UUID, statuses ...model.Status) (int64, error)

	// Used inside transactions — callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Delivery, error)
	UpdateStatusGuardedTx(tx *gorm.DB, id uuid.UUID, from []model.Status, to model.Status, deliveredAt *time.Time) (int64, error)

	DB() *gorm.DB
}

type deliveryRepo struct{ db *gorm.DB }

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository { return &deliveryRepo{db: db} }

func (r *deliveryRepo) Create(ctx context.Context, d *model.Delivery) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *deliveryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Delivery, error) {
	var d model.Delivery
	err := r.db.WithContext(ctx).
		Preload("Items.Product").Preload("Warehouse").Preload("User").
		First(&d, id).Error
	return &d, err
}

func (r *deliveryRepo) List(ctx context.Context, filter dto.DeliveryFilter) ([]model.Delivery, int64, error) {
	var deliveries []model.Delivery
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Delivery{}).
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
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&deliveries).Error
	return deliveries, total, err
}

func (r *deliveryRepo) Update(ctx context.Context, d *model.Delivery) error {
	return r.db.WithContext(ctx).Omit("Items").Save(d).Error
}

func (r *deliveryRepo) ReplaceItems(ctx context.Context, deliveryID uuid.UUID, items []model.DeliveryItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("delivery_id = ?", deliveryID).Delete(&model.DeliveryItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].DeliveryID = deliveryID
		}
		return tx.Create(&items).Error
	})
}

func (r *deliveryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Items").Delete(&model.Delivery{ID: id}).Error
}

func (r *deliveryRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Delivery{}).Count(&n).Error
	return n, err
}

func (r *deliveryRepo) CountByStatus(ctx context.Context, warehouseID *uuid.UUID, statuses ...model.Status) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.Delivery{}).Where("status IN ?", statuses)
	if warehouseID != nil {
		q = q.Where("warehouse_id = ?", *warehouseID)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *deliveryRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Delivery, error) {
	var d model.Delivery
	err := tx.Preload("Items.Product").First(&d, id).Error
	return &d, err
}

func (r *deliveryRepo) UpdateStatusGuardedTx(tx *gorm.DB, id uuid.UUID, from []model.Status, to model.Status, deliveredAt *time.Time) (int64, error) {
	updates := map[string]interface{}{"status": to}
	if deliveredAt != nil {
		updates["delivered_at"] = *deliveredAt
	}
	res := tx.Model(&model.Delivery{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *deliveryRepo) DB() *gorm.DB { return r.db }
