package repository

import (
	"context"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKUAndWarehouse(ctx context.Context, sku string, warehouseID uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListBelowMin(ctx context.Context, warehouseID *uuid.UUID) ([]model.Product, error)

	// Dashboard aggregates
	CountAll(ctx context.Context, warehouseID *uuid.UUID) (int64, error)
	SumStock(ctx context.Context, warehouseID *uuid.UUID) (int64, error)
	StockValuation(ctx context.Context, warehouseID *uuid.UUID) (decimal.Decimal, error)
	CountOutOfStock(ctx context.Context, warehouseID *uuid.UUID) (int64, error)
	CountLowStock(ctx context.Context, warehouseID *uuid.UUID) (int64, error)

	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, p *model.Product) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	FindBySKUAndWarehouseTx(tx *gorm.DB, sku string, warehouseID uuid.UUID) (*model.Product, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error
	// DecrementStockGuardedTx only applies the decrement when enough stock
	// remains; the returned count is 0 when the guard rejected the update.
	DecrementStockGuardedTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error)
	SetStockTx(tx *gorm.DB, id uuid.UUID, qty int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Category").Preload("Warehouse").First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindBySKUAndWarehouse(ctx context.Context, sku string, warehouseID uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("sku = ? AND warehouse_id = ?", sku, warehouseID).First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).
		Preload("Category").Preload("Warehouse")

	if filter.SKU != "" {
		q = q.Where("sku = ?", filter.SKU)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.WarehouseID != "" {
		q = q.Where("warehouse_id = ?", filter.WarehouseID)
	}
	switch filter.StockStatus {
	case "out":
		q = q.Where("stock = 0")
	case "low":
		q = q.Where("stock > 0 AND min_stock_level IS NOT NULL AND stock <= min_stock_level")
	case "ok":
		q = q.Where("stock > 0 AND (min_stock_level IS NULL OR stock > min_stock_level)")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *productRepo) ListBelowMin(ctx context.Context, warehouseID *uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Preload("Warehouse").
		Where("min_stock_level IS NOT NULL AND stock <= min_stock_level")
	if warehouseID != nil {
		q = q.Where("warehouse_id = ?", *warehouseID)
	}
	err := q.Order("stock ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) scoped(ctx context.Context, warehouseID *uuid.UUID) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if warehouseID != nil {
		q = q.Where("warehouse_id = ?", *warehouseID)
	}
	return q
}

func (r *productRepo) CountAll(ctx context.Context, warehouseID *uuid.UUID) (int64, error) {
	var n int64
	err := r.scoped(ctx, warehouseID).Count(&n).Error
	return n, err
}

func (r *productRepo) SumStock(ctx context.Context, warehouseID *uuid.UUID) (int64, error) {
	var n *int64
	err := r.scoped(ctx, warehouseID).Select("SUM(stock)").Scan(&n).Error
	if n == nil {
		return 0, err
	}
	return *n, err
}

func (r *productRepo) StockValuation(ctx context.Context, warehouseID *uuid.UUID) (decimal.Decimal, error) {
	var v *decimal.Decimal
	err := r.scoped(ctx, warehouseID).Select("SUM(stock * unit_cost)").Scan(&v).Error
	if v == nil {
		return decimal.Zero, err
	}
	return *v, err
}

func (r *productRepo) CountOutOfStock(ctx context.Context, warehouseID *uuid.UUID) (int64, error) {
	var n int64
	err := r.scoped(ctx, warehouseID).Where("stock = 0").Count(&n).Error
	return n, err
}

func (r *productRepo) CountLowStock(ctx context.Context, warehouseID *uuid.UUID) (int64, error) {
	var n int64
	err := r.scoped(ctx, warehouseID).
		Where("stock > 0 AND min_stock_level IS NOT NULL AND stock <= min_stock_level").
		Count(&n).Error
	return n, err
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindBySKUAndWarehouseTx(tx *gorm.DB, sku string, warehouseID uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.Where("sku = ? AND warehouse_id = ?", sku, warehouseID).First(&p).Error
	return &p, err
}

func (r *productRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}

func (r *productRepo) DecrementStockGuardedTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	return res.RowsAffected, res.Error
}

func (r *productRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, qty int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).Update("stock", qty).Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
