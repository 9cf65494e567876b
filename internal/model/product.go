package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is an SKU held at exactly one warehouse. The same article stored in
// two warehouses is two Product rows sharing an SKU; (sku, warehouse_id) is
// unique. Stock is only ever mutated inside a ledgered transaction — see
// StockMovement.
type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU           string    `gorm:"column:sku;uniqueIndex:idx_sku_warehouse;not null"`
	Name          string    `gorm:"index;not null"`
	Description   *string
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID   uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_sku_warehouse;not null"`
	Stock         int             `gorm:"not null;default:0"`
	MinStockLevel *int
	UnitOfMeasure string          `gorm:"not null;default:'unit'"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category  *Category  `gorm:"foreignKey:CategoryID"`
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID"`
}

// StockStatus classifies the current stock level against the minimum.
func (p *Product) StockStatus() string {
	switch {
	case p.Stock == 0:
		return "out"
	case p.MinStockLevel != nil && p.Stock <= *p.MinStockLevel:
		return "low"
	default:
		return "ok"
	}
}

// BelowMinimum reports whether the product should raise a low-stock alert.
func (p *Product) BelowMinimum() bool {
	return p.MinStockLevel != nil && p.Stock <= *p.MinStockLevel
}
