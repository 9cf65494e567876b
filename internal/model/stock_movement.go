package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement records every change to a product's stock. Rows are written
// inside the same transaction as the stock update and are never mutated or
// deleted — this table is the audit ledger. Quantity is signed: positive =
// increase, negative = decrease. ReferenceID points at the originating
// receipt, delivery or transfer; nil for manual adjustments.
type StockMovement struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID    `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Type        MovementType `gorm:"type:varchar(20);not null;index"`
	Quantity    int          `gorm:"not null"`
	ReferenceID *uuid.UUID   `gorm:"type:uuid;index"`
	UserID      uuid.UUID    `gorm:"type:uuid;not null"`
	Notes       *string
	CreatedAt   time.Time

	Product   *Product   `gorm:"foreignKey:ProductID"`
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID"`
}
