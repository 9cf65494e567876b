package model

import (
	"time"

	"github.com/google/uuid"
)

// Transfer moves stock between two distinct warehouses.
// Lifecycle: DRAFT → IN_TRANSIT → COMPLETED (completion also allowed straight
// from DRAFT), or CANCELED from any open state. Completion decrements each
// source product and increments — or creates — the matching-SKU product at the
// destination, appending a negative and a positive TRANSFER movement per item.
type Transfer struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransferNumber  string    `gorm:"uniqueIndex;not null"`
	FromWarehouseID uuid.UUID `gorm:"type:uuid;not null;index"`
	ToWarehouseID   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Status          Status    `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Notes           *string
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items         []TransferItem `gorm:"foreignKey:TransferID;constraint:OnDelete:CASCADE"`
	FromWarehouse *Warehouse     `gorm:"foreignKey:FromWarehouseID"`
	ToWarehouse   *Warehouse     `gorm:"foreignKey:ToWarehouseID"`
	User          *User          `gorm:"foreignKey:UserID"`
}

type TransferItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransferID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null"`
	Quantity   int       `gorm:"not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
