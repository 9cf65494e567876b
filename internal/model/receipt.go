package model

import (
	"time"

	"github.com/google/uuid"
)

// Receipt is an inbound stock document. Lifecycle: DRAFT → READY → DONE,
// or CANCELED from any open state. Validating a READY receipt increments
// product stock and appends one RECEIPT movement per item, atomically.
type Receipt struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReceiptNumber string    `gorm:"uniqueIndex;not null"`
	SupplierName  string    `gorm:"not null"`
	WarehouseID   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Status        Status    `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Notes         *string
	ValidatedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items     []ReceiptItem `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE"`
	Warehouse *Warehouse    `gorm:"foreignKey:WarehouseID"`
	User      *User         `gorm:"foreignKey:UserID"`
}

type ReceiptItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReceiptID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity  int       `gorm:"not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
