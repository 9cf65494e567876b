package model

import (
	"time"

	"github.com/google/uuid"
)

// Delivery is an outbound (DECREMENT) or inbound-return (INCREMENT) stock
// document. Lifecycle: DRAFT → DONE or CANCELED. Only DRAFT deliveries can be
// edited or validated; validation applies the signed stock change and appends
// one DELIVERY movement per item, atomically.
type Delivery struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DeliveryNumber  string        `gorm:"uniqueIndex;not null"`
	CustomerName    string        `gorm:"not null"`
	WarehouseID     uuid.UUID     `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID     `gorm:"type:uuid;not null;index"`
	OperationType   OperationType `gorm:"type:varchar(20);not null;default:'DECREMENT'"`
	Status          Status        `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ScheduleDate    *time.Time
	DeliveryAddress *string
	Notes           *string
	DeliveredAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items     []DeliveryItem `gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
	Warehouse *Warehouse     `gorm:"foreignKey:WarehouseID"`
	User      *User          `gorm:"foreignKey:UserID"`
}

type DeliveryItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DeliveryID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null"`
	Quantity   int       `gorm:"not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
