package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stockline-backend/pkg/enums"
)

// Order is the order aggregate; Lines are always loaded and replaced together with it.
type Order struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Party     PartySnapshot     `gorm:"embedded;embeddedPrefix:party_"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedBy uuid.UUID         `gorm:"column:created_by;type:uuid;not null"`
	Lines     []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLine is one product entry of an order.
type OrderLine struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID        `gorm:"column:order_id;type:uuid;not null;index"`
	Position    int              `gorm:"column:position;not null"`
	ProductName string           `gorm:"column:product_name;not null;index"`
	Quantity    decimal.Decimal  `gorm:"column:quantity;type:numeric(12,3);not null"`
	Rate        decimal.Decimal  `gorm:"column:rate;type:numeric(12,2);not null"`
	Status      enums.LineStatus `gorm:"column:status;type:text;not null;default:'ordered'"`
	Location    string           `gorm:"column:location;not null;default:'Godown'"`
	AssignedTo  *uuid.UUID       `gorm:"column:assigned_to;type:uuid;index"`
}

// Amount is quantity times rate.
func (l OrderLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.Rate)
}
