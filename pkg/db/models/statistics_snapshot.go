package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NamedCount pairs a product or party name with how many orders reference it.
type NamedCount struct {
	Name  string `gorm:"column:name" json:"name"`
	Count int    `gorm:"column:count" json:"count"`
}

// StatisticsSnapshot is the daily recomputed business summary, one row per UTC date.
type StatisticsSnapshot struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Date                 time.Time       `gorm:"column:date;type:date;not null;uniqueIndex"`
	MostOrderedProduct   NamedCount      `gorm:"embedded;embeddedPrefix:most_ordered_product_"`
	LeastOrderedProduct  NamedCount      `gorm:"embedded;embeddedPrefix:least_ordered_product_"`
	PartyWithMostOrders  NamedCount      `gorm:"embedded;embeddedPrefix:party_most_orders_"`
	PartyWithLeastOrders NamedCount      `gorm:"embedded;embeddedPrefix:party_least_orders_"`
	NumberOfOrders       int             `gorm:"column:number_of_orders;not null"`
	NumberOfProducts     int             `gorm:"column:number_of_products;not null"`
	NumberOfParties      int             `gorm:"column:number_of_parties;not null"`
	ProductOrderCounts   []NamedCount    `gorm:"column:product_order_counts;type:jsonb;serializer:json"`
	AverageOrderValue    decimal.Decimal `gorm:"column:average_order_value;type:numeric(14,2);not null"`
	TotalRevenue         decimal.Decimal `gorm:"column:total_revenue;type:numeric(14,2);not null"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
