package statistics

import (
	"time"

	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ProductCount is a product name with its line occurrence count.
type ProductCount struct {
	ProductName string `json:"productName"`
	OrderCount  int    `json:"orderCount"`
}

// PartyCount is a firm name with its order count.
type PartyCount struct {
	PartyName  string `json:"partyName"`
	OrderCount int    `json:"orderCount"`
}

// StatisticsDTO is the API shape of a snapshot.
type StatisticsDTO struct {
	Date                 string          `json:"date"`
	MostOrderedProduct   ProductCount    `json:"mostOrderedProduct"`
	LeastOrderedProduct  ProductCount    `json:"leastOrderedProduct"`
	NumberOfOrders       int             `json:"numberOfOrders"`
	NumberOfProducts     int             `json:"numberOfProducts"`
	NumberOfParties      int             `json:"numberOfParties"`
	PartyWithMostOrders  PartyCount      `json:"partyWithMostOrders"`
	PartyWithLeastOrders PartyCount      `json:"partyWithLeastOrders"`
	ProductOrderCounts   []ProductCount  `json:"productOrderCounts"`
	AverageOrderValue    decimal.Decimal `json:"averageOrderValue"`
	TotalRevenue         decimal.Decimal `json:"totalRevenue"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// DayCount is one point of the order time series.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

const dayLayout = "2006-01-02"

// FromModel maps a stored snapshot.
func FromModel(s *models.StatisticsSnapshot) *StatisticsDTO {
	if s == nil {
		return nil
	}
	counts := make([]ProductCount, 0, len(s.ProductOrderCounts))
	for _, c := range s.ProductOrderCounts {
		counts = append(counts, productCount(c))
	}
	return &StatisticsDTO{
		Date:                 s.Date.UTC().Format(dayLayout),
		MostOrderedProduct:   productCount(s.MostOrderedProduct),
		LeastOrderedProduct:  productCount(s.LeastOrderedProduct),
		NumberOfOrders:       s.NumberOfOrders,
		NumberOfProducts:     s.NumberOfProducts,
		NumberOfParties:      s.NumberOfParties,
		PartyWithMostOrders:  partyCount(s.PartyWithMostOrders),
		PartyWithLeastOrders: partyCount(s.PartyWithLeastOrders),
		ProductOrderCounts:   counts,
		AverageOrderValue:    s.AverageOrderValue,
		TotalRevenue:         s.TotalRevenue,
		UpdatedAt:            s.UpdatedAt,
	}
}

func productCount(c models.NamedCount) ProductCount {
	return ProductCount{ProductName: c.Name, OrderCount: c.Count}
}

func partyCount(c models.NamedCount) PartyCount {
	return PartyCount{PartyName: c.Name, OrderCount: c.Count}
}
