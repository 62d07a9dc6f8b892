package statistics

import (
	"slices"
	"time"

	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// notAvailable fills the most/least slots when nothing has been ordered yet.
const notAvailable = "N/A"

// Totals are the catalog counts that do not come from orders.
type Totals struct {
	Products int
	Parties  int
}

// Summarize builds the snapshot for day from a full scan of orders.
// Products are counted once per line occurrence, parties once per order.
// Ties keep first-seen order.
func Summarize(day time.Time, orders []models.Order, totals Totals) models.StatisticsSnapshot {
	var (
		productCounts = newCounter()
		partyCounts   = newCounter()
		revenue       = decimal.Zero
	)
	for _, order := range orders {
		if order.Party.FirmName != "" {
			partyCounts.add(order.Party.FirmName)
		}
		for _, line := range order.Lines {
			productCounts.add(line.ProductName)
			revenue = revenue.Add(line.Amount())
		}
	}

	average := decimal.Zero
	if len(orders) > 0 {
		average = revenue.Div(decimal.NewFromInt(int64(len(orders))))
	}

	products := productCounts.sorted()
	parties := partyCounts.sorted()
	most, least := extremes(products)
	partyMost, partyLeast := extremes(parties)

	return models.StatisticsSnapshot{
		Date:                 startOfDay(day),
		MostOrderedProduct:   most,
		LeastOrderedProduct:  least,
		PartyWithMostOrders:  partyMost,
		PartyWithLeastOrders: partyLeast,
		NumberOfOrders:       len(orders),
		NumberOfProducts:     totals.Products,
		NumberOfParties:      totals.Parties,
		ProductOrderCounts:   products,
		AverageOrderValue:    average.Round(2),
		TotalRevenue:         revenue.Round(2),
	}
}

// Empty is the placeholder snapshot written before any recompute has run.
func Empty(day time.Time) models.StatisticsSnapshot {
	return Summarize(day, nil, Totals{})
}

type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string) {
	if _, seen := c.counts[name]; !seen {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

// sorted returns counts descending; equal counts stay in first-seen order.
func (c *counter) sorted() []models.NamedCount {
	out := make([]models.NamedCount, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, models.NamedCount{Name: name, Count: c.counts[name]})
	}
	slices.SortStableFunc(out, func(a, b models.NamedCount) int {
		return b.Count - a.Count
	})
	return out
}

func extremes(sorted []models.NamedCount) (most, least models.NamedCount) {
	if len(sorted) == 0 {
		empty := models.NamedCount{Name: notAvailable}
		return empty, empty
	}
	return sorted[0], sorted[len(sorted)-1]
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
