package orders

import (
	"github.com/angelmondragon/stockline-backend/pkg/auth"
	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	"github.com/google/uuid"
)

// FilterOrder returns a copy of order holding only the lines d covers. ok is
// false when no line is covered; such orders are hidden from the requester.
func FilterOrder(order models.Order, d Decision) (models.Order, bool) {
	if d.Scope == ScopeAll {
		return order, len(order.Lines) > 0
	}
	lines := make([]models.OrderLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		if d.Covers(line) {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return models.Order{}, false
	}
	order.Lines = lines
	return order, true
}

// FilterOrders applies FilterOrder to each order and keeps the visible ones in input order.
func FilterOrders(orders []models.Order, d Decision) []models.Order {
	visible := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if filtered, ok := FilterOrder(order, d); ok {
			visible = append(visible, filtered)
		}
	}
	return visible
}

// FilterForRequester returns the orders and lines req may list.
func FilterForRequester(orders []models.Order, req auth.Requester) []models.Order {
	return FilterOrders(orders, Decide(req, OpList))
}

// AssignedDeliveries groups a delivery person's orders by the state of their own lines.
type AssignedDeliveries struct {
	Pending   []models.Order
	Completed []models.Order
}

// SplitAssigned keeps the lines assigned to userID and buckets each order: pending
// when any assigned line is still ordered, completed when all of them shipped.
func SplitAssigned(orders []models.Order, userID uuid.UUID) AssignedDeliveries {
	out := AssignedDeliveries{
		Pending:   []models.Order{},
		Completed: []models.Order{},
	}
	for _, order := range FilterOrders(orders, Decision{Scope: ScopeAssigned, UserID: userID}) {
		if allShipped(order.Lines) {
			out.Completed = append(out.Completed, order)
			continue
		}
		out.Pending = append(out.Pending, order)
	}
	return out
}

func allShipped(lines []models.OrderLine) bool {
	for _, line := range lines {
		if line.Status != enums.LineStatusShipped {
			return false
		}
	}
	return true
}
