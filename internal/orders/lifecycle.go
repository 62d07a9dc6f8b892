package orders

import (
	"strings"

	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecomputeStatus derives the aggregate status from the lines: completed iff every
// line shipped. An order without lines stays pending; it is never persisted.
func RecomputeStatus(order *models.Order) {
	if len(order.Lines) > 0 && allShipped(order.Lines) {
		order.Status = enums.OrderStatusCompleted
		return
	}
	order.Status = enums.OrderStatusPending
}

// LineInput is a submitted order line before normalization.
type LineInput struct {
	// ID keeps a line's identity across an edit; it is honoured only for lines the order already has.
	ID          *uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Location    string
	AssignedTo  *uuid.UUID
	Status      enums.LineStatus
}

// NormalizeLines validates inputs and builds persisted lines: quantity and rate must
// be positive, location defaults to Godown and status to ordered.
func NormalizeLines(inputs []LineInput) ([]models.OrderLine, error) {
	lines := make([]models.OrderLine, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.ProductName)
		if name == "" {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "products[%d].productName is required", i)
		}
		if !in.Quantity.IsPositive() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "products[%d].quantity must be a positive number", i)
		}
		if !in.Rate.IsPositive() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "products[%d].rate must be a positive number", i)
		}
		location := strings.TrimSpace(in.Location)
		if location == "" {
			location = enums.DefaultLineLocation.String()
		}
		status := in.Status
		if status == "" {
			status = enums.LineStatusOrdered
		}
		if !status.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "products[%d].status %q is invalid", i, in.Status)
		}
		var assigned *uuid.UUID
		if in.AssignedTo != nil && *in.AssignedTo != uuid.Nil {
			id := *in.AssignedTo
			assigned = &id
		}
		lineID := uuid.New()
		if in.ID != nil && *in.ID != uuid.Nil {
			lineID = *in.ID
		}
		lines = append(lines, models.OrderLine{
			ID:          lineID,
			Position:    i,
			ProductName: name,
			Quantity:    in.Quantity,
			Rate:        in.Rate,
			Status:      status,
			Location:    location,
			AssignedTo:  assigned,
		})
	}
	return lines, nil
}

// ReconcileLineIDs gives fresh ids to replacement lines whose id is unknown to the
// current order or repeated within the replacement.
func ReconcileLineIDs(current []models.OrderLine, replacement []models.OrderLine) {
	known := make(map[uuid.UUID]struct{}, len(current))
	for _, line := range current {
		known[line.ID] = struct{}{}
	}
	seen := make(map[uuid.UUID]struct{}, len(replacement))
	for i := range replacement {
		id := replacement[i].ID
		_, isKnown := known[id]
		_, dup := seen[id]
		if !isKnown || dup {
			replacement[i].ID = uuid.New()
		}
		seen[replacement[i].ID] = struct{}{}
	}
}

// LineMatch identifies a line by id plus the fields the client last saw.
type LineMatch struct {
	LineID      uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Location    string
}

// MatchLine returns the index of the line matching every field of m. Location is
// compared as submitted; persisted lines always carry one, so an empty location
// never matches.
func MatchLine(order *models.Order, m LineMatch) (int, error) {
	location := strings.TrimSpace(m.Location)
	for i, line := range order.Lines {
		if line.ID == m.LineID &&
			line.ProductName == m.ProductName &&
			line.Quantity.Equal(m.Quantity) &&
			line.Rate.Equal(m.Rate) &&
			line.Location == location {
			return i, nil
		}
	}
	return -1, pkgerrors.New(pkgerrors.CodeNotFound, "product not found in this order")
}

// EnsureEditable rejects structural changes to orders that are no longer pending.
func EnsureEditable(order *models.Order, verb string) error {
	if order.Status != enums.OrderStatusPending {
		return pkgerrors.Newf(pkgerrors.CodeConflict, "only pending orders can be %s", verb)
	}
	return nil
}

// ShipLine flips the matched line to shipped and recomputes the order status.
func ShipLine(order *models.Order, m LineMatch, d Decision) error {
	if !d.Allowed() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to ship products")
	}
	idx, err := MatchLine(order, m)
	if err != nil {
		return err
	}
	if !d.Covers(order.Lines[idx]) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not authorized to ship products from this location")
	}
	order.Lines[idx].Status = enums.LineStatusShipped
	RecomputeStatus(order)
	return nil
}

// Complete ships every line for unrestricted requesters. A location-scoped requester
// may only complete once every line at their location already shipped; with no lines
// there nothing is checked or changed.
func Complete(order *models.Order, d Decision) error {
	if !d.Allowed() {
		return errStatusForbidden()
	}
	if d.Scope == ScopeLocation {
		for _, line := range order.Lines {
			if d.Covers(line) && line.Status != enums.LineStatusShipped {
				return pkgerrors.New(pkgerrors.CodeValidation, "not all relevant products are shipped")
			}
		}
	}
	for i := range order.Lines {
		if d.Covers(order.Lines[i]) {
			order.Lines[i].Status = enums.LineStatusShipped
		}
	}
	RecomputeStatus(order)
	return nil
}

// RevertToPending resets covered lines to ordered and forces the order to pending,
// even when lines outside the requester's scope remain shipped.
func RevertToPending(order *models.Order, d Decision) error {
	if !d.Allowed() {
		return errStatusForbidden()
	}
	for i := range order.Lines {
		if d.Covers(order.Lines[i]) {
			order.Lines[i].Status = enums.LineStatusOrdered
		}
	}
	order.Status = enums.OrderStatusPending
	return nil
}

func errStatusForbidden() error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to change order status")
}
