package orders

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
)

// PartyDTO is the party snapshot embedded in an order response.
type PartyDTO struct {
	PartyID       *uuid.UUID `json:"partyId,omitempty"`
	FirmName      string     `json:"firmName"`
	FirmAddress   string     `json:"firmAddress"`
	FirmCityState string     `json:"firmCityState"`
	ContactPerson string     `json:"contactPerson"`
	PhoneNumber   string     `json:"phoneNumber"`
}

// LineDTO is one order line as returned to clients.
type LineDTO struct {
	ID          uuid.UUID        `json:"id"`
	ProductName string           `json:"productName"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Rate        decimal.Decimal  `json:"rate"`
	Status      enums.LineStatus `json:"status"`
	Location    string           `json:"location"`
	AssignedTo  *uuid.UUID       `json:"assignedTo"`
}

// OrderDTO is the order aggregate as returned to clients. Lines are already filtered
// to what the requester may see.
type OrderDTO struct {
	ID        uuid.UUID         `json:"id"`
	Party     PartyDTO          `json:"party"`
	Products  []LineDTO         `json:"products"`
	Status    enums.OrderStatus `json:"status"`
	CreatedBy uuid.UUID         `json:"createdBy"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// AssignedDeliveriesDTO buckets a delivery person's orders.
type AssignedDeliveriesDTO struct {
	Pending   []OrderDTO `json:"pending"`
	Completed []OrderDTO `json:"completed"`
}

func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	lines := make([]LineDTO, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, LineDTO{
			ID:          line.ID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Rate:        line.Rate,
			Status:      line.Status,
			Location:    line.Location,
			AssignedTo:  line.AssignedTo,
		})
	}
	return &OrderDTO{
		ID: order.ID,
		Party: PartyDTO{
			PartyID:       order.Party.PartyID,
			FirmName:      order.Party.FirmName,
			FirmAddress:   order.Party.FirmAddress,
			FirmCityState: order.Party.FirmCityState,
			ContactPerson: order.Party.ContactPerson,
			PhoneNumber:   order.Party.PhoneNumber,
		},
		Products:  lines,
		Status:    order.Status,
		CreatedBy: order.CreatedBy,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

func FromModels(list []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func FromAssigned(a AssignedDeliveries) AssignedDeliveriesDTO {
	return AssignedDeliveriesDTO{
		Pending:   FromModels(a.Pending),
		Completed: FromModels(a.Completed),
	}
}

// PartyField accepts either a party id string or a full party object.
type PartyField struct {
	ref PartyRef
	set bool
}

func (p *PartyField) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	p.set = true
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "party must be a party id or a party object")
		}
		p.ref = PartyRef{ID: &id}
		return nil
	}
	var body PartyDTO
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return err
	}
	p.ref = PartyRef{Snapshot: &models.PartySnapshot{
		PartyID:       body.PartyID,
		FirmName:      body.FirmName,
		FirmAddress:   body.FirmAddress,
		FirmCityState: body.FirmCityState,
		ContactPerson: body.ContactPerson,
		PhoneNumber:   body.PhoneNumber,
	}}
	return nil
}

// Ref returns the parsed reference; ok is false when the field was absent.
func (p PartyField) Ref() (PartyRef, bool) {
	return p.ref, p.set
}

// LineRequest is one submitted order line.
type LineRequest struct {
	ID          *uuid.UUID      `json:"id,omitempty"`
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Location    string          `json:"location,omitempty"`
	AssignedTo  *uuid.UUID      `json:"assignedTo,omitempty"`
	Status      string          `json:"status,omitempty"`
}

// CreateRequest is the body of POST /orders.
type CreateRequest struct {
	Party    PartyField    `json:"party"`
	Products []LineRequest `json:"products"`
}

// UpdateRequest is the body of PUT /orders/{id}; absent fields are left unchanged.
type UpdateRequest struct {
	Party    PartyField     `json:"party"`
	Products *[]LineRequest `json:"products"`
}

// ShipRequest repeats the line fields the client last saw.
type ShipRequest struct {
	ProductName string          `json:"productName" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Location    string          `json:"location" validate:"required"`
}

func (r CreateRequest) Input() (CreateInput, error) {
	ref, ok := r.Party.Ref()
	if !ok {
		return CreateInput{}, pkgerrors.New(pkgerrors.CodeValidation, "party is required")
	}
	return CreateInput{Party: ref, Lines: lineInputs(r.Products)}, nil
}

func (r UpdateRequest) Input() UpdateInput {
	var in UpdateInput
	if ref, ok := r.Party.Ref(); ok {
		in.Party = &ref
	}
	if r.Products != nil {
		lines := lineInputs(*r.Products)
		in.Lines = &lines
	}
	return in
}

func (r ShipRequest) Match(lineID uuid.UUID) LineMatch {
	return LineMatch{
		LineID:      lineID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		Rate:        r.Rate,
		Location:    r.Location,
	}
}

func lineInputs(reqs []LineRequest) []LineInput {
	out := make([]LineInput, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, LineInput{
			ID:          r.ID,
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			Rate:        r.Rate,
			Location:    r.Location,
			AssignedTo:  r.AssignedTo,
			Status:      enums.LineStatus(strings.TrimSpace(r.Status)),
		})
	}
	return out
}
