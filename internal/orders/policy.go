package orders

import (
	"github.com/angelmondragon/stockline-backend/pkg/auth"
	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	"github.com/google/uuid"
)

// Operation names an order engine entry point that the policy table gates.
type Operation string

const (
	OpList               Operation = "list"
	OpGet                Operation = "get"
	OpPendingByParty     Operation = "pending_by_party"
	OpAssignedDeliveries Operation = "assigned_deliveries"
	OpCreate             Operation = "create"
	OpUpdate             Operation = "update"
	OpDelete             Operation = "delete"
	OpShipLine           Operation = "ship_line"
	OpComplete           Operation = "complete"
	OpSetPending         Operation = "set_pending"
)

// Scope describes which lines of an order a decision covers.
type Scope int

const (
	// ScopeNone denies the operation.
	ScopeNone Scope = iota
	// ScopeAll covers every line.
	ScopeAll
	// ScopeLocation covers lines whose location equals the requester's site.
	ScopeLocation
	// ScopeAssigned covers lines assigned to the requester.
	ScopeAssigned
)

func (s Scope) String() string {
	switch s {
	case ScopeAll:
		return "all"
	case ScopeLocation:
		return "location"
	case ScopeAssigned:
		return "assigned"
	default:
		return "none"
	}
}

// Decision is the resolved outcome of Decide for one requester and operation.
type Decision struct {
	Scope    Scope
	Location enums.Location
	UserID   uuid.UUID
}

// Allowed reports whether the operation may proceed.
func (d Decision) Allowed() bool {
	return d.Scope != ScopeNone
}

// Covers reports whether line falls inside the decision's scope.
func (d Decision) Covers(line models.OrderLine) bool {
	switch d.Scope {
	case ScopeAll:
		return true
	case ScopeLocation:
		return line.Location == string(d.Location)
	case ScopeAssigned:
		return line.AssignedTo != nil && *line.AssignedTo == d.UserID
	default:
		return false
	}
}

// rules is keyed by role; an employee's ScopeLocation widens to ScopeAll for Universal.
var rules = map[enums.Role]map[Operation]Scope{
	enums.RoleOwner: {
		OpList:           ScopeAll,
		OpGet:            ScopeAll,
		OpPendingByParty: ScopeAll,
		OpCreate:         ScopeAll,
		OpUpdate:         ScopeAll,
		OpDelete:         ScopeAll,
		OpShipLine:       ScopeAll,
		OpComplete:       ScopeAll,
		OpSetPending:     ScopeAll,
	},
	enums.RoleEmployee: {
		OpList:           ScopeLocation,
		OpGet:            ScopeLocation,
		OpPendingByParty: ScopeLocation,
		OpCreate:         ScopeAll,
		OpUpdate:         ScopeAll,
		OpDelete:         ScopeAll,
		OpShipLine:       ScopeLocation,
		OpComplete:       ScopeLocation,
		OpSetPending:     ScopeLocation,
	},
	enums.RoleDeliveryPerson: {
		OpList:               ScopeAssigned,
		OpGet:                ScopeAssigned,
		OpPendingByParty:     ScopeAssigned,
		OpAssignedDeliveries: ScopeAssigned,
	},
}

// Decide maps a requester and operation to a decision. It has no side effects.
func Decide(req auth.Requester, op Operation) Decision {
	scope := rules[req.Role][op]
	switch scope {
	case ScopeLocation:
		if req.Location == nil || !req.Location.IsValid() {
			return Decision{}
		}
		if req.Location.IsUniversal() {
			return Decision{Scope: ScopeAll}
		}
		return Decision{Scope: ScopeLocation, Location: *req.Location}
	case ScopeAssigned:
		if req.UserID == uuid.Nil {
			return Decision{}
		}
		return Decision{Scope: ScopeAssigned, UserID: req.UserID}
	default:
		return Decision{Scope: scope}
	}
}
