package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/stockline-backend/pkg/auth"
	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PartyLookup resolves canonical party records for snapshotting.
type PartyLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Party, error)
	FindByFirmName(ctx context.Context, firmName string) (*models.Party, error)
}

// UserLookup resolves accounts referenced by line assignments.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type auditRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, action enums.AuditAction, details string)
}

type transitionCounter interface {
	Inc(operation string)
}

// Service exposes the order engine operations. Every call receives the requester explicitly.
type Service interface {
	List(ctx context.Context, req auth.Requester) ([]models.Order, error)
	Get(ctx context.Context, id uuid.UUID, req auth.Requester) (*models.Order, error)
	PendingByParty(ctx context.Context, firmName string, req auth.Requester) ([]models.Order, error)
	AssignedDeliveries(ctx context.Context, req auth.Requester) (AssignedDeliveries, error)
	Create(ctx context.Context, input CreateInput, req auth.Requester) (*models.Order, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput, req auth.Requester) (UpdateResult, error)
	Delete(ctx context.Context, id uuid.UUID, req auth.Requester) error
	ShipLine(ctx context.Context, orderID uuid.UUID, match LineMatch, req auth.Requester) (*models.Order, error)
	Complete(ctx context.Context, id uuid.UUID, req auth.Requester) (*models.Order, error)
	SetPending(ctx context.Context, id uuid.UUID, req auth.Requester) (*models.Order, error)
}

// PartyRef names the party of an order either by id or by a full snapshot.
type PartyRef struct {
	ID       *uuid.UUID
	Snapshot *models.PartySnapshot
}

// CreateInput carries a new order.
type CreateInput struct {
	Party PartyRef
	Lines []LineInput
}

// UpdateInput carries a structural edit. Nil fields are left unchanged; a non-nil
// empty Lines deletes the order.
type UpdateInput struct {
	Party *PartyRef
	Lines *[]LineInput
}

// UpdateResult is the outcome of Update. Deleted is set when the edit removed every line.
type UpdateResult struct {
	Order   *models.Order
	Deleted bool
}

// ServiceParams bundles the order service dependencies.
type ServiceParams struct {
	Repo    Repository
	Tx      txRunner
	Parties PartyLookup
	Users   UserLookup
	Audit   auditRecorder
	Metrics transitionCounter
}

type service struct {
	repo    Repository
	tx      txRunner
	parties PartyLookup
	users   UserLookup
	audit   auditRecorder
	metrics transitionCounter
}

// NewService builds the order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Parties == nil {
		return nil, fmt.Errorf("party lookup required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user lookup required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{
		repo:    params.Repo,
		tx:      params.Tx,
		parties: params.Parties,
		users:   params.Users,
		audit:   params.Audit,
		metrics: params.Metrics,
	}, nil
}

func (s *service) List(ctx context.Context, req auth.Requester) ([]models.Order, error) {
	d, err := decide(req, OpList)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.List(ctx, scopeFilter(d))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return FilterOrders(orders, d), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, req auth.Requester) (*models.Order, error) {
	d, err := decide(req, OpGet)
	if err != nil {
		return nil, err
	}
	order, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	visible, ok := FilterOrder(*order, d)
	if !ok {
		return nil, errOrderNotFound()
	}
	return &visible, nil
}

func (s *service) PendingByParty(ctx context.Context, firmName string, req auth.Requester) ([]models.Order, error) {
	d, err := decide(req, OpPendingByParty)
	if err != nil {
		return nil, err
	}
	firmName = strings.TrimSpace(firmName)
	if firmName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "party name is required")
	}
	filter := scopeFilter(d)
	filter.PartyFirmName = firmName
	filter.Status = enums.OrderStatusPending
	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending orders by party")
	}
	return FilterOrders(orders, d), nil
}

func (s *service) AssignedDeliveries(ctx context.Context, req auth.Requester) (AssignedDeliveries, error) {
	d, err := decide(req, OpAssignedDeliveries)
	if err != nil {
		return AssignedDeliveries{}, err
	}
	orders, err := s.repo.List(ctx, scopeFilter(d))
	if err != nil {
		return AssignedDeliveries{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assigned orders")
	}
	return SplitAssigned(orders, d.UserID), nil
}

func (s *service) Create(ctx context.Context, input CreateInput, req auth.Requester) (*models.Order, error) {
	if _, err := decide(req, OpCreate); err != nil {
		return nil, err
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one product is required")
	}
	lines, err := NormalizeLines(input.Lines)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].Status = enums.LineStatusOrdered
	}
	if err := s.validateAssignees(ctx, lines); err != nil {
		return nil, err
	}
	snapshot, err := s.resolveParty(ctx, input.Party)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:        uuid.New(),
		Party:     snapshot,
		Status:    enums.OrderStatusPending,
		CreatedBy: req.UserID,
		Lines:     lines,
	}
	RecomputeStatus(order)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	s.record(ctx, req, enums.AuditActionCreateOrder, fmt.Sprintf("Order created with ID: %s", order.ID))
	s.inc(string(OpCreate))
	return s.load(ctx, s.repo, order.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput, req auth.Requester) (UpdateResult, error) {
	if _, err := decide(req, OpUpdate); err != nil {
		return UpdateResult{}, err
	}

	var lines []models.OrderLine
	if input.Lines != nil {
		normalized, err := NormalizeLines(*input.Lines)
		if err != nil {
			return UpdateResult{}, err
		}
		if err := s.validateAssignees(ctx, normalized); err != nil {
			return UpdateResult{}, err
		}
		lines = normalized
	}
	var snapshot *models.PartySnapshot
	if input.Party != nil {
		resolved, err := s.resolveParty(ctx, *input.Party)
		if err != nil {
			return UpdateResult{}, err
		}
		snapshot = &resolved
	}

	var result UpdateResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := EnsureEditable(order, "edited"); err != nil {
			return err
		}
		if input.Lines != nil && len(lines) == 0 {
			if err := repo.Delete(ctx, order.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete emptied order")
			}
			result.Deleted = true
			return nil
		}
		if snapshot != nil {
			order.Party = *snapshot
		}
		if input.Lines != nil {
			ReconcileLineIDs(order.Lines, lines)
			order.Lines = lines
		}
		order.CreatedBy = req.UserID
		RecomputeStatus(order)
		if err := repo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		result.Order = order
		return nil
	})
	if err != nil {
		return UpdateResult{}, passOrWrap(err, "update order")
	}

	if result.Deleted {
		s.record(ctx, req, enums.AuditActionDeleteOrder, fmt.Sprintf("Order deleted with ID: %s", id))
		s.inc(string(OpDelete))
		return result, nil
	}
	s.record(ctx, req, enums.AuditActionUpdateOrder, fmt.Sprintf("Order updated with ID: %s", id))
	s.inc(string(OpUpdate))
	return result, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, req auth.Requester) error {
	if _, err := decide(req, OpDelete); err != nil {
		return err
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := EnsureEditable(order, "deleted"); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errOrderNotFound()
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return nil
	})
	if err != nil {
		return passOrWrap(err, "delete order")
	}
	s.record(ctx, req, enums.AuditActionDeleteOrder, fmt.Sprintf("Order deleted with ID: %s", id))
	s.inc(string(OpDelete))
	return nil
}

func (s *service) ShipLine(ctx context.Context, orderID uuid.UUID, match LineMatch, req auth.Requester) (*models.Order, error) {
	return s.transition(ctx, orderID, req, OpShipLine, func(order *models.Order, d Decision) error {
		return ShipLine(order, match, d)
	}, enums.AuditActionShipLine, func(id uuid.UUID) string {
		return fmt.Sprintf("Product %s shipped in order %s", match.ProductName, id)
	})
}

func (s *service) Complete(ctx context.Context, id uuid.UUID, req auth.Requester) (*models.Order, error) {
	return s.transition(ctx, id, req, OpComplete, Complete, enums.AuditActionCompleteOrder, func(id uuid.UUID) string {
		return fmt.Sprintf("Order marked completed with ID: %s", id)
	})
}

func (s *service) SetPending(ctx context.Context, id uuid.UUID, req auth.Requester) (*models.Order, error) {
	return s.transition(ctx, id, req, OpSetPending, RevertToPending, enums.AuditActionPendingOrder, func(id uuid.UUID) string {
		return fmt.Sprintf("Order reverted to pending with ID: %s", id)
	})
}

// transition loads the order, applies a line-status change and saves it in one tx.
func (s *service) transition(
	ctx context.Context,
	id uuid.UUID,
	req auth.Requester,
	op Operation,
	apply func(*models.Order, Decision) error,
	action enums.AuditAction,
	details func(uuid.UUID) string,
) (*models.Order, error) {
	d, err := decide(req, op)
	if err != nil {
		return nil, err
	}

	var updated *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := apply(order, d); err != nil {
			return err
		}
		if err := repo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save order")
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, passOrWrap(err, "save order")
	}

	s.record(ctx, req, action, details(id))
	s.inc(string(op))
	if visible, ok := FilterOrder(*updated, d); ok {
		return &visible, nil
	}
	hidden := *updated
	hidden.Lines = []models.OrderLine{}
	return &hidden, nil
}

func (s *service) load(ctx context.Context, repo Repository, id uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errOrderNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) resolveParty(ctx context.Context, ref PartyRef) (models.PartySnapshot, error) {
	if ref.ID != nil {
		party, err := s.parties.FindByID(ctx, *ref.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.PartySnapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "party not found")
			}
			return models.PartySnapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load party")
		}
		return party.Snapshot(), nil
	}
	if ref.Snapshot == nil || strings.TrimSpace(ref.Snapshot.FirmName) == "" {
		return models.PartySnapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "party is required")
	}
	snapshot := *ref.Snapshot
	snapshot.FirmName = strings.TrimSpace(snapshot.FirmName)
	if snapshot.PartyID == nil {
		party, err := s.parties.FindByFirmName(ctx, snapshot.FirmName)
		switch {
		case err == nil:
			id := party.ID
			snapshot.PartyID = &id
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return models.PartySnapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load party")
		}
	}
	return snapshot, nil
}

func (s *service) validateAssignees(ctx context.Context, lines []models.OrderLine) error {
	checked := make(map[uuid.UUID]struct{})
	for i, line := range lines {
		if line.AssignedTo == nil {
			continue
		}
		if _, ok := checked[*line.AssignedTo]; ok {
			continue
		}
		user, err := s.users.FindByID(ctx, *line.AssignedTo)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignee")
		}
		if user == nil || user.Role != enums.RoleDeliveryPerson {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "products[%d].assignedTo must reference a delivery person", i)
		}
		checked[*line.AssignedTo] = struct{}{}
	}
	return nil
}

func (s *service) record(ctx context.Context, req auth.Requester, action enums.AuditAction, details string) {
	s.audit.Record(ctx, req.UserID, action, details)
}

func (s *service) inc(operation string) {
	if s.metrics != nil {
		s.metrics.Inc(operation)
	}
}

func decide(req auth.Requester, op Operation) (Decision, error) {
	d := Decide(req, op)
	if !d.Allowed() {
		return Decision{}, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	return d, nil
}

// scopeFilter narrows the store query to orders that can contain covered lines.
func scopeFilter(d Decision) ListFilter {
	var filter ListFilter
	switch d.Scope {
	case ScopeLocation:
		filter.LineLocation = string(d.Location)
	case ScopeAssigned:
		id := d.UserID
		filter.AssignedTo = &id
	}
	return filter
}

func errOrderNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func passOrWrap(err error, message string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
