package parties

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/stockline-backend/pkg/auth"
	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const duplicateFirmNameMessage = "a party with this name already exists"

// Service manages the party catalog.
type Service interface {
	Create(ctx context.Context, input PartyRequest, req auth.Requester) (*PartyDTO, error)
	List(ctx context.Context) ([]PartyDTO, error)
	Update(ctx context.Context, id uuid.UUID, input PartyRequest, req auth.Requester) (*PartyDTO, error)
	Delete(ctx context.Context, id uuid.UUID, password string, req auth.Requester) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// orderSync keeps the party snapshots embedded in orders in step with the catalog.
type orderSync interface {
	PropagateParty(ctx context.Context, tx *gorm.DB, prevFirmName string, snapshot models.PartySnapshot) (int64, error)
	DeleteForParty(ctx context.Context, tx *gorm.DB, partyID uuid.UUID, firmName string) (int64, error)
}

type stepUpVerifier interface {
	Verify(ctx context.Context, userID uuid.UUID, password string) error
}

type auditRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, action enums.AuditAction, details string)
}

// ServiceParams bundles the party service dependencies.
type ServiceParams struct {
	Repo   *Repository
	Tx     txRunner
	Orders orderSync
	StepUp stepUpVerifier
	Audit  auditRecorder
}

type service struct {
	repo   *Repository
	tx     txRunner
	orders orderSync
	stepUp stepUpVerifier
	audit  auditRecorder
}

// NewService constructs the party service.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("party repository required")
	case params.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Orders == nil:
		return nil, fmt.Errorf("order sync required")
	case params.StepUp == nil:
		return nil, fmt.Errorf("step-up verifier required")
	case params.Audit == nil:
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{
		repo:   params.Repo,
		tx:     params.Tx,
		orders: params.Orders,
		stepUp: params.StepUp,
		audit:  params.Audit,
	}, nil
}

func (s *service) Create(ctx context.Context, input PartyRequest, req auth.Requester) (*PartyDTO, error) {
	if !req.HasRole(enums.RoleOwner) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	input = input.normalized()
	if input.FirmName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "firmName is required")
	}

	taken, err := s.repo.FirmNameTaken(ctx, input.FirmName, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check party name")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, duplicateFirmNameMessage)
	}

	party := &models.Party{
		FirmName:      input.FirmName,
		FirmAddress:   input.FirmAddress,
		FirmCityState: input.FirmCityState,
		ContactPerson: input.ContactPerson,
		PhoneNumber:   input.PhoneNumber,
	}
	if err := s.repo.Create(ctx, party); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create party")
	}
	s.audit.Record(ctx, req.UserID, enums.AuditActionCreateParty, fmt.Sprintf("Party created: %s", party.FirmName))
	return FromModel(party), nil
}

func (s *service) List(ctx context.Context) ([]PartyDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parties")
	}
	out := make([]PartyDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// Update rewrites the party and, in the same transaction, every order snapshot that
// carried its previous firm name.
func (s *service) Update(ctx context.Context, id uuid.UUID, input PartyRequest, req auth.Requester) (*PartyDTO, error) {
	if !req.HasRole(enums.RoleOwner, enums.RoleEmployee) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	input = input.normalized()
	if input.FirmName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "firmName is required")
	}

	var updated *models.Party
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		party, err := repo.FindByID(ctx, id)
		if err != nil {
			return lookupError(err)
		}
		prevFirmName := party.FirmName
		if input.FirmName != prevFirmName {
			taken, err := repo.FirmNameTaken(ctx, input.FirmName, &party.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check party name")
			}
			if taken {
				return pkgerrors.New(pkgerrors.CodeConflict, duplicateFirmNameMessage)
			}
		}

		party.FirmName = input.FirmName
		party.FirmAddress = input.FirmAddress
		party.FirmCityState = input.FirmCityState
		party.ContactPerson = input.ContactPerson
		party.PhoneNumber = input.PhoneNumber
		if err := repo.Update(ctx, party); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update party")
		}
		if _, err := s.orders.PropagateParty(ctx, tx, prevFirmName, party.Snapshot()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "propagate party to orders")
		}
		updated, err = repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload party")
		}
		return nil
	})
	if err != nil {
		return nil, passOrWrap(err, "update party")
	}

	s.audit.Record(ctx, req.UserID, enums.AuditActionUpdateParty, fmt.Sprintf("Party updated: %s", updated.FirmName))
	return FromModel(updated), nil
}

// Delete removes the party and every order placed for it after re-checking the
// requester's password.
func (s *service) Delete(ctx context.Context, id uuid.UUID, password string, req auth.Requester) error {
	if !req.HasRole(enums.RoleOwner, enums.RoleEmployee) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	if err := s.stepUp.Verify(ctx, req.UserID, password); err != nil {
		return err
	}

	var firmName string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		party, err := repo.FindByID(ctx, id)
		if err != nil {
			return lookupError(err)
		}
		firmName = party.FirmName
		if _, err := s.orders.DeleteForParty(ctx, tx, party.ID, party.FirmName); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete party orders")
		}
		if err := repo.Delete(ctx, party.ID); err != nil {
			return lookupError(err)
		}
		return nil
	})
	if err != nil {
		return passOrWrap(err, "delete party")
	}

	s.audit.Record(ctx, req.UserID, enums.AuditActionDeleteParty, fmt.Sprintf("Party deleted: %s", firmName))
	return nil
}

func lookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "party not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load party")
}

func passOrWrap(err error, message string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
