package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/stockline-backend/internal/orders"
	"github.com/angelmondragon/stockline-backend/pkg/auth"
	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes catalog product management.
type Service interface {
	Create(ctx context.Context, input CreateRequest, req auth.Requester) (*ProductDTO, error)
	List(ctx context.Context, req auth.Requester) ([]ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateRequest, req auth.Requester) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID, password string, req auth.Requester) (orders.PullResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type linePuller interface {
	PullProduct(ctx context.Context, tx *gorm.DB, productName string) (orders.PullResult, error)
}

type stepUpVerifier interface {
	Verify(ctx context.Context, userID uuid.UUID, password string) error
}

type auditRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, action enums.AuditAction, details string)
}

// ServiceParams bundles the product service dependencies.
type ServiceParams struct {
	Repo   *Repository
	Tx     txRunner
	Orders linePuller
	StepUp stepUpVerifier
	Audit  auditRecorder
}

// service implements the product service.
type service struct {
	repo   *Repository
	tx     txRunner
	orders linePuller
	stepUp stepUpVerifier
	audit  auditRecorder
}

// NewService constructs a product service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order sync required")
	}
	if params.StepUp == nil {
		return nil, fmt.Errorf("step-up verifier required")
	}
	if params.Audit == nil {
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

func (s *service) Create(ctx context.Context, input CreateRequest, req auth.Requester) (*ProductDTO, error) {
	if !req.HasRole(enums.RoleOwner) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	name := strings.TrimSpace(input.ProductName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productName is required")
	}
	if input.NetStock != nil && *input.NetStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "netStock must not be negative")
	}

	taken, err := s.repo.NameTaken(ctx, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product name")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this name already exists")
	}

	product := &models.Product{
		ProductName: name,
		Description: blankToNil(input.Description),
		NetStock:    input.NetStock,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	s.audit.Record(ctx, req.UserID, enums.AuditActionCreateProduct, fmt.Sprintf("Product created: %s", name))
	return FromModel(product), nil
}

func (s *service) List(ctx context.Context, req auth.Requester) ([]ProductDTO, error) {
	if !req.HasRole(enums.RoleOwner, enums.RoleEmployee) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateRequest, req auth.Requester) (*ProductDTO, error) {
	if !req.HasRole(enums.RoleOwner, enums.RoleEmployee) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	if input.NetStock != nil && *input.NetStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "netStock must not be negative")
	}
	if err := s.repo.UpdateDetails(ctx, id, blankToNil(input.Description), input.NetStock); err != nil {
		return nil, lookupError(err)
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}
	s.audit.Record(ctx, req.UserID, enums.AuditActionUpdateProduct, fmt.Sprintf("Product updated: %s", product.ProductName))
	return FromModel(product), nil
}

// Delete removes the product and pulls its lines out of every order; orders left
// without lines are deleted.
func (s *service) Delete(ctx context.Context, id uuid.UUID, password string, req auth.Requester) (orders.PullResult, error) {
	if !req.HasRole(enums.RoleOwner) {
		return orders.PullResult{}, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	if err := s.stepUp.Verify(ctx, req.UserID, password); err != nil {
		return orders.PullResult{}, err
	}

	var (
		name   string
		result orders.PullResult
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product, err := repo.FindByID(ctx, id)
		if err != nil {
			return lookupError(err)
		}
		name = product.ProductName
		if err := repo.Delete(ctx, product.ID); err != nil {
			return lookupError(err)
		}
		result, err = s.orders.PullProduct(ctx, tx, product.ProductName)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove product from orders")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return orders.PullResult{}, typed
		}
		return orders.PullResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}

	s.audit.Record(ctx, req.UserID, enums.AuditActionDeleteProduct, fmt.Sprintf("Product deleted: %s", name))
	return result, nil
}

func lookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
}
