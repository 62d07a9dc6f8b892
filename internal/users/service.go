package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/stockline-backend/pkg/auth"
	"github.com/angelmondragon/stockline-backend/pkg/config"
	"github.com/angelmondragon/stockline-backend/pkg/db"
	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
	"github.com/angelmondragon/stockline-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages accounts on behalf of an authenticated requester.
type Service interface {
	Register(ctx context.Context, input RegisterRequest, req auth.Requester) (*UserDTO, error)
	Me(ctx context.Context, req auth.Requester) (*UserDTO, error)
	UpdateProfile(ctx context.Context, input ProfileRequest, req auth.Requester) (*UserDTO, error)
	ChangePassword(ctx context.Context, input PasswordRequest, req auth.Requester) error
	List(ctx context.Context, req auth.Requester) ([]UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID, password string, req auth.Requester) error
	DeliveryPersons(ctx context.Context) ([]DeliveryPersonDTO, error)
	EnsureBootstrapAdmin(ctx context.Context, cfg config.BootstrapConfig) (bool, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Confirm(password, encoded string) error
}

type auditRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, action enums.AuditAction, details string)
}

type service struct {
	repo   *Repository
	hasher passwordHasher
	audit  auditRecorder
}

// NewService constructs the users service.
func NewService(repo *Repository, hasher passwordHasher, audit auditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, hasher: hasher, audit: audit}, nil
}

func (s *service) Register(ctx context.Context, input RegisterRequest, req auth.Requester) (*UserDTO, error) {
	if !req.HasRole(enums.RoleOwner) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only owners can register users")
	}
	role, err := enums.ParseRole(strings.TrimSpace(input.Role))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
	}

	var location *enums.Location
	if role.RequiresLocation() {
		if input.Location == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required for employees")
		}
		loc, err := enums.ParseLocation(strings.TrimSpace(*input.Location))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location")
		}
		location = &loc
	}

	email := normalizeEmail(input.Email)
	phone := strings.TrimSpace(input.PhoneNumber)
	if err := s.ensureUnique(ctx, email, phone, nil); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         role,
		Location:     location,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	s.audit.Record(ctx, req.UserID, enums.AuditActionRegisterUser, fmt.Sprintf("New user registered: %s", user.Name))
	return FromModel(user), nil
}

func (s *service) Me(ctx context.Context, req auth.Requester) (*UserDTO, error) {
	user, err := s.load(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, input ProfileRequest, req auth.Requester) (*UserDTO, error) {
	user, err := s.load(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.confirm(input.Password, user.PasswordHash, "current password is incorrect"); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	phone := strings.TrimSpace(input.PhoneNumber)
	if err := s.ensureUnique(ctx, email, phone, &user.ID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if err := s.repo.UpdateProfile(ctx, user.ID, name, email, phone); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email or phone number already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	user.Name, user.Email, user.Phone = name, email, phone
	return FromModel(user), nil
}

func (s *service) ChangePassword(ctx context.Context, input PasswordRequest, req auth.Requester) error {
	user, err := s.load(ctx, req.UserID)
	if err != nil {
		return err
	}
	if err := s.confirm(input.OldPassword, user.PasswordHash, "old password is incorrect"); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	return nil
}

func (s *service) List(ctx context.Context, req auth.Requester) ([]UserDTO, error) {
	if !req.HasRole(enums.RoleOwner) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only owners can list users")
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return FromModels(list), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, password string, req auth.Requester) error {
	if !req.HasRole(enums.RoleOwner) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only owners can delete users")
	}
	owner, err := s.load(ctx, req.UserID)
	if err != nil {
		return err
	}
	if err := s.confirm(password, owner.PasswordHash, incorrectPasswordMessage); err != nil {
		return err
	}
	if id == req.UserID {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete your own account")
	}
	target, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	s.audit.Record(ctx, req.UserID, enums.AuditActionDeleteUser, fmt.Sprintf("User deleted: %s", target.Name))
	return nil
}

func (s *service) DeliveryPersons(ctx context.Context) ([]DeliveryPersonDTO, error) {
	list, err := s.repo.ListByRole(ctx, enums.RoleDeliveryPerson)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery persons")
	}
	out := make([]DeliveryPersonDTO, 0, len(list))
	for _, u := range list {
		out = append(out, DeliveryPersonDTO{ID: u.ID, Name: u.Name})
	}
	return out, nil
}

// EnsureBootstrapAdmin creates the first owner when the users table is empty.
// The boolean reports whether an account was created.
func (s *service) EnsureBootstrapAdmin(ctx context.Context, cfg config.BootstrapConfig) (bool, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	if count > 0 {
		return false, nil
	}
	hash, err := s.hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	admin := &models.User{
		ID:           uuid.New(),
		Name:         cfg.AdminName,
		Email:        normalizeEmail(cfg.AdminEmail),
		Phone:        strings.TrimSpace(cfg.AdminPhone),
		PasswordHash: hash,
		Role:         enums.RoleOwner,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if db.IsUniqueViolation(err, "") {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create bootstrap admin")
	}
	return true, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) ensureUnique(ctx context.Context, email, phone string, exclude *uuid.UUID) error {
	taken, err := s.repo.ExistsByEmailOrPhone(ctx, email, phone, exclude)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user uniqueness")
	}
	if taken {
		if exclude != nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email or phone number already in use")
		}
		return pkgerrors.New(pkgerrors.CodeConflict, "user already exists")
	}
	return nil
}

func (s *service) confirm(password, encoded, message string) error {
	err := s.hasher.Confirm(password, encoded)
	if err == nil {
		return nil
	}
	if errors.Is(err, security.ErrPasswordMismatch) {
		return pkgerrors.New(pkgerrors.CodeValidation, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
