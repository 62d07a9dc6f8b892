package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
)

const incorrectPasswordMessage = "incorrect password"

// StepUp re-checks the requester's password before destructive catalog operations.
type StepUp struct {
	repo   *Repository
	hasher passwordHasher
}

// NewStepUp builds the password re-confirmation check.
func NewStepUp(repo *Repository, hasher passwordHasher) (*StepUp, error) {
	if repo == nil || hasher == nil {
		return nil, fmt.Errorf("users repository and hasher required")
	}
	return &StepUp{repo: repo, hasher: hasher}, nil
}

// Verify returns a validation error when password does not match userID's account.
func (s *StepUp) Verify(ctx context.Context, userID uuid.UUID, password string) error {
	if password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, incorrectPasswordMessage)
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	svc := service{hasher: s.hasher}
	return svc.confirm(password, user.PasswordHash, incorrectPasswordMessage)
}
