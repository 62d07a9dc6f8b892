package parties

import (
	"context"

	"github.com/angelmondragon/stockline-backend/internal/repo"
	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists parties.
type Repository struct {
	repo.Base
}

// NewRepository binds the party repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Bind(tx)}
}

// Create inserts party, assigning an id when missing.
func (r *Repository) Create(ctx context.Context, party *models.Party) error {
	if party.ID == uuid.Nil {
		party.ID = uuid.New()
	}
	return r.DB(ctx).Create(party).Error
}

// FindByID loads one party.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Party, error) {
	var party models.Party
	if err := r.DB(ctx).First(&party, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

// FindByFirmName matches the firm name exactly (case-sensitive).
func (r *Repository) FindByFirmName(ctx context.Context, firmName string) (*models.Party, error) {
	var party models.Party
	if err := r.DB(ctx).First(&party, "firm_name = ?", firmName).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

// FirmNameTaken reports whether another party already uses firmName.
func (r *Repository) FirmNameTaken(ctx context.Context, firmName string, exclude *uuid.UUID) (bool, error) {
	query := r.DB(ctx).Model(&models.Party{}).Where("firm_name = ?", firmName)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns every party by firm name.
func (r *Repository) List(ctx context.Context) ([]models.Party, error) {
	var rows []models.Party
	err := r.DB(ctx).Order("firm_name ASC").Find(&rows).Error
	return rows, err
}

// Update writes the editable columns of party.
func (r *Repository) Update(ctx context.Context, party *models.Party) error {
	res := r.DB(ctx).Model(&models.Party{}).Where("id = ?", party.ID).Updates(map[string]any{
		"firm_name":       party.FirmName,
		"firm_address":    party.FirmAddress,
		"firm_city_state": party.FirmCityState,
		"contact_person":  party.ContactPerson,
		"phone_number":    party.PhoneNumber,
	})
	return repo.RequireAffected(res)
}

// Delete removes the party row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.RequireAffected(r.DB(ctx).Where("id = ?", id).Delete(&models.Party{}))
}
