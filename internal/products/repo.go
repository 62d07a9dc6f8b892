package products

import (
	"context"

	"github.com/angelmondragon/stockline-backend/internal/repo"
	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists catalog products.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Bind(tx)}
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return r.DB(ctx).Create(product).Error
}

// FindByID loads the product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// NameTaken reports whether a product already uses name.
func (r *Repository) NameTaken(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Product{}).Where("product_name = ?", name).Count(&count).Error
	return count > 0, err
}

// List returns the catalog sorted by name.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.DB(ctx).Order("product_name ASC").Find(&rows).Error
	return rows, err
}

// UpdateDetails overwrites description and net stock. Nil clears the column.
func (r *Repository) UpdateDetails(ctx context.Context, id uuid.UUID, description *string, netStock *int) error {
	res := r.DB(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(map[string]any{
		"description": description,
		"net_stock":   netStock,
	})
	return repo.RequireAffected(res)
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.RequireAffected(r.DB(ctx).Where("id = ?", id).Delete(&models.Product{}))
}
