package products

import (
	"strings"
	"time"

	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CreateRequest is the payload for a new catalog product.
type CreateRequest struct {
	ProductName string  `json:"productName" validate:"required,max=200"`
	Description *string `json:"description"`
	NetStock    *int    `json:"netStock" validate:"omitempty,min=0"`
}

// UpdateRequest edits the mutable fields. The product name is fixed once created
// because order lines copy it.
type UpdateRequest struct {
	Description *string `json:"description"`
	NetStock    *int    `json:"netStock" validate:"omitempty,min=0"`
}

// DeleteRequest carries the step-up password.
type DeleteRequest struct {
	Password string `json:"password" validate:"required"`
}

// ProductDTO is the API shape of a product.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	ProductName string    `json:"productName"`
	Description *string   `json:"description"`
	NetStock    *int      `json:"netStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromModel maps a stored product.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		ProductName: p.ProductName,
		Description: p.Description,
		NetStock:    p.NetStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// blankToNil drops empty descriptions so they are stored as NULL.
func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
