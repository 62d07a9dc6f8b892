package parties

import (
	"strings"
	"time"

	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/google/uuid"
)

// PartyRequest is the create/update payload.
type PartyRequest struct {
	FirmName      string `json:"firmName" validate:"required,max=200"`
	FirmAddress   string `json:"firmAddress" validate:"required"`
	FirmCityState string `json:"firmCityState" validate:"required"`
	ContactPerson string `json:"contactPerson" validate:"required"`
	PhoneNumber   string `json:"phoneNumber" validate:"required"`
}

func (r PartyRequest) normalized() PartyRequest {
	return PartyRequest{
		FirmName:      strings.TrimSpace(r.FirmName),
		FirmAddress:   strings.TrimSpace(r.FirmAddress),
		FirmCityState: strings.TrimSpace(r.FirmCityState),
		ContactPerson: strings.TrimSpace(r.ContactPerson),
		PhoneNumber:   strings.TrimSpace(r.PhoneNumber),
	}
}

// DeleteRequest carries the step-up password.
type DeleteRequest struct {
	Password string `json:"password" validate:"required"`
}

// PartyDTO is the API shape of a party.
type PartyDTO struct {
	ID            uuid.UUID `json:"id"`
	FirmName      string    `json:"firmName"`
	FirmAddress   string    `json:"firmAddress"`
	FirmCityState string    `json:"firmCityState"`
	ContactPerson string    `json:"contactPerson"`
	PhoneNumber   string    `json:"phoneNumber"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FromModel maps a stored party.
func FromModel(p *models.Party) *PartyDTO {
	if p == nil {
		return nil
	}
	return &PartyDTO{
		ID:            p.ID,
		FirmName:      p.FirmName,
		FirmAddress:   p.FirmAddress,
		FirmCityState: p.FirmCityState,
		ContactPerson: p.ContactPerson,
		PhoneNumber:   p.PhoneNumber,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
