package models

import (
	"time"

	"github.com/google/uuid"
)

// Party is a customer firm. Orders embed a PartySnapshot copy of it.
type Party struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FirmName      string    `gorm:"column:firm_name;not null;uniqueIndex"`
	FirmAddress   string    `gorm:"column:firm_address;not null"`
	FirmCityState string    `gorm:"column:firm_city_state;not null"`
	ContactPerson string    `gorm:"column:contact_person;not null"`
	PhoneNumber   string    `gorm:"column:phone_number;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Snapshot copies the fields orders embed.
func (p Party) Snapshot() PartySnapshot {
	id := p.ID
	return PartySnapshot{
		PartyID:       &id,
		FirmName:      p.FirmName,
		FirmAddress:   p.FirmAddress,
		FirmCityState: p.FirmCityState,
		ContactPerson: p.ContactPerson,
		PhoneNumber:   p.PhoneNumber,
	}
}

// PartySnapshot is the denormalized party copy stored on each order (party_* columns).
type PartySnapshot struct {
	PartyID       *uuid.UUID `gorm:"column:id;type:uuid"`
	FirmName      string     `gorm:"column:firm_name;not null"`
	FirmAddress   string     `gorm:"column:firm_address;not null"`
	FirmCityState string     `gorm:"column:firm_city_state;not null"`
	ContactPerson string     `gorm:"column:contact_person;not null"`
	PhoneNumber   string     `gorm:"column:phone_number;not null"`
}
