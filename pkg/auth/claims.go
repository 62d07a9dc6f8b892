package auth

import (
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Role     enums.Role
	Location *enums.Location
	// JTI doubles as the redis session id; a fresh one is generated when empty.
	JTI string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID   uuid.UUID       `json:"user_id"`
	Role     enums.Role      `json:"role"`
	Location *enums.Location `json:"location,omitempty"`
	jwt.RegisteredClaims
}

// Requester returns the identity the claims describe.
func (c *AccessTokenClaims) Requester() Requester {
	return Requester{UserID: c.UserID, Role: c.Role, Location: c.Location}
}
