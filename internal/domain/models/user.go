package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           uuid.UUID `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PassHash     []byte    `bson:"passHash" json:"-"`
	Role         Role      `bson:"role" json:"role"`
	FavoriteIDs  []string  `bson:"favoriteIds,omitempty" json:"favoriteIds,omitempty"`
	RegisteredAt time.Time `bson:"registeredAt" json:"registeredAt"`
}

// Identity is the authenticated caller as seen by the HTTP layer: the id and
// role claims of a validated bearer token.
type Identity struct {
	ID   uuid.UUID
	Role Role
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
