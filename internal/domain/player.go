package domain

import (
	"time"

	"github.com/google/uuid"
)

type Player struct {
	ID           uuid.UUID
	Name         string
	OwnerUserID  uuid.UUID
	RegisteredAt time.Time
}

func (p Player) HasOwner() bool {
	return p.OwnerUserID != uuid.Nil
}

type User struct {
	ID        uuid.UUID
	CreatedAt time.Time
}
