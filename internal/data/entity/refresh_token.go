package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted half of an issued session pair. Exactly one
// of UserID/SellerID is set, and an account holds at most one row at a time:
// login and refresh both delete the previous row before inserting.
type RefreshToken struct {
	BaseSimple
	UserID    *uuid.UUID `db:"user_id"`
	SellerID  *uuid.UUID `db:"seller_id"`
	Token     string     `db:"token"`
	ExpiresAt time.Time  `db:"expires_at"`
}
