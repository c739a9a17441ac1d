package entity

import (
	"time"
)

// OTP is one issued verification code for a phone number. At most one
// unverified, unexpired row per phone number is authoritative; resends
// update that row in place instead of inserting a second one.
type OTP struct {
	Base
	PhoneNumber string    `db:"phone_number"`
	Code        string    `db:"code"`
	Attempts    int       `db:"attempts"`
	ExpiresAt   time.Time `db:"expires_at"`
	Verified    bool      `db:"verified"`
}
