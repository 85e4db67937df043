package entity

import "time"

// User is a registered account identified by a verified phone number.
type User struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// OTPRecord is a pending one-time password challenge for a phone number.
//
// Only the bcrypt hash of the code is kept; the plain code exists solely in
// the SMS message sent to the user.
type OTPRecord struct {
	CodeHash  string
	ExpiresAt time.Time
}
