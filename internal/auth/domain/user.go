package domain

import "time"

// User is the persisted principal. The token layer treats it as read-only
// input to issuance and read-only output of verification.
type User struct {
	ID            string
	Username      string
	PreferredName string
	PasswordHash  string // argon2id PHC encoded
	Role          Role
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
