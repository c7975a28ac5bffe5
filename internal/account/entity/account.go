package entity

import "time"

type Account struct {
	ID        int64
	Phone     string
	Email     string
	FullName  string
	Role      AccountRole
	Status    AccountStatus
	CreatedAt time.Time
}

type AccountCredential struct {
	AccountID int64
	Password  string // hashed
	UpdatedAt time.Time
}

// OTPRecord is one issuance of a one-time code. The plaintext code never
// appears here; only its digest is stored.
type OTPRecord struct {
	ID         int64
	AccountID  int64
	Purpose    OTPPurpose
	CodeHash   string
	Attempts   int32
	Status     OTPStatus
	VerifiedAt *time.Time
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Expired reports whether the record's lifetime has passed at the given time.
func (r OTPRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
