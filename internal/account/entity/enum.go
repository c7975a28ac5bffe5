package entity

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// AccountStatus mirrors the accounts.status column.
type AccountStatus int16

const (
	// AccountStatusUnknown is mean status is not known / not set.
	AccountStatusUnknown AccountStatus = 0

	// AccountStatusActive mean the account may request and verify codes.
	AccountStatusActive AccountStatus = 1

	// AccountStatusDeactivated mean the account was switched off by a school
	// admin and is rejected with a deactivation-specific message.
	AccountStatusDeactivated AccountStatus = 2

	// AccountStatusSuspended mean the account is temporarily blocked.
	AccountStatusSuspended AccountStatus = 3
)

func (as AccountStatus) String() string {
	switch as {
	case AccountStatusActive:
		return "Active"
	case AccountStatusDeactivated:
		return "Deactivated"
	case AccountStatusSuspended:
		return "Suspended"
	default:
		return "Unknown"
	}
}

// AccountRole mirrors the accounts.role column.
type AccountRole int16

const (
	AccountRoleUnknown AccountRole = 0
	AccountRoleStudent AccountRole = 1
	AccountRoleTeacher AccountRole = 2
	AccountRoleAdmin   AccountRole = 3
	AccountRoleStaff   AccountRole = 4
)

func (ar AccountRole) String() string {
	switch ar {
	case AccountRoleStudent:
		return "Student"
	case AccountRoleTeacher:
		return "Teacher"
	case AccountRoleAdmin:
		return "Admin"
	case AccountRoleStaff:
		return "Staff"
	default:
		return "Unknown"
	}
}

// OTPPurpose distinguishes independent OTP streams for the same account.
type OTPPurpose int16

const (
	OTPPurposeUnknown       OTPPurpose = 0
	OTPPurposePasswordReset OTPPurpose = 1
	OTPPurposeLogin         OTPPurpose = 2
)

var otpPurposeNames = map[string]OTPPurpose{
	"password_reset": OTPPurposePasswordReset,
	"login":          OTPPurposeLogin,
}

func (p OTPPurpose) String() string {
	switch p {
	case OTPPurposePasswordReset:
		return "password_reset"
	case OTPPurposeLogin:
		return "login"
	default:
		return "unknown"
	}
}

func (p OTPPurpose) IsValid() bool {
	return lo.Contains(lo.Values(otpPurposeNames), p)
}

// OTPPurposeFromString parses the wire representation of a purpose.
func OTPPurposeFromString(raw string) OTPPurpose {
	return otpPurposeNames[strings.TrimSpace(strings.ToLower(raw))]
}

// OTPPurposeNames lists the accepted wire values, sorted.
func OTPPurposeNames() []string {
	names := lo.Keys(otpPurposeNames)
	sort.Strings(names)
	return names
}

// OTPStatus is the explicit lifecycle tag on an OTP record. Every state is
// spelled out; expiry stays implicit via expires_at and can overlay any of
// them.
type OTPStatus int16

const (
	OTPStatusUnknown OTPStatus = 0

	// OTPStatusPending mean the code is live and consumable.
	OTPStatusPending OTPStatus = 1

	// OTPStatusVerified mean the code matched once; terminal.
	OTPStatusVerified OTPStatus = 2

	// OTPStatusExhausted mean the attempt budget was spent; terminal.
	OTPStatusExhausted OTPStatus = 3

	// OTPStatusSuperseded mean a newer code replaced this one; terminal.
	OTPStatusSuperseded OTPStatus = 4
)

func (s OTPStatus) String() string {
	switch s {
	case OTPStatusPending:
		return "Pending"
	case OTPStatusVerified:
		return "Verified"
	case OTPStatusExhausted:
		return "Exhausted"
	case OTPStatusSuperseded:
		return "Superseded"
	default:
		return "Unknown"
	}
}
