package models

import "errors"

var ErrIncompleteUser = errors.New("user record is incomplete")

// OtpType tells whether the code was issued for a new account or an existing one.
type OtpType string

const (
	OtpTypeSignup OtpType = "signup"
	OtpTypeLogin  OtpType = "login"
)

func (t OtpType) Valid() bool {
	return t == OtpTypeSignup || t == OtpTypeLogin
}

// OtpSession correlates a requested code with its verification attempt.
// It lives only in memory.
type OtpSession struct {
	SessionID string  `json:"sessionId"`
	Email     string  `json:"email"`
	Type      OtpType `json:"type"`
}

// VerifyResult is what a successful code verification yields.
type VerifyResult struct {
	User         User
	Token        string
	NeedsProfile bool
}
