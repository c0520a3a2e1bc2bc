// Package models defines the client-side authentication data: the user
// record, the OTP session, and the wire payloads of the auth API.
package models

import "encoding/json"

// User is the account record returned by the auth API and persisted under
// the "user" key. Phone is E.164 formatted, e.g. +233501234567.
type User struct {
	ID               int64   `json:"id"`
	Email            string  `json:"email"`
	IsVerified       bool    `json:"isVerified"`
	HasProfile       bool    `json:"hasProfile"`
	ProfileCompleted bool    `json:"profileCompleted"`
	Name             *string `json:"name"`
	Phone            string  `json:"phone"`
}

// DisplayName returns the user's name or, when unset, the email.
func (u User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

// MarshalUser encodes u in the persisted layout.
func MarshalUser(u User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalUser decodes a persisted user record. A JSON null or a record
// without an email is rejected so callers can treat it as absent.
func UnmarshalUser(s string) (User, error) {
	var u *User
	if err := json.Unmarshal([]byte(s), &u); err != nil {
		return User{}, err
	}
	if u == nil || u.Email == "" {
		return User{}, ErrIncompleteUser
	}
	return *u, nil
}
