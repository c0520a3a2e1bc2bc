package models

// Request and response bodies of the auth API. Field names follow the JSON
// contract of the backend.

type SendOtpRequest struct {
	Email string `json:"email"`
}

type SendOtpResponse struct {
	Message   string  `json:"message"`
	IsNewUser bool    `json:"isNewUser"`
	Type      OtpType `json:"type"`
	SessionID string  `json:"sessionId"`
}

type VerifyOtpRequest struct {
	SessionID string `json:"sessionId"`
	Otp       string `json:"otp"`
}

type VerifyOtpResponse struct {
	Message      string `json:"message"`
	UserExists   bool   `json:"userExists"`
	IsNewUser    bool   `json:"isNewUser"`
	NeedsProfile bool   `json:"needsProfile"`
	Type         string `json:"type"`
	User         User   `json:"user"`
	Token        string `json:"token"`
}

type CompleteProfileRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CountryCode string `json:"countryCode"`
	Password    string `json:"password"`
}

type CompleteProfileResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// ErrorResponse is the body the backend sends with non-2xx statuses.
type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
