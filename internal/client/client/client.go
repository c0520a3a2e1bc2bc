package client

import (
	"context"

	"github.com/dmitrijs2005/ridehail/internal/client/models"
)

// Operation names, used in errors and logs.
const (
	OpSendOtp         = "send-otp"
	OpVerifyOtp       = "verify-otp"
	OpCompleteProfile = "complete-profile"
)

type Client interface {
	SendOtp(ctx context.Context, email string) (models.SendOtpResponse, error)
	VerifyOtp(ctx context.Context, sessionID, otp string) (models.VerifyOtpResponse, error)
	CompleteProfile(ctx context.Context, req models.CompleteProfileRequest) (models.CompleteProfileResponse, error)
}
