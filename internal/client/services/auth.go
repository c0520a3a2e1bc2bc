// Package services contains application services for the ridehail client.
// This file defines the auth gateway: requesting, resending and verifying
// email codes, completing the profile, and logging out.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ridehail/internal/client/client"
	"github.com/dmitrijs2005/ridehail/internal/client/models"
	"github.com/dmitrijs2005/ridehail/internal/client/session"
	"github.com/dmitrijs2005/ridehail/internal/logging"
)

// ErrStaleResponse is returned when a successful response is discarded
// because the caller's context ended or the session was logged out or
// re-hydrated while the request was in flight.
var ErrStaleResponse = errors.New("response discarded: session changed")

// AuthService defines the authentication operations for the CLI.
//
// Contract:
//   - RequestCode: ask the server to email a code; records the challenge.
//   - ResendCode: same remote call; replaces the challenge.
//   - VerifyCode: exchange the code for user and token.
//   - CompleteProfile: submit name, phone and password for a verified user.
//   - Logout: forget the session locally; never fails.
//
// Failures leave the session exactly as it was. All methods honor context
// cancellation.
type AuthService interface {
	RequestCode(ctx context.Context, email string) (models.OtpSession, error)
	ResendCode(ctx context.Context, email string) (models.OtpSession, error)
	VerifyCode(ctx context.Context, sessionID, code string) (models.VerifyResult, error)
	CompleteProfile(ctx context.Context, in ProfileInput) (models.User, error)
	Logout(ctx context.Context)
}

// authService is the concrete AuthService backed by a remote Client and
// the device session.
type authService struct {
	client   client.Client
	session  *session.Session
	log      logging.Logger
	validate *inputValidator
}

// NewAuthService constructs an AuthService bound to the given API client
// and session.
func NewAuthService(c client.Client, s *session.Session, log logging.Logger) AuthService {
	return &authService{
		client:   c,
		session:  s,
		log:      log.With("component", "auth"),
		validate: newInputValidator(),
	}
}

func (a *authService) RequestCode(ctx context.Context, email string) (models.OtpSession, error) {
	return a.requestCode(ctx, "request code", email)
}

// ResendCode issues a fresh code for email. The server invalidates the
// previous session id, so the new challenge replaces the old one.
func (a *authService) ResendCode(ctx context.Context, email string) (models.OtpSession, error) {
	return a.requestCode(ctx, "resend code", email)
}

func (a *authService) requestCode(ctx context.Context, action, email string) (models.OtpSession, error) {
	if err := a.validate.check(client.OpSendOtp, emailInput{Email: email}); err != nil {
		return models.OtpSession{}, err
	}

	gen := a.session.Generation()
	resp, err := a.client.SendOtp(ctx, email)
	if err != nil {
		a.log.Warn(ctx, action+" failed", "email", email, "error", err)
		return models.OtpSession{}, err
	}

	otp := models.OtpSession{SessionID: resp.SessionID, Email: email, Type: resp.Type}
	if err := a.settle(ctx, func() error { return a.session.CodeIssued(gen, email, otp) }); err != nil {
		a.log.Warn(ctx, action+" discarded", "email", email, "error", err)
		return models.OtpSession{}, err
	}

	a.log.Info(ctx, action, "email", email, "type", otp.Type, "new_user", resp.IsNewUser)
	return otp, nil
}

func (a *authService) VerifyCode(ctx context.Context, sessionID, code string) (models.VerifyResult, error) {
	if err := a.validate.check(client.OpVerifyOtp, codeInput{Otp: code}); err != nil {
		return models.VerifyResult{}, err
	}

	otp, ok := a.session.OtpSession()
	if !ok || otp.SessionID != sessionID {
		return models.VerifyResult{}, &client.Error{
			Op:      client.OpVerifyOtp,
			Message: "verification session is no longer valid",
			Kind:    client.ErrExpiredSession,
		}
	}

	gen := a.session.Generation()
	resp, err := a.client.VerifyOtp(ctx, sessionID, code)
	if err != nil {
		a.log.Warn(ctx, "verify code failed", "email", otp.Email, "error", err)
		return models.VerifyResult{}, err
	}

	// needsProfile alone decides routing, whatever isNewUser says
	res := models.VerifyResult{User: resp.User, Token: resp.Token, NeedsProfile: resp.NeedsProfile}
	if err := a.settle(ctx, func() error {
		return a.session.Verified(gen, res.User, res.Token, res.NeedsProfile)
	}); err != nil {
		a.log.Warn(ctx, "verify code discarded", "email", otp.Email, "error", err)
		return models.VerifyResult{}, err
	}

	a.log.Info(ctx, "code verified", "email", res.User.Email, "needs_profile", res.NeedsProfile)
	return res, nil
}

func (a *authService) CompleteProfile(ctx context.Context, in ProfileInput) (models.User, error) {
	known := a.session.KnownEmail()
	if known == "" {
		return models.User{}, client.NewValidationError(client.OpCompleteProfile, "", "Email is missing. Please log in again.")
	}
	if in.Email == "" {
		in.Email = known
	}
	if err := a.validate.check(client.OpCompleteProfile, in); err != nil {
		return models.User{}, err
	}
	if in.Email != known {
		return models.User{}, client.NewValidationError(client.OpCompleteProfile, "email", "Email does not match the verified account")
	}
	if !validPhone(in.Phone, in.CountryCode) {
		return models.User{}, client.NewValidationError(client.OpCompleteProfile, "phone", "Please enter a valid phone number")
	}
	if a.session.Token() == "" {
		return models.User{}, fmt.Errorf("complete profile: %w", session.ErrNotVerified)
	}

	gen := a.session.Generation()
	resp, err := a.client.CompleteProfile(ctx, models.CompleteProfileRequest{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		CountryCode: in.CountryCode,
		Password:    string(in.Password),
	})
	if err != nil {
		a.log.Warn(ctx, "complete profile failed", "email", in.Email, "error", err)
		return models.User{}, err
	}

	if err := a.settle(ctx, func() error {
		return a.session.ProfileCompleted(gen, resp.User, resp.Token)
	}); err != nil {
		a.log.Warn(ctx, "complete profile discarded", "email", in.Email, "error", err)
		return models.User{}, err
	}

	a.log.Info(ctx, "profile completed", "email", resp.User.Email)
	return resp.User, nil
}

// Logout never reaches the server and never fails.
func (a *authService) Logout(ctx context.Context) {
	a.session.Logout()
	a.log.Info(ctx, "logged out")
}

// settle applies a successful response unless ctx ended meanwhile. A
// session that moved on reports ErrStaleResponse.
func (a *authService) settle(ctx context.Context, apply func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStaleResponse, err)
	}
	err := apply()
	if errors.Is(err, session.ErrStale) {
		return fmt.Errorf("%w: %w", ErrStaleResponse, err)
	}
	return err
}
