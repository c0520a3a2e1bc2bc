package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ridehail/internal/client/models"
	"github.com/dmitrijs2005/ridehail/internal/client/services"
	"github.com/dmitrijs2005/ridehail/internal/client/session"
	"github.com/dmitrijs2005/ridehail/internal/common"
)

const minPasswordLen = 8

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var (
	errPasswordMismatch = errors.New("passwords do not match")
	errWeakPassword     = errors.New("password too short")
	errNoChallenge      = errors.New("no code requested")
	errCoolingDown      = errors.New("resend not allowed yet")
	errNoProfileStep    = errors.New("no profile to complete")
)

// SignUp asks for an email and a password, requests a signup code and
// continues with verification. The password is held in memory for the
// profile step only.
func (a *App) SignUp(ctx context.Context) error {
	if a.alreadySignedIn() {
		return session.ErrAlreadyVerified
	}

	email, err := getSimpleText(ctx, a.in, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.choosePassword(ctx)
	if err != nil {
		return err
	}

	a.session.SetEmail(email)
	otp, err := a.auth.RequestCode(ctx, email)
	if err != nil {
		common.WipeByteArray(password)
		printFeedback(a.out, feedbackFor(actionSignUp, err))
		return err
	}

	a.forgetPassword()
	a.password = password
	a.codeSent(otp)
	return a.Verify(ctx)
}

// SignIn requests a login code for an existing account and continues with
// verification.
func (a *App) SignIn(ctx context.Context) error {
	if a.alreadySignedIn() {
		return session.ErrAlreadyVerified
	}

	email, err := getSimpleText(ctx, a.in, "Enter email", a.out)
	if err != nil {
		return err
	}

	a.session.SetEmail(email)
	otp, err := a.auth.RequestCode(ctx, email)
	if err != nil {
		printFeedback(a.out, feedbackFor(actionSignIn, err))
		return err
	}

	a.codeSent(otp)
	return a.Verify(ctx)
}

// Verify asks for the code of the outstanding challenge. A verified account
// without a profile goes straight to the profile step.
func (a *App) Verify(ctx context.Context) error {
	otp, ok := a.session.OtpSession()
	if !ok {
		printFeedback(a.out, Feedback{Message: "No code was requested. Use 'signup' or 'signin' first."})
		return errNoChallenge
	}

	code, err := getSimpleText(ctx, a.in, "Enter the 6-digit code sent to "+maskEmail(otp.Email), a.out)
	if err != nil {
		return err
	}

	res, err := a.auth.VerifyCode(ctx, otp.SessionID, code)
	if err != nil {
		printFeedback(a.out, feedbackFor(actionVerify, err))
		return err
	}

	if res.NeedsProfile {
		printSuccess(a.out, "Email verified. Let's complete your profile.")
		return a.Profile(ctx)
	}

	a.forgetPassword()
	printSuccess(a.out, fmt.Sprintf("Welcome back, %s!", res.User.DisplayName()))
	return nil
}

// Resend requests a new code once the cool-down is over. Any failure
// clears the cool-down so the user can retry right away.
func (a *App) Resend(ctx context.Context) error {
	otp, ok := a.session.OtpSession()
	if !ok {
		printFeedback(a.out, Feedback{Message: "No code was requested. Use 'signup' or 'signin' first."})
		return errNoChallenge
	}
	if d := a.cooldown.Remaining(); d > 0 {
		printFeedback(a.out, Feedback{Message: fmt.Sprintf("You can resend the code in %s.", d)})
		return errCoolingDown
	}

	if _, err := a.auth.ResendCode(ctx, otp.Email); err != nil {
		a.cooldown.Clear()
		printFeedback(a.out, feedbackFor(actionResend, err))
		return err
	}

	a.cooldown.Restart()
	printSuccess(a.out, "New code sent successfully")
	return nil
}

// Profile collects name, phone and country, reuses the signup password or
// asks for one, and completes the profile.
func (a *App) Profile(ctx context.Context) error {
	if a.phase() != session.PhaseNeedsProfile {
		printFeedback(a.out, Feedback{Message: "There is no profile to complete."})
		return errNoProfileStep
	}

	name, err := getSimpleText(ctx, a.in, "Full name", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(ctx, a.in, "Phone number", a.out)
	if err != nil {
		return err
	}
	country, err := getSimpleText(ctx, a.in, fmt.Sprintf("Country code [%s]", a.config.DefaultCountry), a.out)
	if err != nil {
		return err
	}
	if country == "" {
		country = a.config.DefaultCountry
	}

	if a.password == nil {
		password, err := a.choosePassword(ctx)
		if err != nil {
			return err
		}
		a.password = password
	}

	u, err := a.auth.CompleteProfile(ctx, services.ProfileInput{
		Email:       a.session.KnownEmail(),
		Name:        name,
		Password:    a.password,
		Phone:       phone,
		CountryCode: strings.ToUpper(country),
	})
	if err != nil {
		fb := feedbackFor(actionProfile, err)
		if fb.Field == "password" {
			a.forgetPassword()
		}
		printFeedback(a.out, fb)
		return err
	}

	a.forgetPassword()
	printSuccess(a.out, fmt.Sprintf("Profile completed. Welcome, %s!", u.DisplayName()))
	return nil
}

// Logout forgets the session locally; it works offline.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	a.forgetPassword()
	a.cooldown.Clear()
	printSuccess(a.out, "Logged out.")
	return nil
}

// choosePassword asks for a password twice. The caller owns and wipes the
// result.
func (a *App) choosePassword(ctx context.Context) ([]byte, error) {
	password, err := getPassword(ctx, a.in, "Choose a password", a.out)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLen {
		common.WipeByteArray(password)
		printFeedback(a.out, Feedback{Field: "password", Message: fmt.Sprintf("Password must be at least %d characters", minPasswordLen)})
		return nil, errWeakPassword
	}

	confirm, err := getPassword(ctx, a.in, "Confirm password", a.out)
	if err != nil {
		common.WipeByteArray(password)
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		common.WipeByteArray(password)
		printFeedback(a.out, Feedback{Field: "confirmPassword", Message: "Passwords do not match"})
		return nil, errPasswordMismatch
	}
	return password, nil
}

func (a *App) codeSent(otp models.OtpSession) {
	a.cooldown.Restart()
	printSuccess(a.out, fmt.Sprintf("We sent a 6-digit code to %s", maskEmail(otp.Email)))
}

func (a *App) alreadySignedIn() bool {
	if a.session.Snapshot().IsAuthenticated {
		printFeedback(a.out, Feedback{Message: "You are already signed in. Use 'logout' first."})
		return true
	}
	return false
}
