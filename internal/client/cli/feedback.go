package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/dmitrijs2005/ridehail/internal/client/client"
	"github.com/dmitrijs2005/ridehail/internal/client/services"
	"github.com/dmitrijs2005/ridehail/internal/client/session"
)

// Feedback is what the user sees for a failed action: a message tied to
// one input field, or a banner when Field is empty. Never both.
type Feedback struct {
	Field   string
	Message string
}

func (f Feedback) IsBanner() bool { return f.Field == "" }

type action int

const (
	actionSignUp action = iota
	actionSignIn
	actionVerify
	actionResend
	actionProfile
)

const (
	msgDuplicate  = "An account with this email already exists"
	msgCheckInfo  = "Please check your information and try again."
	msgNoNetwork  = "Check your internet connection and try again."
	msgTechIssues = "We're experiencing technical issues. Try again later."
	msgGeneric    = "Something went wrong. Please try again."
)

var (
	bannerColor  = color.New(color.FgRed, color.Bold)
	fieldColor   = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	hintColor    = color.New(color.Faint)
)

// feedbackFor maps an action failure to exactly one user-facing message.
func feedbackFor(act action, err error) Feedback {
	if errors.Is(err, services.ErrStaleResponse) {
		return Feedback{Message: "The session changed before the server answered. Please try again."}
	}
	if errors.Is(err, session.ErrAlreadyVerified) {
		return Feedback{Message: "You are already signed in."}
	}
	if errors.Is(err, session.ErrNotVerified) {
		return Feedback{Message: "Please verify your email first."}
	}

	// rejected before any request was sent
	var apiErr *client.Error
	if errors.As(err, &apiErr) && apiErr.Status == 0 && errors.Is(err, client.ErrValidation) {
		return Feedback{Field: apiErr.Field, Message: apiErr.Message}
	}

	if act == actionResend {
		return Feedback{Message: "Failed to resend code. Try again."}
	}

	switch {
	case errors.Is(err, client.ErrDuplicateAccount):
		return Feedback{Field: "email", Message: msgDuplicate}
	case errors.Is(err, client.ErrInvalidCode):
		return Feedback{Field: "otp", Message: "Invalid verification code"}
	case errors.Is(err, client.ErrExpiredSession):
		return Feedback{Message: "This code has expired. Request a new one with 'resend'."}
	case errors.Is(err, client.ErrRateLimited):
		return Feedback{Message: rateLimitMessage(act)}
	case errors.Is(err, client.ErrServer):
		if act == actionSignUp {
			return Feedback{Message: "Service Unavailable. Try again later."}
		}
		return Feedback{Message: msgTechIssues}
	case errors.Is(err, client.ErrNetwork):
		return Feedback{Message: msgNoNetwork}
	case errors.Is(err, client.ErrValidation):
		if act == actionVerify {
			return Feedback{Message: "Verification failed. Please try again."}
		}
		return Feedback{Message: msgCheckInfo}
	}

	if act == actionVerify {
		return Feedback{Message: "Verification failed. Please try again."}
	}
	return Feedback{Message: msgGeneric}
}

func rateLimitMessage(act action) string {
	switch act {
	case actionSignUp:
		return "Too many signup attempts. Try again later."
	case actionSignIn:
		return "Too many login attempts. Please try again later."
	case actionProfile:
		return "Too many signup attempts. Please try again later."
	default:
		return "Too many attempts. Try again later."
	}
}

func printFeedback(w io.Writer, fb Feedback) {
	if fb.IsBanner() {
		bannerColor.Fprintln(w, "! "+fb.Message)
		return
	}
	fieldColor.Fprintln(w, fmt.Sprintf("%s: %s", fb.Field, fb.Message))
}

func printSuccess(w io.Writer, msg string) {
	successColor.Fprintln(w, msg)
}

func printHint(w io.Writer, msg string) {
	hintColor.Fprintln(w, msg)
}
