package session

import "github.com/dmitrijs2005/ridehail/internal/client/models"

// Phase names the authentication step a device is in.
type Phase string

const (
	PhaseAnonymous     Phase = "anonymous"
	PhaseCodeRequested Phase = "code_requested"
	PhaseNeedsProfile  Phase = "needs_profile"
	PhaseAuthenticated Phase = "authenticated"
)

// State is the tagged authentication state. Exactly one of Anonymous,
// CodeRequested, NeedsProfile and Authenticated is current at any time, so
// an outstanding OTP challenge and a token can never coexist.
type State interface {
	Phase() Phase
	isState()
}

type Anonymous struct{}

// CodeRequested holds the outstanding OTP challenge.
type CodeRequested struct {
	OTP models.OtpSession
}

// NeedsProfile is a verified device whose account still lacks a profile.
// User is nil only if a token was set before any user record.
type NeedsProfile struct {
	User  *models.User
	Token string
}

type Authenticated struct {
	User  *models.User
	Token string
}

func (Anonymous) Phase() Phase     { return PhaseAnonymous }
func (CodeRequested) Phase() Phase { return PhaseCodeRequested }
func (NeedsProfile) Phase() Phase  { return PhaseNeedsProfile }
func (Authenticated) Phase() Phase { return PhaseAuthenticated }

func (Anonymous) isState()     {}
func (CodeRequested) isState() {}
func (NeedsProfile) isState()  {}
func (Authenticated) isState() {}

// credentials returns the user and token of a verified state.
func credentials(st State) (*models.User, string, bool) {
	switch v := st.(type) {
	case NeedsProfile:
		return v.User, v.Token, true
	case Authenticated:
		return v.User, v.Token, true
	default:
		return nil, "", false
	}
}

// verifiedState picks NeedsProfile or Authenticated for the given flag.
func verifiedState(u *models.User, token string, needsProfile bool) State {
	if needsProfile {
		return NeedsProfile{User: u, Token: token}
	}
	return Authenticated{User: u, Token: token}
}

// needsProfile derives profile completeness from the record itself; used
// when no explicit needsProfile flag came with the credentials.
func needsProfile(u *models.User) bool {
	return u != nil && !u.ProfileCompleted
}

// Snapshot is a read-only view of the session, flattened for renderers.
type Snapshot struct {
	Phase           Phase
	User            *models.User
	Token           string
	IsAuthenticated bool
	OtpSession      *models.OtpSession
	PendingEmail    string
	IsLoading       bool
}
