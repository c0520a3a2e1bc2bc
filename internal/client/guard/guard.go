// Package guard decides which top-level area of the client is reachable.
package guard

import "github.com/dmitrijs2005/ridehail/internal/client/session"

type Region int

const (
	// Bootstrapping means hydration has not finished; nothing is reachable.
	Bootstrapping Region = iota
	AuthenticatedArea
	UnauthenticatedArea
)

func (r Region) String() string {
	switch r {
	case Bootstrapping:
		return "bootstrapping"
	case AuthenticatedArea:
		return "authenticated"
	case UnauthenticatedArea:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Resolve maps the two session flags to a region. Loading wins.
func Resolve(isAuthenticated, isLoading bool) Region {
	switch {
	case isLoading:
		return Bootstrapping
	case isAuthenticated:
		return AuthenticatedArea
	default:
		return UnauthenticatedArea
	}
}

func ForSnapshot(snap session.Snapshot) Region {
	return Resolve(snap.IsAuthenticated, snap.IsLoading)
}

// Watch calls fn with the current region and again, synchronously, after
// every session change. fn sees every change, including ones that keep the
// region the same. Call stop to unsubscribe.
func Watch(s *session.Session, fn func(Region, session.Snapshot)) (stop func()) {
	stop = s.Subscribe(func(snap session.Snapshot) {
		fn(ForSnapshot(snap), snap)
	})
	snap := s.Snapshot()
	fn(ForSnapshot(snap), snap)
	return stop
}
