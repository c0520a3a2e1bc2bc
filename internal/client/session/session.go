// Package session holds the device's authentication state: who is signed
// in, the outstanding OTP challenge, and the email being typed. State lives
// in memory behind a mutex and is mirrored to a storage.Store by a single
// background writer. Observers are notified after every mutation.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/ridehail/internal/client/models"
	"github.com/dmitrijs2005/ridehail/internal/client/storage"
	"github.com/dmitrijs2005/ridehail/internal/common"
	"github.com/dmitrijs2005/ridehail/internal/logging"
)

// ErrStale is returned when a result arrives after the session it belongs
// to was logged out or re-hydrated.
var ErrStale = errors.New("session changed while the request was in flight")

// ErrAlreadyVerified is returned when a code is issued to a session that
// already holds a token.
var ErrAlreadyVerified = errors.New("session is already verified")

// ErrNotVerified is returned when an operation needs a token and the
// session has none.
var ErrNotVerified = errors.New("session is not verified")

// Option configures a Session.
type Option func(*Session)

// WithExpiryCheck makes Hydrate treat a persisted JWT whose exp is in the
// past as absent.
func WithExpiryCheck(enabled bool) Option {
	return func(s *Session) { s.checkExpiry = enabled }
}

// WithClock overrides the time source used by the expiry check.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is the single source of truth for authentication state. It is
// safe for concurrent use; a value is created per application and handed
// to whoever needs it.
type Session struct {
	mu           sync.Mutex
	state        State
	staged       *models.User
	pendingEmail string
	loading      bool
	generation   uint64

	observers map[int]func(Snapshot)
	nextID    int

	store       storage.Store
	log         logging.Logger
	writer      *writer
	checkExpiry bool
	now         func() time.Time
}

// New returns a session in the loading state. Call Hydrate once before
// trusting IsAuthenticated, and Close when done.
func New(store storage.Store, log logging.Logger, opts ...Option) *Session {
	s := &Session{
		state:     Anonymous{},
		loading:   true,
		observers: make(map[int]func(Snapshot)),
		store:     store,
		log:       log,
		writer:    newWriter(log),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate restores token and user from the store. It never fails: missing,
// unreadable, corrupt or partial data leaves the session anonymous. Clearing
// the loading flag is its last effect.
func (s *Session) Hydrate(ctx context.Context) {
	if err := s.writer.flush(ctx); err != nil {
		s.log.Warn(ctx, "hydrate: pending writes not drained", "error", err)
	}

	user, token, ok := s.readPersisted(ctx)

	s.mu.Lock()
	s.generation++
	switch {
	case ok:
		s.state = verifiedState(&user, token, needsProfile(&user))
		s.staged = nil
	case s.state.Phase() == PhaseCodeRequested:
		// an outstanding challenge is not persisted and survives a re-read
	default:
		s.state = Anonymous{}
		s.staged = nil
	}
	s.loading = false
	s.mu.Unlock()

	if ok {
		s.log.Info(ctx, "session restored", "email", user.Email)
	} else {
		s.log.Debug(ctx, "no persisted session")
	}
	s.notify()
}

func (s *Session) readPersisted(ctx context.Context) (models.User, string, bool) {
	token, hasToken, err := s.store.Get(ctx, common.TokenKey)
	if err != nil {
		s.log.Warn(ctx, "hydrate: token unreadable", "error", err)
		return models.User{}, "", false
	}
	raw, hasUser, err := s.store.Get(ctx, common.UserKey)
	if err != nil {
		s.log.Warn(ctx, "hydrate: user unreadable", "error", err)
		return models.User{}, "", false
	}
	if !hasToken || !hasUser || token == "" {
		return models.User{}, "", false
	}

	user, err := models.UnmarshalUser(raw)
	if err != nil {
		s.log.Warn(ctx, "hydrate: user record corrupt", "error", err)
		return models.User{}, "", false
	}

	if s.checkExpiry && tokenExpired(token, s.now()) {
		s.log.Info(ctx, "hydrate: persisted token expired", "email", user.Email)
		return models.User{}, "", false
	}
	return user, token, true
}

// SetEmail records the email being typed during signup or signin.
func (s *Session) SetEmail(email string) {
	s.mu.Lock()
	s.pendingEmail = email
	s.mu.Unlock()
	s.notify()
}

// SetOtpSession replaces the outstanding OTP challenge. A verified session
// cannot hold a challenge, so the call is ignored there.
func (s *Session) SetOtpSession(otp models.OtpSession) {
	s.mu.Lock()
	if _, _, ok := credentials(s.state); ok {
		s.mu.Unlock()
		s.log.Warn(context.Background(), "otp session ignored: already verified", "email", otp.Email)
		return
	}
	s.state = CodeRequested{OTP: otp}
	s.mu.Unlock()
	s.notify()
}

// ClearOtpSession drops the outstanding challenge, if any.
func (s *Session) ClearOtpSession() {
	s.mu.Lock()
	if _, ok := s.state.(CodeRequested); !ok {
		s.mu.Unlock()
		return
	}
	s.state = Anonymous{}
	s.mu.Unlock()
	s.notify()
}

// CodeIssued applies a successful code request made under generation gen:
// email becomes the pending email and otp the outstanding challenge.
func (s *Session) CodeIssued(gen uint64, email string, otp models.OtpSession) error {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return ErrStale
	}
	if _, _, ok := credentials(s.state); ok {
		s.mu.Unlock()
		return ErrAlreadyVerified
	}
	s.pendingEmail = email
	s.state = CodeRequested{OTP: otp}
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetUser replaces the user record and persists it. Before a token exists
// the record is held until SetToken; it does not authenticate on its own.
// A verified session keeps its phase.
func (s *Session) SetUser(u models.User) {
	s.mu.Lock()
	switch v := s.state.(type) {
	case NeedsProfile:
		s.state = NeedsProfile{User: &u, Token: v.Token}
	case Authenticated:
		s.state = Authenticated{User: &u, Token: v.Token}
	default:
		s.staged = &u
	}
	s.persistUser(u)
	s.mu.Unlock()
	s.notify()
}

// SetToken stores the access token, persists it and marks the session
// authenticated. An empty token is ignored.
func (s *Session) SetToken(token string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	user, _, ok := credentials(s.state)
	if !ok {
		user = s.staged
		s.staged = nil
	}
	s.state = verifiedState(user, token, needsProfile(user))
	s.writer.enqueue("set token", func(ctx context.Context) error {
		return s.store.Set(ctx, common.TokenKey, token)
	})
	s.mu.Unlock()
	s.notify()
}

// Login sets user and token together, persisting both in one write. An
// empty token is ignored, as in SetToken.
func (s *Session) Login(u models.User, token string) {
	if token == "" {
		s.log.Warn(context.Background(), "login ignored: empty token", "email", u.Email)
		return
	}
	s.mu.Lock()
	s.apply(&u, token, needsProfile(&u))
	s.mu.Unlock()
	s.notify()
}

// Verified applies a successful code verification made under generation
// gen. needsProfile alone decides between NeedsProfile and Authenticated.
func (s *Session) Verified(gen uint64, u models.User, token string, needsProfile bool) error {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return ErrStale
	}
	if token == "" {
		s.mu.Unlock()
		return fmt.Errorf("verified without a token: %w", ErrNotVerified)
	}
	s.apply(&u, token, needsProfile)
	s.mu.Unlock()
	s.notify()
	return nil
}

// ProfileCompleted applies a successful profile completion made under
// generation gen. An empty token keeps the current one.
func (s *Session) ProfileCompleted(gen uint64, u models.User, token string) error {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return ErrStale
	}
	if token == "" {
		_, token, _ = credentials(s.state)
	}
	if token == "" {
		s.mu.Unlock()
		return fmt.Errorf("profile completed without a token: %w", ErrNotVerified)
	}
	s.apply(&u, token, false)
	s.mu.Unlock()
	s.notify()
	return nil
}

// apply must be called with s.mu held.
func (s *Session) apply(u *models.User, token string, needsProfile bool) {
	s.state = verifiedState(u, token, needsProfile)
	s.staged = nil

	raw, err := models.MarshalUser(*u)
	if err != nil {
		s.log.Error(context.Background(), "user record not encodable", "error", err)
		return
	}
	s.writer.enqueue("login", func(ctx context.Context) error {
		return s.store.SetMany(ctx, map[string]string{
			common.TokenKey: token,
			common.UserKey:  raw,
		})
	})
}

// persistUser must be called with s.mu held.
func (s *Session) persistUser(u models.User) {
	raw, err := models.MarshalUser(u)
	if err != nil {
		s.log.Error(context.Background(), "user record not encodable", "error", err)
		return
	}
	s.writer.enqueue("set user", func(ctx context.Context) error {
		return s.store.Set(ctx, common.UserKey, raw)
	})
}

// Logout forgets everything, removes both persisted keys and invalidates
// results of requests still in flight.
func (s *Session) Logout() {
	s.mu.Lock()
	s.generation++
	s.state = Anonymous{}
	s.staged = nil
	s.pendingEmail = ""
	s.writer.enqueue("logout", func(ctx context.Context) error {
		return s.store.RemoveMany(ctx, common.TokenKey, common.UserKey)
	})
	s.mu.Unlock()
	s.notify()
}

// State returns the current tagged state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a flattened copy of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Phase:        s.state.Phase(),
		PendingEmail: s.pendingEmail,
		IsLoading:    s.loading,
		User:         s.staged,
	}
	switch v := s.state.(type) {
	case CodeRequested:
		otp := v.OTP
		snap.OtpSession = &otp
	case NeedsProfile, Authenticated:
		snap.User, snap.Token, _ = credentials(v)
		snap.IsAuthenticated = true
	}
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

// Token returns the access token, or "" when not authenticated.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, token, _ := credentials(s.state)
	return token
}

// Generation identifies the current session lifetime. It changes on Logout
// and Hydrate.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// OtpSession returns the outstanding challenge, if any.
func (s *Session) OtpSession() (models.OtpSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.state.(CodeRequested); ok {
		return v.OTP, true
	}
	return models.OtpSession{}, false
}

// KnownEmail is the email the device is working with: the pending email,
// else the challenge email, else the signed-in user's email.
func (s *Session) KnownEmail() string {
	snap := s.Snapshot()
	switch {
	case snap.PendingEmail != "":
		return snap.PendingEmail
	case snap.OtpSession != nil:
		return snap.OtpSession.Email
	case snap.User != nil:
		return snap.User.Email
	}
	return ""
}

// Subscribe registers fn to be called with a snapshot after every
// mutation. Calls happen on the mutating goroutine, in registration order.
func (s *Session) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.observers[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Flush waits until every persistence write issued so far has been applied.
func (s *Session) Flush(ctx context.Context) error {
	return s.writer.flush(ctx)
}

// Close drains pending writes and stops the writer. The store is not
// closed.
func (s *Session) Close() {
	s.writer.close()
}
