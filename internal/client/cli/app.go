package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/ridehail/internal/client/client"
	"github.com/dmitrijs2005/ridehail/internal/client/config"
	"github.com/dmitrijs2005/ridehail/internal/client/guard"
	"github.com/dmitrijs2005/ridehail/internal/client/services"
	"github.com/dmitrijs2005/ridehail/internal/client/session"
	"github.com/dmitrijs2005/ridehail/internal/client/storage"
	"github.com/dmitrijs2005/ridehail/internal/common"
	"github.com/dmitrijs2005/ridehail/internal/logging"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config   *config.Config
	session  *session.Session
	auth     services.AuthService
	in       lineSource
	out      io.Writer
	log      logging.Logger
	cooldown *cooldown

	// password chosen at signup, kept until the profile is completed
	password []byte

	closeStore func() error
}

// NewApp opens the session store at cfg.StorePath and wires the session,
// the HTTP client and the auth gateway.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.OpenSQLite(ctx, cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	var store storage.Store = db
	if cfg.StoreSecret != "" {
		sealed, err := storage.NewSealedStore(ctx, db, []byte(cfg.StoreSecret))
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("open sealed store: %w", err)
		}
		store = sealed
	}

	sess := session.New(store, log, session.WithExpiryCheck(cfg.CheckTokenExpiry))
	api := client.NewHTTPClient(cfg.ServerURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithTokenSource(sess.Token),
	)
	auth := services.NewAuthService(api, sess, log)

	return newApp(cfg, sess, auth, newAsyncLines(os.Stdin), os.Stdout, log, db.Close), nil
}

func newApp(cfg *config.Config, s *session.Session, auth services.AuthService, in lineSource, out io.Writer, log logging.Logger, closeStore func() error) *App {
	return &App{
		config:     cfg,
		session:    s,
		auth:       auth,
		in:         in,
		out:        out,
		log:        log,
		cooldown:   newCooldown(cfg.ResendCooldown),
		closeStore: closeStore,
	}
}

// Run restores the saved session, prints the reachable area and serves
// the REPL until the user quits or ctx is canceled. Pending session writes
// are flushed and the store is closed before Run returns.
func (a *App) Run(ctx context.Context) error {
	a.session.Hydrate(ctx)

	fmt.Fprintln(a.out, "Ridehail CLI (type 'help' for commands)")
	last := guard.Bootstrapping
	stop := guard.Watch(a.session, func(r guard.Region, _ session.Snapshot) {
		if r == last {
			return
		}
		last = r
		a.log.Debug(ctx, "area changed", "area", r.String())
		printHint(a.out, fmt.Sprintf("[%s area]", r))
	})
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runREPL(gctx, a, a.statusLine, a.in)
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})

	err := g.Wait()
	a.forgetPassword()
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.session.Flush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush session: %w", err))
	}
	a.session.Close()
	if a.closeStore != nil {
		if err := a.closeStore(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		a.log.Error(ctx, "shutdown", "error", err)
	}
	return err
}

func (a *App) forgetPassword() {
	common.WipeByteArray(a.password)
	a.password = nil
}

func (a *App) phase() session.Phase {
	return a.session.State().Phase()
}

// statusLine is the short prompt status, e.g. "code_requested am***@b.com".
func (a *App) statusLine() string {
	snap := a.session.Snapshot()
	switch {
	case snap.User != nil && snap.IsAuthenticated:
		return fmt.Sprintf("%s %s", snap.Phase, snap.User.Email)
	case snap.OtpSession != nil:
		return fmt.Sprintf("%s %s", snap.Phase, maskEmail(snap.OtpSession.Email))
	default:
		return string(snap.Phase)
	}
}
