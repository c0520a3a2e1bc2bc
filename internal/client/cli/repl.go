package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/ridehail/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// errQuit ends the REPL on "exit", "quit" or end of input.
var errQuit = errors.New("quit")

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	phase() session.Phase
	SignUp(ctx context.Context) error
	SignIn(ctx context.Context) error
	Verify(ctx context.Context) error
	Resend(ctx context.Context) error
	Profile(ctx context.Context) error
	Status(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the ridehail CLI.
//
// It reads a line from in, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop returns errQuit on end of input or when the user types
// "exit" or "quit", and ctx.Err() when ctx ends while waiting for input.
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Anonymous:
//	  - signup         create an account with an emailed code
//	  - signin         sign in with an emailed code
//
//	Code requested:
//	  - verify         enter the 6-digit code
//	  - resend         request a new code once the cool-down is over
//
//	Needs profile:
//	  - profile        name, phone and password
//
//	Always:
//	  - status         show the session
//	  - logout         forget the session
//	  - help           show available commands
//	  - exit | quit    leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// their own failures. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in lineSource) error {
	for {
		printlnFn(fmt.Sprintf("ridehail (%s)> ", statusFn()))
		line, err := in.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errQuit
			}
			return err
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: " + strings.Join(commandsFor(a.phase()), ", "))

		case "signup":
			_ = a.SignUp(ctx)

		case "signin", "login":
			_ = a.SignIn(ctx)

		case "verify":
			_ = a.Verify(ctx)

		case "resend":
			_ = a.Resend(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "status":
			_ = a.Status(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return errQuit

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func commandsFor(p session.Phase) []string {
	switch p {
	case session.PhaseCodeRequested:
		return []string{"verify", "resend", "signup", "signin", "status", "exit"}
	case session.PhaseNeedsProfile:
		return []string{"profile", "status", "logout", "exit"}
	case session.PhaseAuthenticated:
		return []string{"status", "logout", "exit"}
	default:
		return []string{"signup", "signin", "status", "exit"}
	}
}
