// Package cli provides the interactive ridehail command-line client.
//
// It wires configuration, the session store, the auth API client and the
// auth gateway into a REPL. Typical flow: restore the saved session, print
// the reachable area, then sign up or sign in with an emailed code and
// complete the profile.
//
// Key features:
//   - signup / signin: request a code, then verify it
//   - verify / resend: enter the code, or request a new one after a cool-down
//   - profile: name, phone and password for a freshly verified account
//   - status / logout
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or ctx is canceled. See App and runREPL for details.
package cli
