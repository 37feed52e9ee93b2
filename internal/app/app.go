// Package app wires host selection, the credential store and the PTY session
// into the fssh connect flow.
package app

import (
	"context"
	"errors"
	"fmt"

	"pkt.systems/pslog"

	"github.com/floegence/fssh/internal/sshconfig"
	"github.com/floegence/fssh/terminal"
)

// CredentialStore is the subset of credstore.Store the connect flow needs.
type CredentialStore interface {
	Get(target sshconfig.Target) (string, bool, error)
	Put(target sshconfig.Target, password string) error
	Delete(target sshconfig.Target) (bool, error)
}

// Result is what one interactive ssh session produced.
type Result struct {
	// Captured is the password typed at the last prompt before a login
	// banner, or "".
	Captured string
	Outcome  terminal.CaptureOutcome
	ExitErr  error
}

// Connector runs one interactive ssh session to target.
type Connector interface {
	Connect(ctx context.Context, target sshconfig.Target, candidate *string) (Result, error)
}

// Outcome reports what the connect flow did with the credential store.
type Outcome struct {
	Result    Result
	Stored    bool
	Forgotten bool
}

// App runs the connect flow.
type App struct {
	store     CredentialStore
	connector Connector
}

// New returns an App using store and connector.
func New(store CredentialStore, connector Connector) *App {
	return &App{store: store, connector: connector}
}

// Connect looks up a remembered password for target, runs the session with
// it, and updates the store from what the session observed.
func (a *App) Connect(ctx context.Context, target sshconfig.Target) (Outcome, error) {
	log := pslog.Ctx(ctx).With("host", target.Host, "user", target.User)

	var candidate *string
	password, ok, err := a.store.Get(target)
	switch {
	case err != nil:
		// An unreadable entry behaves like a missing one; a fresh capture replaces it.
		log.Warn("Ignoring stored password", "error", err)
	case ok:
		candidate = &password
		log.Debug("Using stored password")
	}

	res, err := a.connector.Connect(ctx, target, candidate)
	if err != nil {
		return Outcome{}, fmt.Errorf("connect to %s: %w", target.Host, err)
	}

	out := Outcome{Result: res}
	switch {
	case res.Captured != "" && (candidate == nil || res.Captured != *candidate):
		if err := a.store.Put(target, res.Captured); err != nil {
			return out, fmt.Errorf("store password: %w", err)
		}
		out.Stored = true
		log.Info("Stored password")
	case res.Outcome == terminal.OutcomeRejected:
		removed, err := a.store.Delete(target)
		if err != nil {
			return out, fmt.Errorf("forget password: %w", err)
		}
		out.Forgotten = removed
		log.Info("Forgot rejected password", "removed", removed)
	}
	return out, nil
}

// ErrUnknownHost is returned when a host alias is not in the ssh config.
var ErrUnknownHost = errors.New("host not found in ssh config")

// FindTarget returns the target with the given alias.
func FindTarget(targets []sshconfig.Target, host string) (sshconfig.Target, error) {
	for _, t := range targets {
		if t.Host == host {
			return t, nil
		}
	}
	return sshconfig.Target{}, fmt.Errorf("%w: %s", ErrUnknownHost, host)
}
