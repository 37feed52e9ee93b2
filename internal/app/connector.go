package app

import (
	"context"
	"fmt"
	"time"

	"pkt.systems/pslog"

	"github.com/floegence/fssh/internal/appconfig"
	"github.com/floegence/fssh/internal/sshconfig"
	"github.com/floegence/fssh/internal/tui"
	"github.com/floegence/fssh/terminal"
)

// Surface is a terminal.Surface that must be released after use.
type Surface interface {
	terminal.Surface
	Close()
}

// PTYConnector runs the ssh client in a PTY rendered on a Surface.
type PTYConnector struct {
	SSH     appconfig.SSHConfig
	Session terminal.Config
	// NewSurface opens the surface for one session. It defaults to a tcell screen.
	NewSurface func() (Surface, error)
}

// Connect runs `<binary> <args...> <host>` until it exits.
func (c *PTYConnector) Connect(ctx context.Context, target sshconfig.Target, candidate *string) (Result, error) {
	newSurface := c.NewSurface
	if newSurface == nil {
		newSurface = func() (Surface, error) { return tui.New() }
	}

	surface, err := newSurface()
	if err != nil {
		return Result{}, fmt.Errorf("open terminal: %w", err)
	}
	defer surface.Close()

	size, err := surface.Size()
	if err != nil {
		return Result{}, fmt.Errorf("read terminal size: %w", err)
	}

	args := make([]string, 0, len(c.SSH.Args)+1)
	args = append(args, c.SSH.Args...)
	args = append(args, target.Host)
	spec := terminal.CommandSpec{Program: c.SSH.Binary, Args: args, Env: c.SSH.Env}

	cfg := c.Session
	log := pslog.Ctx(ctx).With("host", target.Host)
	cfg.Logger = log

	session, err := terminal.NewSession(size, spec, candidate, cfg)
	if err != nil {
		return Result{}, err
	}
	defer session.Close()

	captured, err := session.Run(ctx, surface)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Captured: captured,
		Outcome:  session.PasswordOutcome(),
		ExitErr:  session.ExitErr(),
	}
	log.Info("Session ended", "outcome", res.Outcome.String(), "captured", captured != "", "exit", res.ExitErr)
	return res, nil
}

// SessionConfig maps application settings onto terminal.Config. Zero values
// keep the terminal defaults.
func SessionConfig(cfg appconfig.Config) terminal.Config {
	s := cfg.Session
	out := terminal.Config{
		Markers: terminal.Markers{
			Prompt:         cfg.Markers.Prompt,
			Denied:         cfg.Markers.Denied,
			LoginBanner:    cfg.Markers.LoginBanner,
			OutdatedNotice: cfg.Markers.OutdatedNotice,
		},
		InputQueueSize:        s.InputQueueSize,
		ReadChunkSize:         s.ReadChunkSize,
		OutputTranscriptLimit: s.OutputTranscriptLimit,
		InputTranscriptLimit:  s.InputTranscriptLimit,
		PollInterval:          time.Duration(s.PollIntervalMS) * time.Millisecond,
		ExitGrace:             time.Duration(s.ExitGraceMS) * time.Millisecond,
	}
	if s.Term != "" {
		out.TerminalEnv = terminal.TerminalEnv{Term: s.Term, ColorTerm: "truecolor"}
	}
	return out
}
