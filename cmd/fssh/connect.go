package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/floegence/fssh/internal/app"
	"github.com/floegence/fssh/internal/appconfig"
	"github.com/floegence/fssh/internal/credstore"
	"github.com/floegence/fssh/internal/sshconfig"
)

func newConnectCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "connect <host>",
		Short: "Connect to a host alias from the ssh config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, *cfgPath, args[0])
		},
	}
}

// runInteractive connects to host, or lets the user pick one when host is empty.
func runInteractive(cmd *cobra.Command, cfgPath, host string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("fssh needs an interactive terminal")
	}

	cfg, err := appconfig.Load(cfgPath)
	if err != nil {
		return err
	}
	targets, err := sshconfig.LoadFile(cfg.SSH.ConfigPath, sshconfig.CurrentUser())
	if err != nil {
		return err
	}

	var target sshconfig.Target
	if host != "" {
		target, err = app.FindTarget(targets, host)
		if err != nil {
			return err
		}
	} else {
		var ok bool
		target, ok, err = app.SelectTarget(targets)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	ctx, closeLog, err := withFileLogger(cmd.Context(), cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	return connect(ctx, cmd, cfg, target)
}

func connect(ctx context.Context, cmd *cobra.Command, cfg appconfig.Config, target sshconfig.Target) error {
	store, err := credstore.Open(cfg.Store.Dir)
	if err != nil {
		return err
	}
	defer store.Close()

	connector := &app.PTYConnector{
		SSH:     cfg.SSH,
		Session: app.SessionConfig(cfg),
	}
	out, err := app.New(store, connector).Connect(ctx, target)
	if err != nil {
		return err
	}

	w := cmd.ErrOrStderr()
	switch {
	case out.Stored:
		_, _ = fmt.Fprintf(w, "fssh: saved password for %s\n", target.Host)
	case out.Forgotten:
		_, _ = fmt.Fprintf(w, "fssh: forgot outdated password for %s\n", target.Host)
	}
	return nil
}
