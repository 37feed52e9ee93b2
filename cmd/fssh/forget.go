package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/floegence/fssh/internal/appconfig"
	"github.com/floegence/fssh/internal/credstore"
)

func newForgetCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <host>",
		Short: "Delete stored passwords for a host alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(*cfgPath)
			if err != nil {
				return err
			}
			store, err := credstore.Open(cfg.Store.Dir)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.DeleteHost(args[0])
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("no stored password for %s", args[0])
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "forgot %d password(s) for %s\n", n, args[0])
			return nil
		},
	}
}
