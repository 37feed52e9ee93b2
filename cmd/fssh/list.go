package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/floegence/fssh/internal/appconfig"
	"github.com/floegence/fssh/internal/credstore"
	"github.com/floegence/fssh/internal/sshconfig"
)

func newListCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List connectable hosts and whether a password is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(*cfgPath)
			if err != nil {
				return err
			}
			targets, err := sshconfig.LoadFile(cfg.SSH.ConfigPath, sshconfig.CurrentUser())
			if err != nil {
				return err
			}

			store, err := credstore.Open(cfg.Store.Dir)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List()
			if err != nil {
				return err
			}
			stored := make(map[sshconfig.Target]struct{}, len(entries))
			for _, e := range entries {
				stored[e.Target] = struct{}{}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "HOST\tUSER\tHOSTNAME\tPASSWORD")
			for _, t := range targets {
				mark := "-"
				if _, ok := stored[t]; ok {
					mark = "stored"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Host, t.User, t.HostName, mark)
			}
			return tw.Flush()
		},
	}
}
