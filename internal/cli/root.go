// Package cli holds the dashboard's command line entry points.
package cli

import (
	"github.com/rogerio-castellano/wabot-dashboard/internal/config"
	"github.com/rogerio-castellano/wabot-dashboard/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configFile string
	settings   config.Settings
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wabot-dashboard",
		Short:         "Analytics dashboard for the WhatsApp commerce bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Load(configFile)
			if err != nil {
				return err
			}
			settings = s
			logger.Init(s.Log.Level, s.Log.Pretty)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")

	root.AddCommand(serveCmd(), overviewCmd(), insightsCmd())
	return root
}

func Execute() error {
	return newRootCmd().Execute()
}
