package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wallpix/backend/internal/cli/api"
	"github.com/wallpix/backend/internal/cli/config"
)

var (
	flagServerURL string

	cfg       *config.Config
	apiClient *api.Client
)

var rootCmd = &cobra.Command{
	Use:   "wallctl",
	Short: "Manage your wallpix drafts from the terminal",
	Long: `wallctl talks to a wallpix server: log in, list and delete drafts,
resolve share links, and manage plan upgrade requests.

Get started:
  wallctl login you@example.com    Authenticate with email and password
  wallctl drafts ls                List your saved drafts
  wallctl upgrade request pro      Ask an admin for a plan upgrade`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagServerURL != "" {
			cfg.ServerURL = flagServerURL
		}
		apiClient = api.NewClient(cfg.ServerURL, cfg.Token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServerURL, "server", "", "Override server URL (default: from config or http://localhost:8080)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
