package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wallpix/backend/internal/cli/api"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Manage plan upgrade requests",
}

var upgradeRequestCmd = &cobra.Command{
	Use:   "request <plan>",
	Short: "Request an upgrade to pro or pro_max",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp api.Response[map[string]interface{}]
		err := apiClient.Post("/upgrade/", map[string]string{"plan": args[0]}, &resp)
		if err != nil {
			return err
		}
		fmt.Printf("Upgrade to %s requested; awaiting admin approval.\n", args[0])
		return nil
	},
}

var upgradeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your most recent upgrade request",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp api.Response[api.UpgradeStatus]
		if err := apiClient.Get("/upgrade/status", &resp); err != nil {
			return err
		}
		if resp.Data.Status == "none" {
			fmt.Println("No upgrade request on file.")
			return nil
		}
		fmt.Printf("%s (requested plan: %s)\n", resp.Data.Status, resp.Data.RequestedPlan)
		return nil
	},
}

var upgradeCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel your pending upgrade request",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient.Delete("/upgrade/", nil); err != nil {
			return err
		}
		fmt.Println("Cancelled.")
		return nil
	},
}

func init() {
	upgradeCmd.AddCommand(upgradeRequestCmd)
	upgradeCmd.AddCommand(upgradeStatusCmd)
	upgradeCmd.AddCommand(upgradeCancelCmd)
	rootCmd.AddCommand(upgradeCmd)
}
