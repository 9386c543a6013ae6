package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wallpix/backend/internal/cli/api"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Work with share links",
}

var shareResolveCmd = &cobra.Command{
	Use:   "resolve <token>",
	Short: "Resolve a share token (no authentication required)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp api.Response[api.ShareView]
		if err := apiClient.Get("/shared/"+args[0], &resp); err != nil {
			return err
		}
		fmt.Printf("Draft %s by %s\n", resp.Data.ID, resp.Data.OwnerEmail)
		fmt.Println(string(resp.Data.Data))
		return nil
	},
}

func init() {
	shareCmd.AddCommand(shareResolveCmd)
	rootCmd.AddCommand(shareCmd)
}
