package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wallpix/backend/internal/cli/api"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Manage your saved drafts",
}

var draftsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List your drafts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp api.Response[[]api.Draft]
		if err := apiClient.Get("/drafts/", &resp); err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			fmt.Println("No drafts.")
			return nil
		}
		for _, draft := range resp.Data {
			fmt.Printf("%s  %s  (%d bytes)\n", draft.ID, draft.UpdatedAt, len(draft.Data))
		}
		return nil
	},
}

var draftsRmCmd = &cobra.Command{
	Use:   "rm <draft-id>",
	Short: "Delete one of your drafts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient.Delete("/drafts/"+args[0], nil); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

func init() {
	draftsCmd.AddCommand(draftsLsCmd)
	draftsCmd.AddCommand(draftsRmCmd)
	rootCmd.AddCommand(draftsCmd)
}
