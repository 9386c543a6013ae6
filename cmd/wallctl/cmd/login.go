package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wallpix/backend/internal/cli/api"
	"github.com/wallpix/backend/internal/cli/config"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Authenticate with your wallpix server",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	var resp api.Response[struct {
		Token string   `json:"token"`
		User  api.User `json:"user"`
	}]
	err = apiClient.Post("/auth/login", map[string]string{
		"email":    args[0],
		"password": string(password),
	}, &resp)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg.Token = resp.Data.Token
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("Logged in as %s (plan: %s)\n", resp.Data.User.Email, resp.Data.User.Plan)
	return nil
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp api.Response[api.User]
		if err := apiClient.Get("/auth/me", &resp); err != nil {
			return err
		}
		role := "user"
		if resp.Data.IsAdmin {
			role = "admin"
		}
		fmt.Printf("%s (%s, plan: %s)\n", resp.Data.Email, role, resp.Data.Plan)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
