package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cinelog/cinelog-server/internal/cli/client"
	"github.com/cinelog/cinelog-server/internal/cli/output"
)

var (
	authUsername  string
	authEmail     string
	authPassword  string
	authServerURL string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Register, log in, and manage tokens",
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and store its tokens in the active profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		serverURL := resolveServerURL()

		c := client.New(serverURL)
		resp, err := c.Register(authUsername, authEmail, authPassword)
		if err != nil {
			return fmt.Errorf("register failed: %w", err)
		}

		if err := cfg.SaveProfile(profile, serverURL, resp.AccessToken, resp.RefreshToken); err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}

		output.Success("Account %s created", resp.Account.Username)
		output.Info("Tokens stored in profile '%s'", profile)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store tokens in the active profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		serverURL := resolveServerURL()

		c := client.New(serverURL)
		resp, err := c.Login(authEmail, authPassword)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		if err := cfg.SaveProfile(profile, serverURL, resp.AccessToken, resp.RefreshToken); err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}

		output.Success("Logged in as %s", resp.Account.Username)
		output.Info("Tokens stored in profile '%s'", profile)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the stored refresh token and forget the profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := cfg.GetProfile(profile)
		if err != nil {
			return err
		}

		// Revoke server side first. A failure is not fatal; the local
		// tokens are removed either way.
		c := client.New(p.ServerURL)
		if err := c.Logout(p.AccessToken, p.RefreshToken); err != nil {
			output.Warn("Server-side logout failed: %v", err)
		}

		if err := cfg.RemoveProfile(profile); err != nil {
			return fmt.Errorf("removing profile: %w", err)
		}

		output.Success("Logged out of profile '%s'", profile)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account the active profile is logged in as",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := cfg.GetProfile(profile)
		if err != nil {
			return err
		}

		c := client.New(p.ServerURL)
		account, err := c.Me(p.AccessToken)
		if err != nil {
			return fmt.Errorf("fetching account: %w", err)
		}

		if outputFormat == "json" {
			return output.JSON(account)
		}

		table := output.NewTable("FIELD", "VALUE")
		table.AddRow("ID", account.ID)
		table.AddRow("Username", account.Username)
		table.AddRow("Email", account.Email)
		table.AddRow("Role", account.Role)
		table.AddRow("Active", fmt.Sprintf("%t", account.Active))
		table.AddRow("Created", account.CreatedAt.Format("2006-01-02 15:04:05"))
		table.Render()
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rotate the stored refresh token",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := cfg.GetProfile(profile)
		if err != nil {
			return err
		}

		c := client.New(p.ServerURL)
		pair, err := c.Refresh(p.RefreshToken)
		if err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}

		if err := cfg.UpdateTokens(profile, pair.AccessToken, pair.RefreshToken); err != nil {
			return fmt.Errorf("saving tokens: %w", err)
		}

		output.Success("Tokens refreshed")
		return nil
	},
}

// resolveServerURL prefers the --server-url flag over the profile and
// environment.
func resolveServerURL() string {
	if authServerURL != "" {
		return authServerURL
	}
	return cfg.GetServerURL(profile)
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)
	authCmd.AddCommand(refreshCmd)

	registerCmd.Flags().StringVarP(&authUsername, "username", "u", "", "username for the new account")
	registerCmd.Flags().StringVarP(&authEmail, "email", "e", "", "email address")
	registerCmd.Flags().StringVarP(&authPassword, "password", "p", "", "password")
	registerCmd.Flags().StringVar(&authServerURL, "server-url", "", "server URL (overrides profile)")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringVarP(&authEmail, "email", "e", "", "email address")
	loginCmd.Flags().StringVarP(&authPassword, "password", "p", "", "password")
	loginCmd.Flags().StringVar(&authServerURL, "server-url", "", "server URL (overrides profile)")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")
}
