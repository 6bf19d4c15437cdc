package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cinelog/cinelog-server/internal/cli/client"
	"github.com/cinelog/cinelog-server/internal/cli/output"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Administer accounts (requires an admin profile)",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := cfg.GetProfile(profile)
		if err != nil {
			return err
		}

		c := client.New(p.ServerURL)
		accounts, err := c.ListAccounts(p.AccessToken)
		if err != nil {
			return fmt.Errorf("listing accounts: %w", err)
		}

		if outputFormat == "json" {
			return output.JSON(accounts)
		}

		table := output.NewTable("ID", "USERNAME", "EMAIL", "ROLE", "ACTIVE", "CREATED")
		for _, a := range accounts {
			table.AddRow(
				a.ID,
				a.Username,
				a.Email,
				a.Role,
				fmt.Sprintf("%t", a.Active),
				a.CreatedAt.Format("2006-01-02"),
			)
		}
		table.Render()
		output.Info("\n%d account(s)", len(accounts))
		return nil
	},
}

var userActivateCmd = &cobra.Command{
	Use:   "activate [account-id]",
	Short: "Reactivate a deactivated account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAccountActive(args[0], true)
	},
}

var userDeactivateCmd = &cobra.Command{
	Use:   "deactivate [account-id]",
	Short: "Deactivate an account so it can no longer log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAccountActive(args[0], false)
	},
}

func setAccountActive(accountID string, active bool) error {
	p, err := cfg.GetProfile(profile)
	if err != nil {
		return err
	}

	c := client.New(p.ServerURL)
	account, err := c.SetAccountActive(p.AccessToken, accountID, active)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	if active {
		output.Success("Account %s activated", account.Username)
	} else {
		output.Success("Account %s deactivated", account.Username)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userActivateCmd)
	userCmd.AddCommand(userDeactivateCmd)
}
