package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cinelog/cinelog-server/internal/cli/seeder"
)

var (
	seedAccounts  int
	seedReviews   int
	seedListItems int
	seedPassword  string
	seedServerURL string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill a development server with fake accounts and activity",
	Long: `Seed registers fake accounts on the target server, then posts
reviews and list items as each of them. Meant for development and demo
environments only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverURL := seedServerURL
		if serverURL == "" {
			serverURL = cfg.GetServerURL(profile)
		}

		runner := seeder.NewRunner(seeder.Config{
			ServerURL: serverURL,
			Accounts:  seedAccounts,
			Reviews:   seedReviews,
			ListItems: seedListItems,
			Password:  seedPassword,
		})
		return runner.Run()
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVar(&seedAccounts, "accounts", 10, "number of accounts to create")
	seedCmd.Flags().IntVar(&seedReviews, "reviews", 5, "reviews to post per account")
	seedCmd.Flags().IntVar(&seedListItems, "list-items", 8, "list items to add per account")
	seedCmd.Flags().StringVar(&seedPassword, "password", "password123", "password for all seeded accounts")
	seedCmd.Flags().StringVar(&seedServerURL, "server-url", "", "server URL (overrides profile)")
}
