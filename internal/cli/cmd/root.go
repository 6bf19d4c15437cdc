// Package cmd wires up the cinectl command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cinelog/cinelog-server/internal/cli/config"
)

var (
	cfgFile      string
	profile      string
	outputFormat string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cinectl",
	Short: "Command-line client for the CineLog server",
	Long: `cinectl talks to a CineLog server over its HTTP API.

It manages accounts and tokens through named profiles stored in
~/.cinelog/config.yaml, and can seed a development server with
realistic catalog activity.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.cinelog/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "default", "profile to use")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table or json)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config: %v\n", err)
		cfg = config.Default()
	}
}
