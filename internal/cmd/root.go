// Package cmd implements the CLI (Command Line Interface) of the application.
//
// ban steam - Ban a player from the CT team via steamid
// unban steam - Remove a players CT ban
// status - Show the CT ban status of a steamid
// migrate - Initiate a database migration manually
// serve - The main application service entry point
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	BuildVersion = "master" //nolint:gochecknoglobals
	cfgFile      string     //nolint:gochecknoglobals
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "ctbans",
	Short: "CT team ban management",
	Long:  ``,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	setupCLI()

	if errExecute := rootCmd.Execute(); errExecute != nil {
		os.Exit(1)
	}
}

func setupCLI() {
	rootCmd.Version = BuildVersion

	banRoot := banCmd()
	banRoot.AddCommand(banSteamCmd())
	rootCmd.AddCommand(banRoot)

	unbanRoot := unbanCmd()
	unbanRoot.AddCommand(unbanSteamCmd())
	rootCmd.AddCommand(unbanRoot)

	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(serveCmd())

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/ctbans.yml)")
}
