package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cursortools/usage-agent/credentials"
	"github.com/cursortools/usage-agent/credentials/filerepo"
	"github.com/cursortools/usage-agent/internal/config"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cursor-usage",
	Short: "Track Cursor usage spend from the command line",
	Long: `cursor-usage manages a Cursor dashboard session credential and reports
usage spend: today's itemized cost, month-to-date on-demand spend and the
current billing cycle.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		displayAppName(config.New().GetAppName())
		_ = cmd.Help()
	}
	rootCmd.AddCommand(loginCmd, statusCmd, logoutCmd)
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func newCredentialRepo(cfg config.Config) credentials.Repo {
	return filerepo.NewFileRepo(cfg.GetDataFolder())
}

func displayAppName(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
