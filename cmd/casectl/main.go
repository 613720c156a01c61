// Command casectl computes deadline alerts and renders case reports from
// exported case documents, without a running API.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/logging"
)

var (
	timezone string
	nowFlag  string
)

var rootCmd = &cobra.Command{
	Use:           "casectl",
	Short:         "Offline tools for case documents",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.New(os.Getenv("ENV"))
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&timezone, "tz", "Asia/Kolkata", "IANA timezone that defines midnight")
	rootCmd.PersistentFlags().StringVar(&nowFlag, "now", "", "evaluate as of this date (YYYY-MM-DD) instead of today")

	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		zap.S().Error(err)
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
