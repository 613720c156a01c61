package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/linesmerrill/case-tracker-api/casefile"
	"github.com/linesmerrill/case-tracker-api/dates"
	"github.com/linesmerrill/case-tracker-api/deadline"
	"github.com/linesmerrill/case-tracker-api/report"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts <case.json>",
	Short: "Print the chargesheet deadline alerts of a case",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlerts,
}

func runAlerts(cmd *cobra.Command, args []string) error {
	c, err := loadCase(args[0])
	if err != nil {
		return err
	}
	clk, err := clock(time.Now)
	if err != nil {
		return err
	}
	printAlerts(cmd.OutOrStdout(), clk, c)
	return nil
}

func printAlerts(w io.Writer, clk deadline.Clock, c casefile.Case) {
	fmt.Fprintf(w, "Case %s/%d (%s)\n", c.CaseNo, c.Year, c.Decision())
	if alert := deadline.ForCase(clk, c); alert != nil {
		fmt.Fprintf(w, "  deadline %s, %s\n", dates.FormatDate(alert.DeadlineDate), report.Remaining(alert))
	} else {
		fmt.Fprintln(w, "  no pending deadline")
	}
	for _, a := range deadline.ForEachAccused(clk, c) {
		line := fmt.Sprintf("  - %s [%s]", a.Name, a.Status)
		if a.Alert != nil {
			line += fmt.Sprintf(" deadline %s, %s", dates.FormatDate(a.Alert.DeadlineDate), report.Remaining(a.Alert))
		}
		if a.Tier.Level != deadline.TierNone {
			line += fmt.Sprintf(" (%s, day %d of %d)", a.Tier.Level, a.Tier.ElapsedDays, a.Tier.LimitDays)
		}
		fmt.Fprintln(w, line)
	}
}
