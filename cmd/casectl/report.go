package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/report"
	"github.com/linesmerrill/case-tracker-api/report/document"
)

var (
	notesPath string
	outDir    string
)

var reportCmd = &cobra.Command{
	Use:   "report <case.json>",
	Short: "Render the PDF report of a case",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&notesPath, "notes", "", "JSON array of the case notes")
	reportCmd.Flags().StringVar(&outDir, "out", ".", "directory to write the report to")
}

func runReport(cmd *cobra.Command, args []string) error {
	c, err := loadCase(args[0])
	if err != nil {
		return err
	}
	notes, err := loadNotes(notesPath)
	if err != nil {
		return err
	}
	clk, err := clock(time.Now)
	if err != nil {
		return err
	}

	path := filepath.Join(outDir, report.Filename(c.CaseNo, c.Year))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	title := fmt.Sprintf("Case Report: %s/%d", c.CaseNo, c.Year)
	if err := document.Generate(f, title, report.Assemble(c, notes, clk), clk.Now, clk.Location); err != nil {
		return err
	}
	zap.S().Debugw("report written", "path", path)
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
