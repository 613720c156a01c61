// Package register exports the case register as an Excel workbook.
package register

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/linesmerrill/case-tracker-api/casefile"
	"github.com/linesmerrill/case-tracker-api/dates"
	"github.com/linesmerrill/case-tracker-api/deadline"
	"github.com/linesmerrill/case-tracker-api/report"
)

// SheetName is the name of the single register sheet
const SheetName = "Cases"

// Filename is the download name of the workbook
const Filename = "case_register.xlsx"

// Columns of the register, in order
var Columns = []string{
	"Case No", "Year", "Police Station", "Crime Head", "Section",
	"Case Status", "Priority", "Decision Status", "Accused",
	"Earliest Arrest", "Deadline (days)", "Deadline Date", "Days Remaining",
	"Final Chargesheet Submitted",
}

// Build creates the register workbook with one row per case
func Build(cases []casefile.Case, clk deadline.Clock) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return nil, err
	}

	for r, c := range cases {
		for i, v := range row(c, clk) {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(Columns))
	_ = f.SetColWidth(SheetName, "A", lastCol, 18)
	return f, nil
}

// Write builds the register and writes it to w
func Write(w io.Writer, cases []casefile.Case, clk deadline.Clock) error {
	f, err := Build(cases, clk)
	if err != nil {
		return fmt.Errorf("failed to build register: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write register: %w", err)
	}
	return nil
}

func row(c casefile.Case, clk deadline.Clock) []interface{} {
	arrest, deadlineDate, remaining := dates.Placeholder, dates.Placeholder, dates.Placeholder
	if a := deadline.ForCase(clk, c); a != nil {
		arrest = dates.FormatDate(a.ArrestDate)
		deadlineDate = dates.FormatDate(a.DeadlineDate)
		remaining = report.Remaining(a)
	}
	submitted := "No"
	if c.FinalChargesheetSubmitted {
		submitted = "Yes"
	}
	var year interface{} = c.Year
	if c.Year == 0 {
		year = dates.Placeholder
	}
	return []interface{}{
		c.CaseNo, year, c.PoliceStation, c.CrimeHead, c.Section,
		c.CaseStatus, c.Priority, string(c.Decision()), len(c.Accused),
		arrest, c.DeadlineDays, deadlineDate, remaining,
		submitted,
	}
}
