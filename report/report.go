// Package report flattens a case and its notes into the ordered list of
// sections shown in the case detail tabs and printed in the PDF report. Both
// renderers consume the same []Section so their content cannot drift apart.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/linesmerrill/case-tracker-api/casefile"
	"github.com/linesmerrill/case-tracker-api/dates"
	"github.com/linesmerrill/case-tracker-api/deadline"
	"github.com/linesmerrill/case-tracker-api/models"
)

// Row is a single label/value line
type Row struct {
	Label string                `json:"label"`
	Value string                `json:"value"`
	File  *models.FileReference `json:"file"`
}

// Section is a titled group of rows and nested subsections
type Section struct {
	Title       string    `json:"title"`
	Rows        []Row     `json:"rows,omitempty"`
	Subsections []Section `json:"subsections,omitempty"`
}

// Section titles, in output order
const (
	TitleCaseDetails  = "Case Details"
	TitleDeadline     = "Chargesheet Deadline"
	TitleAccused      = "Accused Persons"
	TitleSPReports    = "SP Reports"
	TitleDSPReports   = "DSP Reports"
	TitleSanction     = "Prosecution Sanction"
	TitleFSL          = "FSL"
	TitleInjuryReport = "Injury Report"
	TitlePMReport     = "Post Mortem Report"
	TitleCompensation = "Compensation"
	TitleNotes        = "Notes"

	TitleNotice41A    = "41A Notice"
	TitleWarrant      = "Warrant"
	TitleProclamation = "Proclamation"
	TitleAttachment   = "Attachment"
)

// Assemble builds the report sections for c. Gated sub-records whose gate is
// closed, and report or note lists with no entries, produce no section at
// all.
func Assemble(c casefile.Case, notes []casefile.Note, clk deadline.Clock) []Section {
	sections := []Section{caseDetails(c)}

	if alert := deadline.ForCase(clk, c); alert != nil {
		sections = append(sections, deadlineSection(alert))
	}
	if len(c.Accused) > 0 {
		sections = append(sections, accusedSection(clk, c))
	}
	if s, ok := reportSection(TitleSPReports, c.SPReports); ok {
		sections = append(sections, s)
	}
	if s, ok := reportSection(TitleDSPReports, c.DSPReports); ok {
		sections = append(sections, s)
	}
	if c.Sanction != nil {
		sections = append(sections, Section{Title: TitleSanction, Rows: compact(
			Row{Label: "Prayer Date", Value: dates.FormatDate(c.Sanction.PrayerDate)},
			Row{Label: "Receipt Date", Value: dates.FormatDate(c.Sanction.ReceiptDate)},
			optional("Authority", c.Sanction.Authority),
			fileRow(c.Sanction.File),
		)})
	}
	if len(c.FSL) > 0 {
		sections = append(sections, fslSection(c.FSL))
	}
	if c.InjuryReport != nil {
		sections = append(sections, medicalSection(TitleInjuryReport, c.InjuryReport))
	}
	if c.PMReport != nil {
		sections = append(sections, medicalSection(TitlePMReport, c.PMReport))
	}
	if c.Compensation != nil {
		amount := ""
		if c.Compensation.Amount > 0 {
			amount = strconv.FormatFloat(c.Compensation.Amount, 'f', 2, 64)
		}
		sections = append(sections, Section{Title: TitleCompensation, Rows: compact(
			Row{Label: "Date", Value: dates.FormatDate(c.Compensation.Date)},
			optional("Amount", amount),
			fileRow(c.Compensation.File),
		)})
	}
	if len(notes) > 0 {
		sections = append(sections, notesSection(notes, clk))
	}
	return sections
}

// Filename is the download name of the generated PDF
func Filename(caseNo string, year int) string {
	return fmt.Sprintf("Case_%s_%d_Report.pdf", caseNo, year)
}

func caseDetails(c casefile.Case) Section {
	rows := []Row{
		{Label: "Case No", Value: placeholder(c.CaseNo)},
		{Label: "Year", Value: yearValue(c.Year)},
		{Label: "Police Station", Value: placeholder(c.PoliceStation)},
		{Label: "Crime Head", Value: placeholder(c.CrimeHead)},
		{Label: "Section", Value: placeholder(c.Section)},
		{Label: "Punishment Category", Value: placeholder(c.PunishmentCategory)},
		{Label: "Case Status", Value: placeholder(c.CaseStatus)},
		{Label: "Investigation Status", Value: placeholder(c.InvestigationStatus)},
		{Label: "Priority", Value: placeholder(c.Priority)},
		{Label: "SR/NSR", Value: placeholder(c.SrNsr)},
		{Label: "Decision Status", Value: string(c.Decision())},
		{Label: "Chargesheet Deadline", Value: fmt.Sprintf("%d days", c.DeadlineDays)},
		{Label: "Final Chargesheet Submitted", Value: yesNo(c.FinalChargesheetSubmitted)},
	}
	if c.FinalChargesheetSubmitted {
		rows = append(rows, Row{Label: "Final Chargesheet Submission Date", Value: dates.FormatDate(c.FinalChargesheetSubmissionDate)})
	}
	if c.Reason != "" {
		rows = append(rows, Row{Label: "Reason", Value: c.Reason})
	}
	return Section{Title: TitleCaseDetails, Rows: rows}
}

func deadlineSection(a *deadline.Alert) Section {
	return Section{Title: TitleDeadline, Rows: []Row{
		{Label: "Earliest Arrest Date", Value: dates.FormatDate(a.ArrestDate)},
		{Label: "Deadline Date", Value: dates.FormatDate(a.DeadlineDate)},
		{Label: "Days Remaining", Value: Remaining(a)},
	}}
}

func accusedSection(clk deadline.Clock, c casefile.Case) Section {
	s := Section{Title: TitleAccused}
	for i, a := range c.Accused {
		sub := Section{
			Title: fmt.Sprintf("Accused %d: %s", i+1, placeholder(a.Name)),
			Rows: compact(
				Row{Label: "Name", Value: placeholder(a.Name)},
				optional("Father's Name", a.FatherName),
				optional("Age", ageValue(a.Age)),
				optional("Address", a.Address),
				Row{Label: "Status", Value: string(a.Status)},
				Row{Label: "Arrest Date", Value: dates.FormatDate(dates.CalendarDate(a.ArrestDate, clk.Location))},
			),
		}
		if alert := deadline.ForAccused(clk, a, c.DeadlineDays, c.FinalChargesheetSubmitted); alert != nil {
			sub.Rows = append(sub.Rows, Row{
				Label: "Chargesheet Deadline",
				Value: fmt.Sprintf("%s (%s)", dates.FormatDate(alert.DeadlineDate), Remaining(alert)),
			})
		}
		for _, p := range []struct {
			title string
			rec   *casefile.Process
		}{
			{TitleNotice41A, a.Notice41A},
			{TitleWarrant, a.Warrant},
			{TitleProclamation, a.Proclamation},
			{TitleAttachment, a.Attachment},
		} {
			if p.rec == nil {
				continue
			}
			sub.Subsections = append(sub.Subsections, Section{Title: p.title, Rows: compact(
				Row{Label: "Prayer Date", Value: dates.FormatDate(p.rec.PrayerDate)},
				Row{Label: "Receipt Date", Value: dates.FormatDate(p.rec.ReceiptDate)},
				Row{Label: "Execution Date", Value: dates.FormatDate(p.rec.ExecutionDate)},
				Row{Label: "Return Date", Value: dates.FormatDate(p.rec.ReturnDate)},
				fileRow(p.rec.File),
			)})
		}
		s.Subsections = append(s.Subsections, sub)
	}
	return s
}

func reportSection(title string, reports []casefile.Report) (Section, bool) {
	if len(reports) == 0 {
		return Section{}, false
	}
	s := Section{Title: title}
	for _, r := range reports {
		s.Rows = append(s.Rows, Row{Label: placeholder(r.Label), Value: dates.FormatDate(r.Date), File: r.File})
	}
	return s, true
}

func fslSection(entries []casefile.FSLEntry) Section {
	s := Section{Title: TitleFSL}
	for i, f := range entries {
		title := f.Exhibit
		if title == "" {
			title = fmt.Sprintf("Exhibit %d", i+1)
		}
		s.Subsections = append(s.Subsections, Section{Title: title, Rows: compact(
			Row{Label: "Sent Date", Value: dates.FormatDate(f.SentDate)},
			Row{Label: "Report Date", Value: dates.FormatDate(f.ReportDate)},
			optional("Result", f.ReportResult),
			fileRow(f.File),
		)})
	}
	return s
}

func medicalSection(title string, m *casefile.Medical) Section {
	return Section{Title: title, Rows: compact(
		Row{Label: "Date", Value: dates.FormatDate(m.Date)},
		optional("Remarks", m.Remarks),
		fileRow(m.File),
	)}
}

func notesSection(notes []casefile.Note, clk deadline.Clock) Section {
	s := Section{Title: TitleNotes}
	for _, n := range notes {
		s.Rows = append(s.Rows, Row{
			Label: fmt.Sprintf("%s - %s", placeholder(n.Author), dates.FormatDateTime(n.CreatedAt, clk.Location)),
			Value: n.Content,
		})
	}
	return s
}

// Remaining describes the days left before a deadline, or how late it is
func Remaining(a *deadline.Alert) string {
	switch {
	case a.DaysRemaining == -1:
		return "Overdue by 1 day"
	case a.IsOverdue:
		return fmt.Sprintf("Overdue by %d days", -a.DaysRemaining)
	case a.DaysRemaining == 1:
		return "1 day remaining"
	default:
		return fmt.Sprintf("%d days remaining", a.DaysRemaining)
	}
}

// FileLabel is how a file reference is printed in text renderers
func FileLabel(f *models.FileReference) string {
	if f == nil {
		return ""
	}
	name := f.OriginalFilename
	if name == "" {
		name = f.PublicID
	}
	if f.Format != "" && !strings.HasSuffix(name, "."+f.Format) {
		name += "." + f.Format
	}
	url := f.SecureURL
	if url == "" {
		url = f.URL
	}
	if url == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, url)
}

func fileRow(f *models.FileReference) Row {
	if f == nil {
		return Row{}
	}
	return Row{Label: "File", Value: FileLabel(f), File: f}
}

func optional(label, value string) Row {
	if strings.TrimSpace(value) == "" {
		return Row{}
	}
	return Row{Label: label, Value: value}
}

// compact drops the empty rows produced by optional and fileRow
func compact(rows ...Row) []Row {
	out := rows[:0]
	for _, r := range rows {
		if r.Label == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

func placeholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return dates.Placeholder
	}
	return s
}

func yearValue(y int) string {
	if y == 0 {
		return dates.Placeholder
	}
	return strconv.Itoa(y)
}

func ageValue(age int) string {
	if age <= 0 {
		return ""
	}
	return strconv.Itoa(age)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
