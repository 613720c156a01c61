// Package casefile defines the canonical in-memory shape of a case. Stored
// documents carry optional fields and several legacy aliases per concept;
// FromModel is the single place those are resolved, so the deadline engine
// and the report assembly never branch on legacy-or-modern shapes.
package casefile

import (
	"strconv"
	"strings"
	"time"

	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/status"
)

// Schema versions of the stored report fields
const (
	SchemaLegacy = 1
	SchemaModern = 2
)

// Statutory chargesheet deadlines in days
const (
	DeadlineShort = 60
	DeadlineLong  = 90
)

// Case is the normalised case record
type Case struct {
	ID            string
	SchemaVersion int

	CaseNo              string
	Year                int
	PoliceStation       string
	CrimeHead           string
	Section             string
	PunishmentCategory  string
	CaseStatus          string
	InvestigationStatus string
	Priority            string
	SrNsr               string
	Reason              string

	DeadlineDays                   int
	FinalChargesheetSubmitted      bool
	FinalChargesheetSubmissionDate time.Time
	DecisionOverride               string

	SPReports    []Report
	DSPReports   []Report
	Sanction     *Sanction
	FSL          []FSLEntry
	InjuryReport *Medical
	PMReport     *Medical
	Compensation *Compensation
	Accused      []Accused
}

// Accused is a normalised accused person
type Accused struct {
	Name       string
	FatherName string
	Age        int
	Address    string
	Status     status.AccusedStatus
	ArrestDate time.Time

	Notice41A    *Process
	Warrant      *Process
	Proclamation *Process
	Attachment   *Process
}

// Process is an open procedural record; closed records are dropped
type Process struct {
	PrayerDate    time.Time
	ReceiptDate   time.Time
	ExecutionDate time.Time
	ReturnDate    time.Time
	File          *models.FileReference
}

// Report is an SP or DSP report entry
type Report struct {
	Label string
	Date  time.Time
	File  *models.FileReference
}

// Sanction is a prayed prosecution sanction
type Sanction struct {
	PrayerDate  time.Time
	ReceiptDate time.Time
	Authority   string
	File        *models.FileReference
}

// FSLEntry is an exhibit sent to the forensic lab
type FSLEntry struct {
	Exhibit      string
	SentDate     time.Time
	ReportDate   time.Time
	ReportResult string
	File         *models.FileReference
}

// Medical is a received injury or post mortem report
type Medical struct {
	Date    time.Time
	Remarks string
	File    *models.FileReference
}

// Compensation is a proposed victim compensation
type Compensation struct {
	Date   time.Time
	Amount float64
	File   *models.FileReference
}

// Note is an immutable case note
type Note struct {
	Content   string
	Author    string
	CreatedAt time.Time
}

// DeadlineDaysFor resolves the stored deadline type, defaulting to 60 days
// for absent or unrecognised values.
func DeadlineDaysFor(deadlineType string) int {
	if strings.TrimSpace(deadlineType) == strconv.Itoa(DeadlineLong) {
		return DeadlineLong
	}
	return DeadlineShort
}

// FromModel normalises a stored case document
func FromModel(m models.Case) Case {
	d := m.Details
	c := Case{
		ID:                  idHex(m),
		SchemaVersion:       SchemaLegacy,
		CaseNo:              d.CaseNo,
		Year:                d.Year,
		PoliceStation:       d.PoliceStation,
		CrimeHead:           d.CrimeHead,
		Section:             d.Section,
		PunishmentCategory:  d.PunishmentCategory,
		CaseStatus:          d.CaseStatus,
		InvestigationStatus: d.InvestigationStatus,
		Priority:            d.Priority,
		SrNsr:               d.SrNsr,
		Reason:              d.Reason,

		DeadlineDays:              DeadlineDaysFor(d.ChargesheetDeadlineType),
		FinalChargesheetSubmitted: d.FinalChargesheetSubmitted,
		DecisionOverride:          d.DecisionPendingStatus,
	}
	if d.FinalChargesheetSubmitted {
		c.FinalChargesheetSubmissionDate = d.FinalChargesheetSubmissionDate.Time
	}
	if len(d.SPReports) > 0 || len(d.DSPReports) > 0 {
		c.SchemaVersion = SchemaModern
	}

	c.SPReports = resolveReports(d.SPReports, "R", d.R1, d.R2, d.R3)
	c.DSPReports = resolveReports(d.DSPReports, "PR", d.PR1, d.PR2, d.PR3)

	if s := d.ProsecutionSanction; s != nil && s.Prayed {
		c.Sanction = &Sanction{
			PrayerDate:  s.PrayerDate.Time,
			ReceiptDate: s.ReceiptDate.Time,
			Authority:   s.Authority,
			File:        s.File,
		}
	}
	for _, f := range d.FSL {
		if !f.Sent {
			continue
		}
		c.FSL = append(c.FSL, FSLEntry{
			Exhibit:      f.Exhibit,
			SentDate:     f.SentDate.Time,
			ReportDate:   f.ReportDate.Time,
			ReportResult: f.ReportResult,
			File:         f.File,
		})
	}
	c.InjuryReport = medical(d.InjuryReport)
	c.PMReport = medical(d.PMReport)
	if cp := d.Compensation; cp != nil && cp.Proposed {
		c.Compensation = &Compensation{Date: cp.Date.Time, Amount: cp.Amount, File: cp.File}
	}

	for _, a := range d.Accused {
		c.Accused = append(c.Accused, AccusedFromModel(a))
	}
	return c
}

// AccusedFromModel normalises a single accused
func AccusedFromModel(a models.Accused) Accused {
	return Accused{
		Name:         a.Name,
		FatherName:   a.FatherName,
		Age:          a.Age,
		Address:      a.Address,
		Status:       status.Normalize(a.Status),
		ArrestDate:   a.ArrestDate.Time,
		Notice41A:    process(a.Notice41A),
		Warrant:      process(a.Warrant),
		Proclamation: process(a.Proclamation),
		Attachment:   process(a.Attachment),
	}
}

// NoteFromModel converts a stored note
func NoteFromModel(n models.Note) Note {
	return Note{
		Content:   n.Details.Content,
		Author:    n.Details.Author,
		CreatedAt: n.Details.CreatedAt.Time(),
	}
}

// Statuses returns the normalised status of every accused, in order
func (c Case) Statuses() []status.AccusedStatus {
	out := make([]status.AccusedStatus, 0, len(c.Accused))
	for _, a := range c.Accused {
		out = append(out, a.Status)
	}
	return out
}

// Decision aggregates the accused statuses, honouring a stored override
func (c Case) Decision() status.CaseDecision {
	return status.DeriveDecisionPending(c.Statuses(), c.DecisionOverride)
}

// process keeps a record only when its gate is open. The 41A notice is gated
// by issued; the court processes by prayed. Older forms wrote the other flag,
// so either one opens the gate.
func process(p *models.ProcessRecord) *Process {
	if p == nil || !(p.Issued || p.Prayed) {
		return nil
	}
	return &Process{
		PrayerDate:    p.PrayerDate.Time,
		ReceiptDate:   p.ReceiptDate.Time,
		ExecutionDate: p.ExecutionDate.Time,
		ReturnDate:    p.ReturnDate.Time,
		File:          p.File,
	}
}

func medical(m *models.MedicalRecord) *Medical {
	if m == nil || !m.Received {
		return nil
	}
	return &Medical{Date: m.Date.Time, Remarks: m.Remarks, File: m.File}
}

// resolveReports prefers the modern array. Without one, up to three entries
// are synthesised from the legacy scalar dates, labelled prefix+index, and
// dropped when the date is absent.
func resolveReports(modern []models.ReportEntry, prefix string, legacy ...models.Date) []Report {
	var out []Report
	if len(modern) > 0 {
		for _, r := range modern {
			if strings.TrimSpace(r.Label) == "" && !r.Date.Valid() {
				continue
			}
			out = append(out, Report{Label: r.Label, Date: r.Date.Time, File: r.File})
		}
		return out
	}
	for i, d := range legacy {
		if !d.Valid() {
			continue
		}
		out = append(out, Report{Label: prefix + strconv.Itoa(i+1), Date: d.Time})
	}
	return out
}

func idHex(m models.Case) string {
	if m.ID.IsZero() {
		return ""
	}
	return m.ID.Hex()
}
