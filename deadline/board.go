package deadline

import (
	"sort"
	"strings"

	"github.com/linesmerrill/case-tracker-api/casefile"
)

// DigestWindow is how many days ahead the daily digest looks
const DigestWindow = 10

// CaseAlert is a case level alert with enough of the case to identify it
type CaseAlert struct {
	CaseID        string `json:"caseId"`
	CaseNo        string `json:"caseNo"`
	Year          int    `json:"year"`
	PoliceStation string `json:"policeStation"`
	CrimeHead     string `json:"crimeHead"`
	Alert
}

// Board returns the alerts of every open case, most urgent first. Disposed
// cases and cases without an alert are skipped.
func Board(clk Clock, cases []casefile.Case) []CaseAlert {
	var out []CaseAlert
	for _, c := range cases {
		if strings.EqualFold(strings.TrimSpace(c.CaseStatus), "Disposed") {
			continue
		}
		a := ForCase(clk, c)
		if a == nil {
			continue
		}
		out = append(out, CaseAlert{
			CaseID:        c.ID,
			CaseNo:        c.CaseNo,
			Year:          c.Year,
			PoliceStation: c.PoliceStation,
			CrimeHead:     c.CrimeHead,
			Alert:         *a,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysRemaining < out[j].DaysRemaining
	})
	return out
}

// Due keeps the alerts that are overdue or fall within days
func Due(alerts []CaseAlert, days int) []CaseAlert {
	var out []CaseAlert
	for _, a := range alerts {
		if a.IsOverdue || a.DaysRemaining <= days {
			out = append(out, a)
		}
	}
	return out
}
