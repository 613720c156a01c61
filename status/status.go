// Package status maps the accused status strings found in stored records to a
// closed canonical set and aggregates them into a case level decision status.
package status

import "strings"

// AccusedStatus is the canonical status of a single accused
type AccusedStatus string

// Canonical accused statuses
const (
	Arrested            AccusedStatus = "Arrested"
	NotArrested         AccusedStatus = "Not arrested"
	DecisionPending     AccusedStatus = "Decision pending"
	PendingVerification AccusedStatus = "Pending Verification"
)

// CaseDecision is the aggregated decision status of a case
type CaseDecision string

// Case decision values
const (
	CaseDecisionPending   CaseDecision = "Decision pending"
	CaseDecisionPartial   CaseDecision = "Partial"
	CaseDecisionCompleted CaseDecision = "Completed"
)

var synonyms = map[string]AccusedStatus{
	"Arrested":             Arrested,
	"True":                 Arrested,
	"Not arrested":         NotArrested,
	"Not Arrested":         NotArrested,
	"False":                NotArrested,
	"Decision pending":     DecisionPending,
	"Decision Pending":     DecisionPending,
	"Pending Verification": PendingVerification,
}

// Normalize maps any status string ever written by the case forms to its
// canonical value. Unrecognised input, including the empty string, is
// treated as Decision pending rather than rejected.
func Normalize(s string) AccusedStatus {
	if st, ok := synonyms[strings.TrimSpace(s)]; ok {
		return st
	}
	return DecisionPending
}

// Valid reports whether s is already one of the canonical values
func (s AccusedStatus) Valid() bool {
	switch s {
	case Arrested, NotArrested, DecisionPending, PendingVerification:
		return true
	}
	return false
}

// ParseCaseDecision returns the decision named by s and whether s named one
func ParseCaseDecision(s string) (CaseDecision, bool) {
	switch CaseDecision(strings.TrimSpace(s)) {
	case CaseDecisionPending:
		return CaseDecisionPending, true
	case CaseDecisionPartial:
		return CaseDecisionPartial, true
	case CaseDecisionCompleted:
		return CaseDecisionCompleted, true
	}
	return "", false
}

// DeriveDecisionPending aggregates the accused statuses of a case.
//
// A valid override stored on the case wins. Otherwise accused awaiting
// verification are not decision relevant; the case is Decision pending when
// every relevant accused is pending, Completed when none is, and Partial in
// between. A case with no relevant accused is Completed.
func DeriveDecisionPending(accused []AccusedStatus, override string) CaseDecision {
	if d, ok := ParseCaseDecision(override); ok {
		return d
	}

	var relevant, pending int
	for _, a := range accused {
		a = Normalize(string(a))
		if a == PendingVerification {
			continue
		}
		relevant++
		if a == DecisionPending {
			pending++
		}
	}

	switch {
	case pending == 0:
		return CaseDecisionCompleted
	case pending == relevant:
		return CaseDecisionPending
	default:
		return CaseDecisionPartial
	}
}
