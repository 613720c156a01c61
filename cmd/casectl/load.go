package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/linesmerrill/case-tracker-api/casefile"
	"github.com/linesmerrill/case-tracker-api/dates"
	"github.com/linesmerrill/case-tracker-api/deadline"
	"github.com/linesmerrill/case-tracker-api/models"
)

// loadCase reads a case document as exported by the API, either wrapped
// ({"_id": ..., "case": {...}}) or the bare case details
func loadCase(path string) (casefile.Case, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return casefile.Case{}, fmt.Errorf("failed to read case: %w", err)
	}
	var m models.Case
	if err := json.Unmarshal(b, &m); err != nil {
		return casefile.Case{}, fmt.Errorf("failed to decode case %s: %w", path, err)
	}
	if m.Details.CaseNo == "" && m.Details.Year == 0 {
		if err := json.Unmarshal(b, &m.Details); err != nil {
			return casefile.Case{}, fmt.Errorf("failed to decode case %s: %w", path, err)
		}
	}
	return casefile.FromModel(m), nil
}

func loadNotes(path string) ([]casefile.Note, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}
	var docs []models.Note
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode notes %s: %w", path, err)
	}
	notes := make([]casefile.Note, 0, len(docs))
	for _, n := range docs {
		notes = append(notes, casefile.NoteFromModel(n))
	}
	return notes, nil
}

// clock builds the evaluation clock from the --now and --tz flags
func clock(now func() time.Time) (deadline.Clock, error) {
	loc := dates.LoadLocation(timezone)
	if nowFlag == "" {
		return deadline.At(now(), loc), nil
	}
	day, err := time.ParseInLocation("2006-01-02", nowFlag, loc)
	if err != nil {
		return deadline.Clock{}, fmt.Errorf("invalid --now %q: %w", nowFlag, err)
	}
	return deadline.At(day, loc), nil
}
