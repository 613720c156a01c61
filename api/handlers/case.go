package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/casefile"
	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/deadline"
	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/register"
	"github.com/linesmerrill/case-tracker-api/report"
	"github.com/linesmerrill/case-tracker-api/report/document"
	"github.com/linesmerrill/case-tracker-api/status"
)

// Case exported for testing purposes
type Case struct {
	DB  databases.CaseDatabase
	NDB databases.NoteDatabase
	Clock
}

type caseSummary struct {
	ID             string              `json:"_id"`
	CaseNo         string              `json:"caseNo"`
	Year           int                 `json:"year"`
	PoliceStation  string              `json:"policeStation"`
	CrimeHead      string              `json:"crimeHead"`
	CaseStatus     string              `json:"caseStatus"`
	Priority       string              `json:"priority"`
	DecisionStatus status.CaseDecision `json:"decisionStatus"`
	Alert          *deadline.Alert     `json:"alert"`
}

type casePage struct {
	Cases []caseSummary `json:"cases"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// CaseView is everything the case detail screen shows
type CaseView struct {
	ID             string                   `json:"_id"`
	CaseNo         string                   `json:"caseNo"`
	Year           int                      `json:"year"`
	SchemaVersion  int                      `json:"schemaVersion"`
	DecisionStatus status.CaseDecision      `json:"decisionStatus"`
	Alert          *deadline.Alert          `json:"alert"`
	Accused        []deadline.AccusedAlerts `json:"accused"`
	Sections       []report.Section         `json:"sections"`
}

func caseFilter(r *http.Request) (bson.M, error) {
	q := r.URL.Query()
	filter := bson.M{}
	for param, field := range map[string]string{
		"policeStation": "case.policeStation",
		"caseStatus":    "case.caseStatus",
		"crimeHead":     "case.crimeHead",
		"priority":      "case.priority",
	} {
		if v := strings.TrimSpace(q.Get(param)); v != "" {
			filter[field] = v
		}
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", v)
		}
		filter["case.year"] = year
	}
	if v := strings.TrimSpace(q.Get("q")); v != "" {
		filter["case.caseNo"] = primitive.Regex{Pattern: regexp.QuoteMeta(v), Options: "i"}
	}
	return filter, nil
}

// CasesHandler returns a page of case summaries
func (c Case) CasesHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := caseFilter(r)
	if err != nil {
		config.ErrorStatus("invalid filter", http.StatusBadRequest, w, err)
		return
	}
	page, limit := getPage(r), getLimit(r)
	if limit <= 0 || limit > databases.MaxPageSize {
		limit = databases.DefaultPageSize
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	total, err := c.DB.CountDocuments(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to count cases", http.StatusInternalServerError, w, err)
		return
	}
	opts := databases.PageOptions(limit, page, bson.D{{Key: "case.year", Value: -1}, {Key: "case.caseNo", Value: 1}})
	dbResp, err := c.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get cases", http.StatusInternalServerError, w, err)
		return
	}

	clk := c.at()
	resp := casePage{Cases: make([]caseSummary, 0, len(dbResp)), Total: total, Page: page, Limit: limit}
	for _, m := range dbResp {
		cf := casefile.FromModel(m)
		resp.Cases = append(resp.Cases, caseSummary{
			ID:             cf.ID,
			CaseNo:         cf.CaseNo,
			Year:           cf.Year,
			PoliceStation:  cf.PoliceStation,
			CrimeHead:      cf.CrimeHead,
			CaseStatus:     cf.CaseStatus,
			Priority:       cf.Priority,
			DecisionStatus: cf.Decision(),
			Alert:          deadline.ForCase(clk, cf),
		})
	}
	config.WriteData(w, http.StatusOK, resp)
}

// validateCase checks the fields a case cannot be stored without and
// canonicalises the enumerations
func validateCase(d *models.CaseDetails) error {
	d.CaseNo = strings.TrimSpace(d.CaseNo)
	if d.CaseNo == "" {
		return errors.New("caseNo is required")
	}
	if d.Year < 1900 || d.Year > 2200 {
		return fmt.Errorf("year %d is out of range", d.Year)
	}
	switch d.ChargesheetDeadlineType {
	case "":
		d.ChargesheetDeadlineType = strconv.Itoa(casefile.DeadlineShort)
	case strconv.Itoa(casefile.DeadlineShort), strconv.Itoa(casefile.DeadlineLong):
	default:
		return fmt.Errorf("chargesheetDeadlineType must be 60 or 90, got %q", d.ChargesheetDeadlineType)
	}
	if d.DecisionPendingStatus != "" {
		decision, ok := status.ParseCaseDecision(d.DecisionPendingStatus)
		if !ok {
			return fmt.Errorf("unknown decisionPendingStatus %q", d.DecisionPendingStatus)
		}
		d.DecisionPendingStatus = string(decision)
	}
	if !d.FinalChargesheetSubmitted {
		d.FinalChargesheetSubmissionDate = models.Date{}
	}
	for i := range d.Accused {
		d.Accused[i].Status = string(status.Normalize(d.Accused[i].Status))
	}
	return nil
}

func (c Case) conflict(w http.ResponseWriter, r *http.Request, d models.CaseDetails, self *primitive.ObjectID) bool {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	filter := bson.M{"case.caseNo": d.CaseNo, "case.year": d.Year}
	if self != nil {
		filter["_id"] = bson.M{"$ne": *self}
	}
	n, err := c.DB.CountDocuments(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to check case number", http.StatusInternalServerError, w, err)
		return true
	}
	if n > 0 {
		config.ErrorStatus(databases.ErrDuplicateCase.Error(), http.StatusConflict, w, nil)
		return true
	}
	return false
}

// CreateCaseHandler creates a case
func (c Case) CreateCaseHandler(w http.ResponseWriter, r *http.Request) {
	var kase models.Case
	if !decodeBody(w, r, &kase.Details) {
		return
	}
	if err := validateCase(&kase.Details); err != nil {
		config.ErrorStatus(err.Error(), http.StatusBadRequest, w, err)
		return
	}
	if c.conflict(w, r, kase.Details, nil) {
		return
	}

	kase.ID = primitive.NewObjectID()
	kase.Details.CreatedBy = author(r)
	kase.Details.CreatedAt = now()
	kase.Details.UpdatedAt = kase.Details.CreatedAt

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := c.DB.InsertOne(ctx, kase); err != nil {
		if errors.Is(err, databases.ErrDuplicateCase) {
			config.ErrorStatus(err.Error(), http.StatusConflict, w, err)
			return
		}
		config.ErrorStatus("failed to insert case", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Infow("case created", "caseNo", kase.Details.CaseNo, "year", kase.Details.Year, "by", kase.Details.CreatedBy)
	config.WriteData(w, http.StatusCreated, kase)
}

// CaseByIDHandler returns a case by ID
func (c Case) CaseByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r, "case_id")
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := c.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		lookupFailed(w, "case", err)
		return
	}
	config.WriteData(w, http.StatusOK, dbResp)
}

// UpdateCaseHandler replaces the details of a case
func (c Case) UpdateCaseHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r, "case_id")
	if !ok {
		return
	}
	var details models.CaseDetails
	if !decodeBody(w, r, &details) {
		return
	}
	if err := validateCase(&details); err != nil {
		config.ErrorStatus(err.Error(), http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := c.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		lookupFailed(w, "case", err)
		return
	}
	if c.conflict(w, r, details, &id) {
		return
	}
	details.CreatedBy = existing.Details.CreatedBy
	details.CreatedAt = existing.Details.CreatedAt
	details.UpdatedAt = now()

	err = c.DB.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"case": details},
		"$inc": bson.M{"__v": 1},
	})
	if err != nil {
		if errors.Is(err, databases.ErrDuplicateCase) {
			config.ErrorStatus(err.Error(), http.StatusConflict, w, err)
			return
		}
		lookupFailed(w, "case", err)
		return
	}
	config.WriteData(w, http.StatusOK, models.Case{ID: id, Details: details, Version: existing.Version + 1})
}

// DeleteCaseHandler deletes a case and its notes
func (c Case) DeleteCaseHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r, "case_id")
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	n, err := c.DB.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to delete case", http.StatusInternalServerError, w, err)
		return
	}
	if n == 0 {
		config.ErrorStatus("case not found", http.StatusNotFound, w, nil)
		return
	}
	if _, err := c.NDB.DeleteByCase(ctx, id.Hex()); err != nil {
		zap.S().Errorw("failed to delete notes of case", "caseId", id.Hex(), "error", err)
	}
	config.WriteData(w, http.StatusOK, map[string]string{"_id": id.Hex()})
}

// load reads a case and its notes in canonical form
func (c Case) load(w http.ResponseWriter, r *http.Request) (casefile.Case, []casefile.Note, bool) {
	id, ok := objectID(w, r, "case_id")
	if !ok {
		return casefile.Case{}, nil, false
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	m, err := c.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		lookupFailed(w, "case", err)
		return casefile.Case{}, nil, false
	}
	dbNotes, err := c.NDB.FindByCase(ctx, id.Hex())
	if err != nil {
		config.ErrorStatus("failed to get notes", http.StatusInternalServerError, w, err)
		return casefile.Case{}, nil, false
	}
	notes := make([]casefile.Note, 0, len(dbNotes))
	for _, n := range dbNotes {
		notes = append(notes, casefile.NoteFromModel(n))
	}
	return casefile.FromModel(*m), notes, true
}

// CaseViewHandler returns the derived view of a case: decision status,
// deadline alerts and the report sections shown in the detail tabs
func (c Case) CaseViewHandler(w http.ResponseWriter, r *http.Request) {
	cf, notes, ok := c.load(w, r)
	if !ok {
		return
	}
	clk := c.at()
	config.WriteData(w, http.StatusOK, CaseView{
		ID:             cf.ID,
		CaseNo:         cf.CaseNo,
		Year:           cf.Year,
		SchemaVersion:  cf.SchemaVersion,
		DecisionStatus: cf.Decision(),
		Alert:          deadline.ForCase(clk, cf),
		Accused:        deadline.ForEachAccused(clk, cf),
		Sections:       report.Assemble(cf, notes, clk),
	})
}

// CaseReportHandler returns the case report as a PDF download
func (c Case) CaseReportHandler(w http.ResponseWriter, r *http.Request) {
	cf, notes, ok := c.load(w, r)
	if !ok {
		return
	}
	clk := c.at()
	title := fmt.Sprintf("Case Report: %s/%d", cf.CaseNo, cf.Year)

	var buf bytes.Buffer
	if err := document.Generate(&buf, title, report.Assemble(cf, notes, clk), clk.Now, clk.Location); err != nil {
		config.ErrorStatus("failed to generate report", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename(cf.CaseNo, cf.Year)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (c Case) openCases(w http.ResponseWriter, r *http.Request) ([]casefile.Case, bool) {
	filter, err := caseFilter(r)
	if err != nil {
		config.ErrorStatus("invalid filter", http.StatusBadRequest, w, err)
		return nil, false
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := c.DB.Find(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to get cases", http.StatusInternalServerError, w, err)
		return nil, false
	}
	cases := make([]casefile.Case, 0, len(dbResp))
	for _, m := range dbResp {
		cases = append(cases, casefile.FromModel(m))
	}
	return cases, true
}

// CaseAlertsHandler returns the deadline alerts of every open case, most
// urgent first. ?within=N keeps only overdue alerts and those due within N
// days.
func (c Case) CaseAlertsHandler(w http.ResponseWriter, r *http.Request) {
	cases, ok := c.openCases(w, r)
	if !ok {
		return
	}
	board := deadline.Board(c.at(), cases)
	if v := r.URL.Query().Get("within"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			config.ErrorStatus("invalid within", http.StatusBadRequest, w, err)
			return
		}
		board = deadline.Due(board, days)
	}
	if board == nil {
		board = []deadline.CaseAlert{}
	}
	config.WriteData(w, http.StatusOK, board)
}

// ExportCasesHandler returns the case register as an Excel workbook
func (c Case) ExportCasesHandler(w http.ResponseWriter, r *http.Request) {
	cases, ok := c.openCases(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := register.Write(&buf, cases, c.at()); err != nil {
		config.ErrorStatus("failed to export cases", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, register.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
