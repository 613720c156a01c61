package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/case-tracker-api/api/handlers"
	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/databases/mocks"
	"github.com/linesmerrill/case-tracker-api/deadline"
	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/report"
	"github.com/linesmerrill/case-tracker-api/status"
)

func sampleCase(t *testing.T) models.Case {
	t.Helper()
	var c models.Case
	require.NoError(t, json.Unmarshal([]byte(`{"_id": "`+mockedID+`", "case": {
		"caseNo": "42", "year": 2024, "policeStation": "Central", "chargesheetDeadlineType": "60",
		"accused": [
			{"name": "Ravi", "status": "Arrested", "arrestDate": "2024-01-01"},
			{"name": "Mohan", "status": "Decision pending"}
		],
		"r1": "2024-01-15"
	}}`), &c))
	return c
}

func newCaseHandler() (handlers.Case, *mocks.CaseDatabase, *mocks.NoteDatabase) {
	cdb := &mocks.CaseDatabase{}
	ndb := &mocks.NoteDatabase{}
	return handlers.Case{DB: cdb, NDB: ndb, Clock: testClock}, cdb, ndb
}

func withCaseID(req *http.Request, id string) *http.Request {
	return mux.SetURLVars(req, map[string]string{"case_id": id})
}

func TestCase_CasesHandler(t *testing.T) {
	h, cdb, _ := newCaseHandler()
	cdb.On("CountDocuments", mock.Anything, bson.M{"case.policeStation": "Central", "case.year": 2024}).Return(int64(1), nil)
	cdb.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]models.Case{sampleCase(t)}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/cases?policeStation=Central&year=2024&limit=10", nil)
	rr := serve(h.CasesHandler, asViewer(req))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var page struct {
		Cases []struct {
			CaseNo         string          `json:"caseNo"`
			DecisionStatus string          `json:"decisionStatus"`
			Alert          *deadline.Alert `json:"alert"`
		} `json:"cases"`
		Total int64 `json:"total"`
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
	}
	env := decodeEnvelope(t, rr, &page)
	assert.True(t, env.Success)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	require.Len(t, page.Cases, 1)
	assert.Equal(t, "42", page.Cases[0].CaseNo)
	assert.Equal(t, string(status.CaseDecisionPartial), page.Cases[0].DecisionStatus)
	require.NotNil(t, page.Cases[0].Alert)
	assert.Equal(t, 10, page.Cases[0].Alert.DaysRemaining)
}

func TestCase_CasesHandlerInvalidYear(t *testing.T) {
	h, _, _ := newCaseHandler()
	req, _ := http.NewRequest("GET", "/api/v1/cases?year=twenty", nil)
	rr := serve(h.CasesHandler, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCase_CasesHandlerFailedToFind(t *testing.T) {
	h, cdb, _ := newCaseHandler()
	cdb.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	cdb.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

	req, _ := http.NewRequest("GET", "/api/v1/cases", nil)
	rr := serve(h.CasesHandler, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, `{"success":false,"error":"failed to get cases"}`, strings.TrimSpace(rr.Body.String()))
}

func TestCase_CreateCaseHandler(t *testing.T) {
	h, cdb, _ := newCaseHandler()
	cdb.On("CountDocuments", mock.Anything, bson.M{"case.caseNo": "42", "case.year": 2024}).Return(int64(0), nil)
	cdb.On("InsertOne", mock.Anything, mock.MatchedBy(func(c models.Case) bool {
		return c.Details.CreatedBy == "Admin" &&
			c.Details.ChargesheetDeadlineType == "60" &&
			c.Details.Accused[0].Status == string(status.Arrested) &&
			!c.ID.IsZero()
	})).Return(nil, nil)

	body := `{"caseNo": " 42 ", "year": 2024, "accused": [{"name": "Ravi", "status": "True", "arrestDate": "2024-01-01"}]}`
	req, _ := http.NewRequest("POST", "/api/v1/cases", strings.NewReader(body))
	rr := serve(h.CreateCaseHandler, asAdmin(req))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	cdb.AssertExpectations(t)
}

func TestCase_CreateCaseHandlerValidation(t *testing.T) {
	h, _, _ := newCaseHandler()
	for name, body := range map[string]string{
		"missing caseNo": `{"year": 2024}`,
		"bad year":       `{"caseNo": "1", "year": 24}`,
		"bad deadline":   `{"caseNo": "1", "year": 2024, "chargesheetDeadlineType": "45"}`,
		"bad override":   `{"caseNo": "1", "year": 2024, "decisionPendingStatus": "Maybe"}`,
		"not json":       `{`,
	} {
		req, _ := http.NewRequest("POST", "/api/v1/cases", strings.NewReader(body))
		rr := serve(h.CreateCaseHandler, asAdmin(req))
		assert.Equal(t, http.StatusBadRequest, rr.Code, name)
	}
}

func TestCase_CreateCaseHandlerConflict(t *testing.T) {
	h, cdb, _ := newCaseHandler()
	cdb.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)

	req, _ := http.NewRequest("POST", "/api/v1/cases", strings.NewReader(`{"caseNo": "42", "year": 2024}`))
	rr := serve(h.CreateCaseHandler, asAdmin(req))
	assert.Equal(t, http.StatusConflict, rr.Code)
	cdb.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestCase_CreateCaseHandlerDuplicateOnInsert(t *testing.T) {
	h, cdb, _ := newCaseHandler()
	cdb.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	cdb.On("InsertOne", mock.Anything, mock.Anything).Return(nil, databases.ErrDuplicateCase)

	req, _ := http.NewRequest("POST", "/api/v1/cases", strings.NewReader(`{"caseNo": "42", "year": 2024}`))
	rr := serve(h.CreateCaseHandler, asAdmin(req))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCase_CaseByIDHandler(t *testing.T) {
	h, cdb, _ := newCaseHandler()
	c := sampleCase(t)
	cdb.On("FindOne", mock.Anything, bson.M{"_id": c.ID}).Return(&c, nil)

	req, _ := http.NewRequest("GET", "/api/v1/case/"+mockedID, nil)
	rr := serve(h.CaseByIDHandler, withCaseID(req, mockedID))
	require.Equal(t, http.StatusOK, rr.Code)

	var got models.Case
	decodeEnvelope(t, rr, &got)
	assert.Equal(t, "42", got.Details.CaseNo)
}

func TestCase_CaseByIDHandlerErrors(t *testing.T) {
	h, cdb, _ := newCaseHandler()
	cdb.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	req, _ := http.NewRequest("GET", "/api/v1/case/1234", nil)
	rr := serve(h.CaseByIDHandler, withCaseID(req, "1234"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req, _ = http.NewRequest("GET", "/api/v1/case/"+mockedID, nil)
	rr = serve(h.CaseByIDHandler, withCaseID(req, mockedID))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCase_UpdateCaseHandler(t *testing.T) {
	h, cdb, _ := newCaseHandler()
	existing := sampleCase(t)
	existing.Details.CreatedBy = "Original"
	existing.Version = 3
	cdb.On("FindOne", mock.Anything, bson.M{"_id": existing.ID}).Return(&existing, nil)
	cdb.On("CountDocuments", mock.Anything, bson.M{"case.caseNo": "42", "case.year": 2024, "_id": bson.M{"$ne": existing.ID}}).Return(int64(0), nil)
	cdb.On("UpdateOne", mock.Anything, bson.M{"_id": existing.ID}, mock.Anything).Return(nil)

	req, _ := http.NewRequest("PUT", "/api/v1/case/"+mockedID, strings.NewReader(`{"caseNo": "42", "year": 2024, "chargesheetDeadlineType": "90"}`))
	rr := serve(h.UpdateCaseHandler, withCaseID(asAdmin(req), mockedID))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var got models.Case
	decodeEnvelope(t, rr, &got)
	assert.Equal(t, "Original", got.Details.CreatedBy)
	assert.Equal(t, "90", got.Details.ChargesheetDeadlineType)
	assert.Equal(t, int32(4), got.Version)
}

func TestCase_DeleteCaseHandler(t *testing.T) {
	h, cdb, ndb := newCaseHandler()
	id, _ := primitive.ObjectIDFromHex(mockedID)
	cdb.On("DeleteOne", mock.Anything, bson.M{"_id": id}).Return(int64(1), nil)
	ndb.On("DeleteByCase", mock.Anything, mockedID).Return(int64(2), nil)

	req, _ := http.NewRequest("DELETE", "/api/v1/case/"+mockedID, nil)
	rr := serve(h.DeleteCaseHandler, withCaseID(asAdmin(req), mockedID))
	assert.Equal(t, http.StatusOK, rr.Code)
	ndb.AssertExpectations(t)
}

func TestCase_DeleteCaseHandlerNotFound(t *testing.T) {
	h, cdb, ndb := newCaseHandler()
	cdb.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(0), nil)

	req, _ := http.NewRequest("DELETE", "/api/v1/case/"+mockedID, nil)
	rr := serve(h.DeleteCaseHandler, withCaseID(asAdmin(req), mockedID))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	ndb.AssertNotCalled(t, "DeleteByCase", mock.Anything, mock.Anything)
}

func TestCase_CaseViewHandler(t *testing.T) {
	h, cdb, ndb := newCaseHandler()
	c := sampleCase(t)
	cdb.On("FindOne", mock.Anything, mock.Anything).Return(&c, nil)
	ndb.On("FindByCase", mock.Anything, mockedID).Return([]models.Note{
		{Details: models.NoteDetails{CaseID: mockedID, Content: "visited scene", Author: "SI Rao"}},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/case/"+mockedID+"/view", nil)
	rr := serve(h.CaseViewHandler, withCaseID(req, mockedID))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var view handlers.CaseView
	decodeEnvelope(t, rr, &view)
	assert.Equal(t, status.CaseDecisionPartial, view.DecisionStatus)
	require.NotNil(t, view.Alert)
	assert.Equal(t, 10, view.Alert.DaysRemaining)
	require.Len(t, view.Accused, 2)
	assert.Equal(t, deadline.TierApproaching, view.Accused[0].Tier.Level)
	assert.Nil(t, view.Accused[1].Alert)

	var titles []string
	for _, s := range view.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{report.TitleCaseDetails, report.TitleDeadline, report.TitleAccused, report.TitleSPReports, report.TitleNotes}, titles)
}

func TestCase_CaseReportHandler(t *testing.T) {
	h, cdb, ndb := newCaseHandler()
	c := sampleCase(t)
	cdb.On("FindOne", mock.Anything, mock.Anything).Return(&c, nil)
	ndb.On("FindByCase", mock.Anything, mockedID).Return(nil, nil)

	req, _ := http.NewRequest("GET", "/api/v1/case/"+mockedID+"/report", nil)
	rr := serve(h.CaseReportHandler, withCaseID(req, mockedID))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Case_42_2024_Report.pdf"`, rr.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "%PDF-"))
}

func TestCase_CaseReportHandlerNotesFailure(t *testing.T) {
	h, cdb, ndb := newCaseHandler()
	c := sampleCase(t)
	cdb.On("FindOne", mock.Anything, mock.Anything).Return(&c, nil)
	ndb.On("FindByCase", mock.Anything, mockedID).Return(nil, errors.New("mocked-error"))

	req, _ := http.NewRequest("GET", "/api/v1/case/"+mockedID+"/report", nil)
	rr := serve(h.CaseReportHandler, withCaseID(req, mockedID))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCase_CaseAlertsHandler(t *testing.T) {
	h, cdb, _ := newCaseHandler()
	urgent := sampleCase(t)
	calm := sampleCase(t)
	calm.ID = primitive.NewObjectID()
	calm.Details.CaseNo = "43"
	calm.Details.Accused[0].ArrestDate = models.DateOf("2024-02-15")
	disposed := sampleCase(t)
	disposed.Details.CaseStatus = "Disposed"
	cdb.On("Find", mock.Anything, mock.Anything).Return([]models.Case{calm, urgent, disposed}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/cases/alerts", nil)
	rr := serve(h.CaseAlertsHandler, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var board []deadline.CaseAlert
	decodeEnvelope(t, rr, &board)
	require.Len(t, board, 2)
	assert.Equal(t, "42", board[0].CaseNo)
	assert.Equal(t, "43", board[1].CaseNo)

	req, _ = http.NewRequest("GET", "/api/v1/cases/alerts?within=10", nil)
	rr = serve(h.CaseAlertsHandler, req)
	board = nil
	decodeEnvelope(t, rr, &board)
	require.Len(t, board, 1)
	assert.Equal(t, "42", board[0].CaseNo)

	req, _ = http.NewRequest("GET", "/api/v1/cases/alerts?within=soon", nil)
	rr = serve(h.CaseAlertsHandler, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCase_ExportCasesHandler(t *testing.T) {
	h, cdb, _ := newCaseHandler()
	cdb.On("Find", mock.Anything, mock.Anything).Return([]models.Case{sampleCase(t)}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/cases/export", nil)
	rr := serve(h.ExportCasesHandler, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `attachment; filename="case_register.xlsx"`, rr.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(rr.Body)
	require.NoError(t, err)
	rows, err := f.GetRows("Cases")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "42", rows[1][0])
}
