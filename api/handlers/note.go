package handlers

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/models"
)

// Note exported for testing purposes
type Note struct {
	DB  databases.NoteDatabase
	CDB databases.CaseDatabase
}

// NotesByCaseHandler returns the notes of a case, oldest first
func (n Note) NotesByCaseHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r, "case_id")
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := n.DB.FindByCase(ctx, id.Hex())
	if err != nil {
		config.ErrorStatus("failed to get notes", http.StatusInternalServerError, w, err)
		return
	}
	if dbResp == nil {
		dbResp = []models.Note{}
	}
	config.WriteData(w, http.StatusOK, dbResp)
}

// CreateNoteHandler adds a note to a case. The author is always the caller.
func (n Note) CreateNoteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r, "case_id")
	if !ok {
		return
	}
	var body struct {
		Content string `json:"content"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	body.Content = strings.TrimSpace(body.Content)
	if body.Content == "" {
		config.ErrorStatus("content is required", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := n.CDB.FindOne(ctx, bson.M{"_id": id}); err != nil {
		lookupFailed(w, "case", err)
		return
	}
	note := models.Note{
		ID: primitive.NewObjectID(),
		Details: models.NoteDetails{
			CaseID:    id.Hex(),
			Content:   body.Content,
			Author:    author(r),
			CreatedAt: now(),
		},
	}
	if _, err := n.DB.InsertOne(ctx, note); err != nil {
		config.ErrorStatus("failed to insert note", http.StatusInternalServerError, w, err)
		return
	}
	config.WriteData(w, http.StatusCreated, note)
}
