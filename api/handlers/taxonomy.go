package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/models"
)

// Taxonomy serves one of the admin managed lookup lists, crime heads or
// reasons
type Taxonomy struct {
	DB databases.TaxonomyDatabase
	// Kind names the list in messages, "crime head" or "reason"
	Kind string
}

type taxonomyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

func (t Taxonomy) decode(w http.ResponseWriter, r *http.Request) (taxonomyRequest, bool) {
	var req taxonomyRequest
	if !decodeBody(w, r, &req) {
		return req, false
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		config.ErrorStatus("name is required", http.StatusBadRequest, w, nil)
		return req, false
	}
	return req, true
}

// ListHandler returns every entry sorted by name. ?active=true hides
// deactivated entries.
func (t Taxonomy) ListHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if r.URL.Query().Get("active") == "true" {
		filter["entry.active"] = true
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := t.DB.Find(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to get "+t.Kind+"s", http.StatusInternalServerError, w, err)
		return
	}
	if dbResp == nil {
		dbResp = []models.TaxonomyEntry{}
	}
	config.WriteData(w, http.StatusOK, dbResp)
}

// CreateHandler adds an entry; names are unique case-insensitively
func (t Taxonomy) CreateHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := t.decode(w, r)
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if t.nameTaken(w, r, req.Name, nil) {
		return
	}
	entry := models.TaxonomyEntry{
		ID: primitive.NewObjectID(),
		Details: models.TaxonomyEntryDetails{
			Name:        req.Name,
			Description: req.Description,
			Active:      req.Active == nil || *req.Active,
			CreatedAt:   now(),
		},
	}
	entry.Details.UpdatedAt = entry.Details.CreatedAt
	if _, err := t.DB.InsertOne(ctx, entry); err != nil {
		config.ErrorStatus("failed to insert "+t.Kind, http.StatusInternalServerError, w, err)
		return
	}
	config.WriteData(w, http.StatusCreated, entry)
}

// UpdateHandler renames, describes or (de)activates an entry
func (t Taxonomy) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r, "id")
	if !ok {
		return
	}
	req, ok := t.decode(w, r)
	if !ok {
		return
	}
	if t.nameTaken(w, r, req.Name, &id) {
		return
	}
	set := bson.M{
		"entry.name":        req.Name,
		"entry.description": req.Description,
		"entry.updatedAt":   now(),
	}
	if req.Active != nil {
		set["entry.active"] = *req.Active
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := t.DB.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set, "$inc": bson.M{"__v": 1}}); err != nil {
		lookupFailed(w, t.Kind, err)
		return
	}
	entry, err := t.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		lookupFailed(w, t.Kind, err)
		return
	}
	config.WriteData(w, http.StatusOK, entry)
}

// DeleteHandler removes an entry. Cases keep the name they were saved with.
func (t Taxonomy) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	n, err := t.DB.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to delete "+t.Kind, http.StatusInternalServerError, w, err)
		return
	}
	if n == 0 {
		config.ErrorStatus(t.Kind+" not found", http.StatusNotFound, w, nil)
		return
	}
	config.WriteData(w, http.StatusOK, map[string]string{"_id": id.Hex()})
}

func (t Taxonomy) nameTaken(w http.ResponseWriter, r *http.Request, name string, self *primitive.ObjectID) bool {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	filter := bson.M{"entry.name": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}}
	if self != nil {
		filter["_id"] = bson.M{"$ne": *self}
	}
	existing, err := t.DB.Find(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to check "+t.Kind+" name", http.StatusInternalServerError, w, err)
		return true
	}
	if len(existing) > 0 {
		config.ErrorStatus(t.Kind+" already exists", http.StatusConflict, w, nil)
		return true
	}
	return false
}
