package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/deadline"
)

const maxBodyBytes = 1 << 20

// Clock supplies the current time and the display timezone to handlers
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func (c Clock) at() deadline.Clock {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return deadline.At(now(), c.Location)
}

// getPage returns the 1-based page asked for, defaulting to the first
func getPage(r *http.Request) int {
	if r.URL.Query().Get("page") == "" {
		return 1
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		zap.S().Warnf("error parsing page number: %v", err)
		return 1
	}
	if page < 1 {
		zap.S().Warnf("cannot process page number less than 1. Got: %v", page)
		return 1
	}
	return page
}

func getLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}

// objectID reads a hex object id from the route variables
func objectID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return primitive.NilObjectID, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return false
	}
	return true
}

// lookupFailed writes 404 for a missing document and 500 for anything else
func lookupFailed(w http.ResponseWriter, what string, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		config.ErrorStatus(what+" not found", http.StatusNotFound, w, err)
		return
	}
	config.ErrorStatus("failed to get "+what, http.StatusInternalServerError, w, err)
}

// author is the display name recorded on writes
func author(r *http.Request) string {
	p, ok := api.PrincipalFrom(r.Context())
	if !ok {
		return ""
	}
	return p.Name
}

func now() primitive.DateTime {
	return primitive.NewDateTimeFromTime(time.Now())
}
