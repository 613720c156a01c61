package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/storage"
)

// maxUploadBytes caps a single uploaded document
const maxUploadBytes = 20 << 20

// Upload handles case document uploads
type Upload struct {
	Store        storage.FileStore
	UploadPreset string
	APISecret    string
	Now          func() time.Time
}

// UploadHandler stores the multipart "file" field and returns its reference.
// A failed upload is reported once; the client decides whether to retry.
func (u Upload) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		config.ErrorStatus("failed to parse upload", http.StatusBadRequest, w, err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		config.ErrorStatus("file is required", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()

	ref, err := u.Store.Upload(r.Context(), file, header.Filename)
	if err != nil {
		zap.S().Errorw("upload failed", "filename", header.Filename, "error", err)
		config.ErrorStatus("failed to upload file", http.StatusBadGateway, w, err)
		return
	}
	config.WriteData(w, http.StatusCreated, ref)
}

// DeleteUploadHandler removes a stored file by its public id
func (u Upload) DeleteUploadHandler(w http.ResponseWriter, r *http.Request) {
	publicID := strings.TrimSpace(r.URL.Query().Get("publicId"))
	if publicID == "" {
		config.ErrorStatus("publicId is required", http.StatusBadRequest, w, nil)
		return
	}
	if err := u.Store.Delete(r.Context(), publicID); err != nil {
		config.ErrorStatus("failed to delete file", http.StatusBadGateway, w, err)
		return
	}
	config.WriteData(w, http.StatusOK, map[string]string{"publicId": publicID})
}

// GenerateSignature signs a direct browser upload
func (u Upload) GenerateSignature(w http.ResponseWriter, r *http.Request) {
	now := time.Now
	if u.Now != nil {
		now = u.Now
	}
	sig, err := storage.SignUpload(now(), u.UploadPreset, u.APISecret)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			config.ErrorStatus("direct uploads are not configured", http.StatusServiceUnavailable, w, err)
			return
		}
		config.ErrorStatus("failed to sign upload", http.StatusInternalServerError, w, err)
		return
	}
	config.WriteData(w, http.StatusOK, sig)
}
