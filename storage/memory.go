package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/linesmerrill/case-tracker-api/models"
)

// Memory is an in-process FileStore used when Cloudinary is not configured
// and in tests
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemory creates an empty in-process store
func NewMemory() *Memory {
	return &Memory{files: map[string][]byte{}}
}

// Upload keeps the file contents in memory
func (m *Memory) Upload(_ context.Context, file io.Reader, filename string) (*models.FileReference, error) {
	b, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	id := "memory/" + uuid.NewString()

	m.mu.Lock()
	m.files[id] = b
	m.mu.Unlock()

	ref := &models.FileReference{PublicID: id, Bytes: len(b)}
	fillFromFilename(ref, filename)
	return ref, nil
}

// Delete forgets the file
func (m *Memory) Delete(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, publicID)
	return nil
}

// Has reports whether a file is stored
func (m *Memory) Has(publicID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[publicID]
	return ok
}
