package submission

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Repository persists loan applications and their documents.
type Repository interface {
	// CreateApplication stores record and returns the new application id.
	CreateApplication(ctx context.Context, record Record) (string, error)
	// UploadDocument stores a document for an existing application and
	// returns its storage path.
	UploadDocument(ctx context.Context, applicationID, documentType, filename string, data []byte) (string, error)
}

// DocumentPath is the storage path of an application document.
func DocumentPath(applicationID, documentType, filename string) string {
	return fmt.Sprintf("applications/%s/%s/%s", applicationID, documentType, filename)
}

// cleanFilename strips any directory components from a client filename.
func cleanFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), `\`, "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

func validateDocument(applicationID, documentType, filename string, data []byte) (string, error) {
	if strings.TrimSpace(applicationID) == "" {
		return "", NewInvalidDocumentError("application id is required")
	}
	if strings.TrimSpace(documentType) == "" {
		return "", NewInvalidDocumentError("document type is required")
	}
	name := cleanFilename(filename)
	if name == "" {
		return "", NewInvalidDocumentError("filename is required")
	}
	if len(data) == 0 {
		return "", NewInvalidDocumentError("document is empty")
	}
	return name, nil
}

// StoredDocument is a document held by MemoryRepository.
type StoredDocument struct {
	ApplicationID string
	DocumentType  string
	Filename      string
	Path          string
	Data          []byte
}

// MemoryRepository is a process-local Repository.
type MemoryRepository struct {
	mu           sync.RWMutex
	applications map[string]Record
	documents    map[string]StoredDocument
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		applications: make(map[string]Record),
		documents:    make(map[string]StoredDocument),
	}
}

// CreateApplication stores record under a new uuid.
func (r *MemoryRepository) CreateApplication(ctx context.Context, record Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", NewInsertFailedError(err, true)
	}
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.applications[id] = record
	return id, nil
}

// UploadDocument stores data for an existing application.
func (r *MemoryRepository) UploadDocument(ctx context.Context, applicationID, documentType, filename string, data []byte) (string, error) {
	name, err := validateDocument(applicationID, documentType, filename, data)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", NewUploadFailedError(err, true)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.applications[applicationID]; !ok {
		return "", NewApplicationNotFoundError(applicationID)
	}
	p := DocumentPath(applicationID, documentType, name)
	r.documents[p] = StoredDocument{
		ApplicationID: applicationID,
		DocumentType:  documentType,
		Filename:      name,
		Path:          p,
		Data:          append([]byte(nil), data...),
	}
	return p, nil
}

// Application returns the record stored under id.
func (r *MemoryRepository) Application(id string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.applications[id]
	return rec, ok
}

// Document returns the document stored at p.
func (r *MemoryRepository) Document(p string) (StoredDocument, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.documents[p]
	return doc, ok
}
