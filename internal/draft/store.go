package draft

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrDraftNotFound is returned when no draft exists for an id, including
// drafts that have expired.
var ErrDraftNotFound = errors.New("draft not found")

// Store keeps draft applications between requests.
type Store interface {
	Save(ctx context.Context, app *Application) error
	Load(ctx context.Context, id string) (*Application, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore is a process-local Store. Drafts are kept in their encoded
// form so both stores share one serialization path.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string][]byte
	now    func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[string][]byte),
		now:    time.Now,
	}
}

// Save stores app, stamping UpdatedAt.
func (s *MemoryStore) Save(ctx context.Context, app *Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	app.UpdatedAt = s.now().UTC()
	data, err := Encode(app)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[app.ID] = data
	return nil
}

// Load returns the draft stored under id.
func (s *MemoryStore) Load(ctx context.Context, id string) (*Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.drafts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrDraftNotFound
	}
	return Decode(data)
}

// Delete removes the draft stored under id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(s.drafts, id)
	return nil
}
