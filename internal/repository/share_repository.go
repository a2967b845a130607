package repository

import (
	"context"
	"errors"
	"sync"

	"meetnotes/backend/internal/model"
)

//go:generate mockgen -source=share_repository.go -destination=mock/mock_share_repository.go -package=mock

// ErrDuplicateID is returned when an id is already taken; existing shares are never overwritten.
var ErrDuplicateID = errors.New("share id already exists")

// ShareRepository defines the interface for share storage.
type ShareRepository interface {
	Create(ctx context.Context, share model.Share) error
	// Get returns nil, nil when the id is unknown.
	Get(ctx context.Context, id string) (*model.Share, error)
	Count(ctx context.Context) (int, error)
}

type memoryShareRepository struct {
	mu     sync.RWMutex
	shares map[string]model.Share
}

// NewMemoryShareRepository creates a process-local share repository.
// Entries live until the process exits.
func NewMemoryShareRepository() ShareRepository {
	return &memoryShareRepository{shares: make(map[string]model.Share)}
}

func (r *memoryShareRepository) Create(ctx context.Context, share model.Share) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.shares[share.ID]; exists {
		return ErrDuplicateID
	}
	r.shares[share.ID] = share
	return nil
}

func (r *memoryShareRepository) Get(ctx context.Context, id string) (*model.Share, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	share, ok := r.shares[id]
	r.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	return &share, nil
}

func (r *memoryShareRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shares), nil
}
