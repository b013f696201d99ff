package resumes

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory parse cache, used when no database is wired.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]memoryEntry // fileName -> latest parse
}

type memoryEntry struct {
	fingerprint string
	resume      Resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]memoryEntry),
	}
}

// Get returns the cached resume when the stored fingerprint still matches.
func (r *MemoryRepo) Get(ctx context.Context, fileName, fingerprint string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.data[fileName]
	if !ok || entry.fingerprint != fingerprint {
		return Resume{}, ErrNotFound
	}
	return entry.resume, nil
}

// Put stores/overwrites the cached parse for a file.
func (r *MemoryRepo) Put(ctx context.Context, fileName, fingerprint string, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[fileName] = memoryEntry{fingerprint: fingerprint, resume: resume}
	return nil
}

// Delete drops the cached parse for a file. Missing entries are fine.
func (r *MemoryRepo) Delete(ctx context.Context, fileName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, fileName)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
