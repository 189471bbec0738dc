package repository

import (
	"context"
	"fmt"
	"sync"

	"slideshow/internal/domain/models"
	"slideshow/internal/storage"
)

// MemoryCreationRepo держит индекс в памяти процесса. Содержимое теряется при перезапуске.
type MemoryCreationRepo struct {
	mu    sync.RWMutex
	items map[string]models.Creation
	order []string // новые в начале
}

func NewMemoryCreationRepo() *MemoryCreationRepo {
	return &MemoryCreationRepo{
		items: make(map[string]models.Creation),
	}
}

func (r *MemoryCreationRepo) Insert(ctx context.Context, c models.Creation) error {
	const op = "repository.MemoryCreationRepo.Insert"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[c.ID]; ok {
		return fmt.Errorf("%s: %w", op, storage.ErrCreationExists)
	}

	r.items[c.ID] = c.Clone()
	r.order = append([]string{c.ID}, r.order...)

	return nil
}

func (r *MemoryCreationRepo) Get(ctx context.Context, id string) (models.Creation, error) {
	const op = "repository.MemoryCreationRepo.Get"

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return models.Creation{}, fmt.Errorf("%s: %w", op, storage.ErrCreationNotFound)
	}

	return c.Clone(), nil
}

func (r *MemoryCreationRepo) List(ctx context.Context) ([]models.Creation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Creation, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id].Clone())
	}

	return out, nil
}

func (r *MemoryCreationRepo) Delete(ctx context.Context, id string) (models.Creation, error) {
	const op = "repository.MemoryCreationRepo.Delete"

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return models.Creation{}, fmt.Errorf("%s: %w", op, storage.ErrCreationNotFound)
	}

	delete(r.items, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}

	return c, nil
}
