package repository

import (
	"context"

	"slideshow/internal/domain/models"
)

// CreationRepository индекс слайд-шоу.
//
// List возвращает записи от новых к старым. Insert отклоняет повторный id
// ошибкой storage.ErrCreationExists, Get и Delete для неизвестного id
// возвращают storage.ErrCreationNotFound.
type CreationRepository interface {
	Insert(ctx context.Context, c models.Creation) error
	Get(ctx context.Context, id string) (models.Creation, error)
	List(ctx context.Context) ([]models.Creation, error)
	Delete(ctx context.Context, id string) (models.Creation, error)
}

var (
	_ CreationRepository = (*MemoryCreationRepo)(nil)
	_ CreationRepository = (*JSONCreationRepo)(nil)
	_ CreationRepository = (*RedisCreationRepo)(nil)
	_ CreationRepository = (*PostgresCreationRepo)(nil)
)

func cloneAll(items []models.Creation) []models.Creation {
	out := make([]models.Creation, len(items))
	for i, c := range items {
		out[i] = c.Clone()
	}
	return out
}
