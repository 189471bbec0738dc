package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"slideshow/internal/domain/models"
	"slideshow/internal/lib/logger/sl"
	"slideshow/internal/storage"
)

// JSONCreationRepo хранит индекс в JSON-файле (массив, новые записи в начале).
// Файл перезаписывается целиком после каждого изменения через временный файл и rename.
type JSONCreationRepo struct {
	log   *slog.Logger
	path  string
	mu    sync.RWMutex
	items []models.Creation
	// degraded индекс не удалось прочитать при старте, записи в нём неполные
	degraded bool
}

// NewJSONCreationRepo читает индекс с диска. Отсутствующий или испорченный файл
// даёт пустой индекс и предупреждение в лог. Испорченный файл сохраняется рядом
// как <path>.corrupt-<время>, а индекс помечается неполным до перезапуска.
func NewJSONCreationRepo(log *slog.Logger, path string) (*JSONCreationRepo, error) {
	const op = "repository.NewJSONCreationRepo"

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r := &JSONCreationRepo{
		log:   log,
		path:  path,
		items: []models.Creation{},
	}
	r.load()

	return r, nil
}

func (r *JSONCreationRepo) load() {
	log := r.log.With(slog.String("op", "repository.JSONCreationRepo.load"), slog.String("path", r.path))

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info("index file not found, starting empty")
			return
		}
		log.Warn("failed to read index, starting empty", sl.Err(err))
		r.degraded = true
		return
	}

	var items []models.Creation
	if err := json.Unmarshal(data, &items); err != nil {
		log.Warn("failed to decode index, starting empty", sl.Err(err))
		r.degraded = true
		r.preserveCorrupt(log)
		return
	}
	if items != nil {
		r.items = items
	}

	log.Info("index loaded", slog.Int("creations", len(r.items)))
}

// preserveCorrupt откладывает нечитаемый файл, чтобы первая запись его не затёрла
func (r *JSONCreationRepo) preserveCorrupt(log *slog.Logger) {
	backup := r.path + ".corrupt-" + time.Now().Format("20060102T150405.000000000")
	if err := os.Rename(r.path, backup); err != nil {
		log.Error("failed to preserve unreadable index", sl.Err(err))
		return
	}
	log.Warn("unreadable index preserved", slog.String("backup", backup))
}

// Healthy false, если при старте индекс не удалось прочитать
func (r *JSONCreationRepo) Healthy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return !r.degraded
}

func (r *JSONCreationRepo) Insert(ctx context.Context, c models.Creation) error {
	const op = "repository.JSONCreationRepo.Insert"

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(c.ID) >= 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrCreationExists)
	}

	next := make([]models.Creation, 0, len(r.items)+1)
	next = append(next, c.Clone())
	next = append(next, r.items...)

	if err := r.flush(next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	r.items = next

	return nil
}

func (r *JSONCreationRepo) Get(ctx context.Context, id string) (models.Creation, error) {
	const op = "repository.JSONCreationRepo.Get"

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Creation{}, fmt.Errorf("%s: %w", op, storage.ErrCreationNotFound)
	}

	return r.items[i].Clone(), nil
}

func (r *JSONCreationRepo) List(ctx context.Context) ([]models.Creation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneAll(r.items), nil
}

func (r *JSONCreationRepo) Delete(ctx context.Context, id string) (models.Creation, error) {
	const op = "repository.JSONCreationRepo.Delete"

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Creation{}, fmt.Errorf("%s: %w", op, storage.ErrCreationNotFound)
	}

	removed := r.items[i]

	next := make([]models.Creation, 0, len(r.items)-1)
	next = append(next, r.items[:i]...)
	next = append(next, r.items[i+1:]...)

	if err := r.flush(next); err != nil {
		return models.Creation{}, fmt.Errorf("%s: %w", op, err)
	}
	r.items = next

	return removed, nil
}

func (r *JSONCreationRepo) indexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

// flush атомарно заменяет файл индекса. Вызывается под r.mu.
func (r *JSONCreationRepo) flush(items []models.Creation) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp index: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp index: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp index: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace index: %w", err)
	}

	return nil
}
