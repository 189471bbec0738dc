package songbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"slideshow/internal/domain/models"
	"slideshow/internal/lib/logger/sl"
	"slideshow/internal/storage"

	"github.com/fsnotify/fsnotify"
	gocache "github.com/patrickmn/go-cache"
)

const (
	listKey         = "songs"
	cleanupInterval = 10 * time.Minute
)

// Songbook набор встроенных песен, лежащих в каталоге на сервере.
// Встроенные песни никогда не принадлежат слайд-шоу и не удаляются вместе с ним.
type Songbook struct {
	log     *slog.Logger
	dir     string
	baseURL string
	cache   *gocache.Cache
}

func New(log *slog.Logger, dir, baseURL string, ttl time.Duration) *Songbook {
	return &Songbook{
		log:     log,
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   gocache.New(ttl, cleanupInterval),
	}
}

// List возвращает отсортированные имена файлов с допустимым аудио-расширением
func (s *Songbook) List(ctx context.Context) ([]string, error) {
	const op = "songbook.Songbook.List"

	if v, ok := s.cache.Get(listKey); ok {
		if names, ok := v.([]string); ok {
			return append([]string(nil), names...), nil
		}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.cache.SetDefault(listKey, []string{})
			return []string{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !models.IsAllowedAudio(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	s.cache.SetDefault(listKey, names)

	return append([]string(nil), names...), nil
}

// Resolve возвращает ссылку на встроенную песню, если name совпадает с именем файла
func (s *Songbook) Resolve(ctx context.Context, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	base := filepath.Base(name)

	names, err := s.List(ctx)
	if err != nil {
		s.log.Warn("failed to list songs", slog.String("op", "songbook.Songbook.Resolve"), sl.Err(err))
		return "", false
	}

	idx := sort.SearchStrings(names, base)
	if idx == len(names) || names[idx] != base {
		return "", false
	}

	return s.baseURL + "/" + storage.EscapePath(path.Clean(base)), true
}

func (s *Songbook) Invalidate() {
	s.cache.Delete(listKey)
}

// Watch сбрасывает кэш при изменениях в каталоге песен, пока ctx не отменён
func (s *Songbook) Watch(ctx context.Context) error {
	const op = "songbook.Songbook.Watch"

	log := s.log.With(slog.String("op", op))

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := w.Add(s.dir); err != nil {
		w.Close()
		return fmt.Errorf("%s: watching %s: %w", op, s.dir, err)
	}

	go func() {
		defer w.Close()

		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				log.Debug("songs changed", slog.String("file", filepath.Base(event.Name)))
				s.Invalidate()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("watcher error", sl.Err(err))
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}
