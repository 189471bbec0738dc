package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"slideshow/internal/domain/models"
	"slideshow/internal/lib/logger/sl"
	"slideshow/internal/metrics"
	"slideshow/internal/storage"
	"slideshow/internal/storage/filestorage"

	"github.com/robfig/cron/v3"
)

// AssetFolders каталоги ресурсов по владельцам
type AssetFolders interface {
	Owners(ctx context.Context) ([]filestorage.Owner, error)
	PurgeOwner(ctx context.Context, owner string) error
}

type Index interface {
	Get(ctx context.Context, id string) (models.Creation, error)
}

// healthReporter реализуют индексы, которые могут оказаться неполными (JSON после сбоя чтения)
type healthReporter interface {
	Healthy() bool
}

// ErrIndexDegraded индекс неполный, по нему нельзя судить о сиротах
var ErrIndexDegraded = errors.New("index is degraded")

// Sweeper удаляет каталоги ресурсов, на которые не ссылается ни одна запись индекса.
// Такие каталоги остаются после сбоя процесса между записью файлов и вставкой в индекс.
type Sweeper struct {
	log     *slog.Logger
	cron    *cron.Cron
	folders AssetFolders
	index   Index
	minAge  time.Duration
	now     func() time.Time
}

func NewSweeper(log *slog.Logger, folders AssetFolders, index Index, minAge time.Duration) *Sweeper {
	return &Sweeper{
		log:     log,
		cron:    cron.New(cron.WithSeconds()),
		folders: folders,
		index:   index,
		minAge:  minAge,
		now:     time.Now,
	}
}

// Start запускает очистку по расписанию в формате cron с секундами
func (s *Sweeper) Start(schedule string) error {
	const op = "jobs.Sweeper.Start"

	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := s.Sweep(ctx); err != nil {
			s.log.Error("sweep failed", slog.String("op", op), sl.Err(err))
		}
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cron.Start()
	s.log.Info("sweeper started", slog.String("schedule", schedule))

	return nil
}

func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep проходит по каталогам один раз и возвращает число удалённых.
// Каталоги моложе minAge не трогаются: они могут принадлежать создаваемой записи.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	const op = "jobs.Sweeper.Sweep"

	log := s.log.With(slog.String("op", op))

	if h, ok := s.index.(healthReporter); ok && !h.Healthy() {
		log.Warn("index is degraded, sweep skipped")
		return 0, fmt.Errorf("%s: %w", op, ErrIndexDegraded)
	}

	owners, err := s.folders.Owners(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	cutoff := s.now().Add(-s.minAge)
	removed := 0

	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if owner.ModTime.After(cutoff) {
			continue
		}

		_, err := s.index.Get(ctx, owner.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrCreationNotFound) {
			return removed, fmt.Errorf("%s: %w", op, err)
		}

		if err := s.folders.PurgeOwner(ctx, owner.ID); err != nil {
			log.Warn("failed to purge orphan folder", slog.String("owner", owner.ID), sl.Err(err))
			continue
		}

		removed++
		metrics.OrphansSwept.Inc()
		log.Info("orphan folder removed", slog.String("owner", owner.ID))
	}

	return removed, nil
}
