package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "slideshow/internal/app/http"
	"slideshow/internal/config"
	"slideshow/internal/jobs"
	"slideshow/internal/lib/ids"
	"slideshow/internal/lib/logger/sl"
	"slideshow/internal/repository"
	services "slideshow/internal/services/creation_service"
	"slideshow/internal/services/songbook"
	"slideshow/internal/storage/filestorage"
	"slideshow/internal/storage/inline"
	"slideshow/internal/storage/objectstore"
	"slideshow/internal/storage/postgresql"
	redisapp "slideshow/internal/storage/redis"
	httprouters "slideshow/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
	Sweeper    *jobs.Sweeper

	log     *slog.Logger
	cancel  context.CancelFunc
	closers []func()
}

// New собирает приложение: индекс и хранилище ресурсов выбираются по storage.mode и media.backend
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	ctx, cancel := context.WithCancel(ctx)

	a := &App{log: log, cancel: cancel}

	idGen, err := ids.FromScheme(cfg.Storage.IDScheme)
	if err != nil {
		return a.fail(op, err)
	}

	repo, err := a.setupRepository(ctx, cfg)
	if err != nil {
		return a.fail(op, err)
	}

	media, files, err := a.setupMedia(ctx, cfg)
	if err != nil {
		return a.fail(op, err)
	}

	songs := songbook.New(log, cfg.Songs.Dir, cfg.Songs.BaseURL, cfg.Songs.CacheTTL)
	if cfg.Songs.Watch {
		if err := songs.Watch(ctx); err != nil {
			log.Warn("songs directory is not watched", sl.Err(err))
		}
	}

	creationService := services.NewCreationService(log, repo, media, songs, services.WithIDGenerator(idGen))

	if cfg.Sweeper.Enabled {
		if files == nil {
			log.Warn("sweeper needs local file storage, skipped", slog.String("media", cfg.Media.Backend))
		} else {
			a.Sweeper = jobs.NewSweeper(log, files, repo, cfg.Sweeper.MinAge)
			if err := a.Sweeper.Start(cfg.Sweeper.Schedule); err != nil {
				return a.fail(op, err)
			}
		}
	}

	routers := httprouters.NewRouter(log, creationService, songs, cfg.HTTP.BaseURL)

	a.HTTPServer, err = httpapp.New(log, cfg, routers)
	if err != nil {
		return a.fail(op, err)
	}

	return a, nil
}

func (a *App) setupRepository(ctx context.Context, cfg *config.Config) (repository.CreationRepository, error) {
	switch cfg.Storage.Mode {
	case config.StorageModeMemory:
		return repository.NewMemoryCreationRepo(), nil

	case config.StorageModeDisk:
		return repository.NewJSONCreationRepo(a.log, cfg.Storage.IndexFile)

	case config.StorageModeRedis:
		client, err := redisapp.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() {
			if err := client.Close(); err != nil {
				a.log.Warn("failed to close redis", sl.Err(err))
			}
		})

		return repository.NewRedisCreationRepo(client), nil

	case config.StorageModePostgres:
		db, err := postgresql.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Stop)

		if err := db.Migrate(ctx); err != nil {
			return nil, err
		}

		return repository.NewPostgresCreationRepo(db.Pool()), nil
	}

	return nil, fmt.Errorf("unknown storage mode %q", cfg.Storage.Mode)
}

// setupMedia возвращает хранилище ресурсов и, если оно локальное, его каталоги для очистки
func (a *App) setupMedia(ctx context.Context, cfg *config.Config) (services.MediaStore, *filestorage.LocalFileStorage, error) {
	if cfg.Storage.Mode == config.StorageModeMemory {
		return inline.New(), nil, nil
	}

	switch cfg.Media.Backend {
	case config.MediaBackendLocal, "":
		files, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
		if err != nil {
			return nil, nil, err
		}
		return files, files, nil

	case config.MediaBackendMinio:
		store, err := objectstore.New(cfg.Minio)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}

	return nil, nil, fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
}

func (a *App) fail(op string, err error) (*App, error) {
	a.Stop()
	return nil, fmt.Errorf("%s: %w", op, err)
}

// Stop останавливает фоновые задачи и закрывает соединения. HTTP-сервер останавливается отдельно.
func (a *App) Stop() {
	if a.Sweeper != nil {
		a.Sweeper.Stop()
	}

	a.cancel()

	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
