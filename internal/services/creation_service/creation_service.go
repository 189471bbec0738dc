package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"slideshow/internal/domain/models"
	"slideshow/internal/lib/ids"
	"slideshow/internal/lib/logger/sl"
	"slideshow/internal/lib/qr"
	"slideshow/internal/metrics"
	"slideshow/internal/repository"
	"slideshow/internal/storage"
	"slideshow/internal/transport/http/dto"
)

const (
	maxIDAttempts = 3
	qrName        = "qr.png"

	WarnSongUnsupported = "Uploaded song file type not supported. Skipping uploaded song."
)

// MediaStore хранилище ресурсов слайд-шоу (файлы, объектное хранилище или data URI)
type MediaStore interface {
	Store(ctx context.Context, data []byte, name string, category storage.Category, owner string) (string, error)
	Remove(ctx context.Context, ref string) error
	Exists(ctx context.Context, ref string) bool
	RemoveOwner(ctx context.Context, owner string) error
}

// Songbook встроенные песни сервера
type Songbook interface {
	Resolve(ctx context.Context, name string) (string, bool)
}

type CreateResult struct {
	Creation models.Creation
	Warnings []string
}

// CreationService реестр слайд-шоу: владеет индексом и ресурсами каждой записи
type CreationService struct {
	log      *slog.Logger
	repo     repository.CreationRepository
	media    MediaStore
	songs    Songbook
	newID    ids.Generator
	encodeQR func(string) ([]byte, error)
	now      func() time.Time
}

type Option func(*CreationService)

func WithIDGenerator(gen ids.Generator) Option {
	return func(s *CreationService) {
		s.newID = gen
	}
}

func WithQREncoder(encode func(string) ([]byte, error)) Option {
	return func(s *CreationService) {
		s.encodeQR = encode
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *CreationService) {
		s.now = now
	}
}

func NewCreationService(log *slog.Logger, repo repository.CreationRepository, media MediaStore, songs Songbook, opts ...Option) *CreationService {
	s := &CreationService{
		log:      log,
		repo:     repo,
		media:    media,
		songs:    songs,
		newID:    ids.NewHex,
		encodeQR: qr.Encode,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create сохраняет изображения и песню, строит ссылку и QR-код и добавляет запись в начало индекса.
// При любой ошибке хранилища уже записанные ресурсы удаляются, запись не создаётся.
func (s *CreationService) Create(ctx context.Context, input dto.CreationInput) (*CreateResult, error) {
	const op = "creation_service.Create"

	log := s.log.With(slog.String("op", op))

	images := acceptedImages(input.Images)
	if len(images) == 0 {
		log.Info("no acceptable images in submission", slog.Int("submitted", len(input.Images)))

		return nil, &models.ValidationError{
			Errors: []string{"at least one image with an allowed extension is required"},
			Err:    models.ErrNoImages,
		}
	}

	id, err := s.mintID(ctx)
	if err != nil {
		log.Error("failed to mint id", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("id", id))

	var written []string
	fail := func(err error) (*CreateResult, error) {
		s.rollback(ctx, log, id, written)
		log.Error("failed to create slideshow", sl.Err(err))

		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrStorageFailure, err)
	}

	creation := models.Creation{
		ID:     id,
		Images: make([]string, 0, len(images)),
	}

	for _, fh := range images {
		ref, err := s.storeUpload(ctx, fh, storage.CategoryImage, id)
		if err != nil {
			return fail(fmt.Errorf("store image %q: %w", fh.Filename, err))
		}
		written = append(written, ref)
		creation.Images = append(creation.Images, ref)
	}
	creation.Thumb = creation.Images[0]

	result := &CreateResult{}

	if up := input.SongUpload; up != nil && up.Filename != "" {
		if models.IsAllowedAudio(up.Filename) {
			ref, err := s.storeUpload(ctx, up, storage.CategoryAudio, id)
			if err != nil {
				return fail(fmt.Errorf("store song %q: %w", up.Filename, err))
			}
			written = append(written, ref)
			creation.Song = ref
			creation.SongOwned = true
		} else {
			log.Info("uploaded song skipped", slog.String("filename", up.Filename))
			result.Warnings = append(result.Warnings, WarnSongUnsupported)
		}
	}

	if creation.Song == "" && input.SongSelect != "" {
		if ref, ok := s.songs.Resolve(ctx, input.SongSelect); ok {
			creation.Song = ref
		} else {
			log.Debug("unknown built-in song ignored", slog.String("song", input.SongSelect))
		}
	}

	creation.URL = strings.TrimRight(input.BaseURL, "/") + "/view/" + id

	png, err := s.encodeQR(creation.URL)
	if err != nil {
		return fail(fmt.Errorf("encode qr: %w", err))
	}

	creation.QR, err = s.media.Store(ctx, png, qrName, storage.CategoryQR, id)
	if err != nil {
		return fail(fmt.Errorf("store qr: %w", err))
	}
	written = append(written, creation.QR)

	creation.Theme = strings.TrimSpace(input.Theme)
	if creation.Theme == "" {
		creation.Theme = models.DefaultTheme
	}
	creation.Date = s.now().Format(models.DateLayout)

	if err := creation.Validate(); err != nil {
		s.rollback(ctx, log, id, written)
		log.Error("assembled creation is invalid", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.Insert(ctx, creation); err != nil {
		if errors.Is(err, storage.ErrCreationExists) {
			s.rollback(ctx, log, id, written)
			log.Warn("id taken concurrently", sl.Err(err))

			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return fail(err)
	}

	metrics.CreationsCreated.Inc()
	log.Info("slideshow created", slog.Int("images", len(creation.Images)), slog.Bool("song", creation.Song != ""))

	result.Creation = creation.Clone()

	return result, nil
}

func (s *CreationService) Get(ctx context.Context, id string) (*models.Creation, error) {
	const op = "creation_service.Get"

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &c, nil
}

// List возвращает копию индекса, новые записи первыми
func (s *CreationService) List(ctx context.Context) ([]models.Creation, error) {
	const op = "creation_service.List"

	items, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("failed to list slideshows", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// Delete убирает запись из индекса, затем удаляет её ресурсы.
// Ошибки удаления ресурсов только логируются.
func (s *CreationService) Delete(ctx context.Context, id string) error {
	const op = "creation_service.Delete"

	log := s.log.With(slog.String("op", op), slog.String("id", id))

	c, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrCreationNotFound) {
			log.Info("slideshow not found")
		} else {
			log.Error("failed to delete slideshow", sl.Err(err))
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.CreationsDeleted.Inc()

	s.cleanup(ctx, log, c.ID, c.OwnedAssets())

	log.Info("slideshow deleted")

	return nil
}

func (s *CreationService) mintID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()

		_, err := s.repo.Get(ctx, id)
		if errors.Is(err, storage.ErrCreationNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", storage.ErrStorageFailure, err)
		}
	}

	return "", storage.ErrCreationExists
}

func (s *CreationService) storeUpload(ctx context.Context, fh *multipart.FileHeader, category storage.Category, owner string) (string, error) {
	data, err := readUpload(fh)
	if err != nil {
		return "", err
	}

	name := ids.NewHex() + "_" + filepath.Base(fh.Filename)

	return s.media.Store(ctx, data, name, category, owner)
}

func (s *CreationService) rollback(ctx context.Context, log *slog.Logger, owner string, refs []string) {
	if len(refs) > 0 {
		log.Warn("rolling back stored assets", slog.Int("assets", len(refs)))
	}
	s.cleanup(ctx, log, owner, refs)
}

func (s *CreationService) cleanup(ctx context.Context, log *slog.Logger, owner string, refs []string) {
	for _, ref := range refs {
		if !s.media.Exists(ctx, ref) {
			log.Debug("asset already gone", slog.String("ref", shortRef(ref)))
			continue
		}
		if err := s.media.Remove(ctx, ref); err != nil {
			metrics.AssetCleanupFailures.Inc()
			log.Warn("failed to remove asset", slog.String("ref", shortRef(ref)), sl.Err(err))
		}
	}

	if err := s.media.RemoveOwner(ctx, owner); err != nil {
		metrics.AssetCleanupFailures.Inc()
		log.Warn("failed to remove asset folder", sl.Err(err))
	}
}

func acceptedImages(files []*multipart.FileHeader) []*multipart.FileHeader {
	out := make([]*multipart.FileHeader, 0, len(files))
	for _, fh := range files {
		if fh == nil || fh.Filename == "" {
			continue
		}
		if !models.IsAllowedImage(fh.Filename) {
			continue
		}
		out = append(out, fh)
	}
	return out
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	return data, nil
}

// shortRef обрезает data URI для логов
func shortRef(ref string) string {
	const limit = 64
	if len(ref) <= limit {
		return ref
	}
	return ref[:limit] + "..."
}
