package filestorage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"slideshow/internal/storage"
)

const (
	uploadsDir = "uploads"
	tracksDir  = "tracks"
)

// LocalFileStorage хранит ресурсы слайд-шоу в локальной файловой системе.
//
// Изображения и QR-коды лежат в uploads/<owner>/, загруженные песни в tracks/<owner>/.
// Ссылка на ресурс - это baseURL + относительный путь.
type LocalFileStorage struct {
	baseDir string // Базовый каталог для хранения (например: "./static")
	baseURL string // Базовый URL для доступа к файлам (например: "/static")
}

// Owner описывает каталог ресурсов одного слайд-шоу
type Owner struct {
	ID      string
	ModTime time.Time
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Store сохраняет ресурс и возвращает ссылку на него
func (s *LocalFileStorage) Store(ctx context.Context, data []byte, name string, category storage.Category, owner string) (string, error) {
	const op = "filestorage.LocalFileStorage.Store"

	if err := ctx.Err(); err != nil {
		return "", err
	}

	relPath, err := relativePath(category, owner, name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	filePath := s.GetFullPath(relPath)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return "", fmt.Errorf("%s: failed to create directories: %w", op, err)
		}
	}

	// O_EXCL: два ресурса никогда не делят один файл
	dst, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("%s: failed to create destination file: %w", op, err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var copyErr error

	go func() {
		_, copyErr = io.Copy(dst, bytes.NewReader(data))
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return "", fmt.Errorf("%s: failed to copy file: %w", op, copyErr)
		}
	case <-ctx.Done():
		<-done
		_ = os.Remove(filePath)
		return "", ctx.Err()
	}

	return s.baseURL + "/" + storage.EscapePath(relPath), nil
}

// Remove удаляет файл по ссылке
func (s *LocalFileStorage) Remove(ctx context.Context, ref string) error {
	const op = "filestorage.LocalFileStorage.Remove"

	relPath, ok := s.relFromRef(ref)
	if !ok {
		return fmt.Errorf("%s: %s: %w", op, ref, storage.ErrFileNotFound)
	}

	if err := os.Remove(s.GetFullPath(relPath)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %s: %w", op, ref, storage.ErrFileNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Exists сообщает, существует ли файл по ссылке
func (s *LocalFileStorage) Exists(ctx context.Context, ref string) bool {
	relPath, ok := s.relFromRef(ref)
	if !ok {
		return false
	}

	info, err := os.Stat(s.GetFullPath(relPath))
	return err == nil && info.Mode().IsRegular()
}

// RemoveOwner удаляет каталоги владельца, только если они пусты.
// Отсутствующий или непустой каталог не считается ошибкой.
func (s *LocalFileStorage) RemoveOwner(ctx context.Context, owner string) error {
	const op = "filestorage.LocalFileStorage.RemoveOwner"

	if !validSegment(owner) {
		return fmt.Errorf("%s: invalid owner %q", op, owner)
	}

	var errs []error
	for _, dir := range []string{uploadsDir, tracksDir} {
		err := os.Remove(filepath.Join(s.baseDir, dir, owner))
		if err == nil || errors.Is(err, os.ErrNotExist) || isDirNotEmpty(err) {
			continue
		}
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Owners перечисляет каталоги владельцев в uploads/
func (s *LocalFileStorage) Owners(ctx context.Context) ([]Owner, error) {
	const op = "filestorage.LocalFileStorage.Owners"

	entries, err := os.ReadDir(filepath.Join(s.baseDir, uploadsDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	owners := make([]Owner, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		owners = append(owners, Owner{ID: entry.Name(), ModTime: info.ModTime()})
	}

	return owners, nil
}

// PurgeOwner удаляет все ресурсы владельца вместе с каталогами.
// Используется только для каталогов, у которых нет записи в индексе.
func (s *LocalFileStorage) PurgeOwner(ctx context.Context, owner string) error {
	const op = "filestorage.LocalFileStorage.PurgeOwner"

	if !validSegment(owner) {
		return fmt.Errorf("%s: invalid owner %q", op, owner)
	}

	for _, dir := range []string{uploadsDir, tracksDir} {
		if err := os.RemoveAll(filepath.Join(s.baseDir, dir, owner)); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// GetFullPath возвращает полный путь к файлу на диске
func (s *LocalFileStorage) GetFullPath(relativePath string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(relativePath))
}

// BaseURL возвращает базовый URL для доступа к файлам
func (s *LocalFileStorage) BaseURL() string {
	return s.baseURL
}

func (s *LocalFileStorage) GetBaseDir() string {
	return s.baseDir
}

func (s *LocalFileStorage) relFromRef(ref string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}

	rel := storage.UnescapePath(strings.TrimPrefix(ref, prefix))
	if rel == "" || path.Clean(rel) != rel || strings.HasPrefix(rel, "../") || rel == ".." {
		return "", false
	}

	return rel, true
}

func relativePath(category storage.Category, owner, name string) (string, error) {
	if !validSegment(owner) {
		return "", fmt.Errorf("invalid owner %q", owner)
	}

	name = filepath.Base(filepath.Clean("/" + name))
	if !validSegment(name) {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	switch category {
	case storage.CategoryImage, storage.CategoryQR:
		return path.Join(uploadsDir, owner, name), nil
	case storage.CategoryAudio:
		return path.Join(tracksDir, owner, name), nil
	default:
		return "", fmt.Errorf("unknown category %q: %w", category, storage.ErrInvalidFileType)
	}
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func isDirNotEmpty(err error) bool {
	return errors.Is(err, syscall.ENOTEMPTY) || errors.Is(err, syscall.EEXIST)
}
