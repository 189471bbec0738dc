// Package inline хранит ресурсы прямо в записи в виде data URI (base64).
package inline

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"slideshow/internal/storage"
)

const dataPrefix = "data:"

var fallbackTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
}

type Store struct{}

func New() *Store {
	return &Store{}
}

// Store кодирует данные в data URI. owner не используется, ссылка самодостаточна.
func (s *Store) Store(ctx context.Context, data []byte, name string, category storage.Category, owner string) (string, error) {
	const op = "inline.Store.Store"

	if err := ctx.Err(); err != nil {
		return "", err
	}

	mimeType, err := contentType(name, category)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var b strings.Builder
	b.Grow(len(dataPrefix) + len(mimeType) + len(";base64,") + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(dataPrefix)
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))

	return b.String(), nil
}

// Remove ничего не освобождает, ресурс исчезает вместе с записью
func (s *Store) Remove(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, dataPrefix) {
		return fmt.Errorf("inline.Store.Remove: %w", storage.ErrFileNotFound)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, ref string) bool {
	return strings.HasPrefix(ref, dataPrefix)
}

func (s *Store) RemoveOwner(ctx context.Context, owner string) error {
	return nil
}

// Decode возвращает MIME-тип и содержимое data URI, созданного Store
func Decode(ref string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(ref, dataPrefix)
	if !ok {
		return "", nil, storage.ErrFileNotFound
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data uri")
	}

	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data uri is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode payload: %w", err)
	}

	return mimeType, data, nil
}

func contentType(name string, category storage.Category) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))

	if t, ok := fallbackTypes[ext]; ok {
		return t, nil
	}
	if t := mime.TypeByExtension(ext); t != "" {
		mediaType, _, err := mime.ParseMediaType(t)
		if err == nil {
			return mediaType, nil
		}
	}

	switch category {
	case storage.CategoryImage, storage.CategoryQR:
		return "image/png", nil
	case storage.CategoryAudio:
		return "audio/mpeg", nil
	default:
		return "", fmt.Errorf("unknown category %q: %w", category, storage.ErrInvalidFileType)
	}
}
