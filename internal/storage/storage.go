package storage

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrCreationExists   = errors.New("creation already exists")
	ErrCreationNotFound = errors.New("creation not found")
)

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
	ErrStorageFailure  = errors.New("storage failure")
)

// Category определяет область хранения ресурса
type Category string

const (
	CategoryImage Category = "image"
	CategoryAudio Category = "audio"
	CategoryQR    Category = "qr"
)

// EscapePath экранирует каждый сегмент относительного пути для подстановки в URL
func EscapePath(rel string) string {
	segments := strings.Split(rel, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// UnescapePath обратное к EscapePath. Ссылки, сохранённые без экранирования, возвращаются как есть.
func UnescapePath(escaped string) string {
	segments := strings.Split(escaped, "/")
	for i, seg := range segments {
		if raw, err := url.PathUnescape(seg); err == nil {
			segments[i] = raw
		}
	}
	return strings.Join(segments, "/")
}
