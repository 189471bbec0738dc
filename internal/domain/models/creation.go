package models

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultTheme используется, если пользователь не выбрал тему
	DefaultTheme = "cinematic"
	// DateLayout формат поля Date
	DateLayout = "2006-01-02 15:04:05"
)

var ErrNoImages = errors.New("no accepted images")

// Creation представляет собой одно слайд-шоу
type Creation struct {
	ID     string   `json:"id"`     // Непрозрачный уникальный идентификатор
	URL    string   `json:"url"`    // Адрес страницы просмотра
	QR     string   `json:"qr"`     // Ссылка на QR-код (путь или data URI)
	Thumb  string   `json:"thumb"`  // Первое изображение или пустая строка
	Theme  string   `json:"theme"`  // Визуальная тема
	Song   string   `json:"song"`   // Ссылка на аудио, пустая строка - без музыки
	Date   string   `json:"date"`   // Дата создания в формате DateLayout
	Images []string `json:"images"` // Ссылки на изображения в порядке показа

	// SongOwned - песня была загружена вместе с этим слайд-шоу и удаляется вместе с ним
	SongOwned bool `json:"song_owned,omitempty"`
}

// Clone возвращает копию записи, не разделяющую срез Images с оригиналом
func (c Creation) Clone() Creation {
	out := c
	if c.Images != nil {
		out.Images = make([]string, len(c.Images))
		copy(out.Images, c.Images)
	}
	return out
}

// OwnedAssets возвращает ссылки на ресурсы, принадлежащие только этой записи.
// Встроенные песни сюда не попадают.
func (c Creation) OwnedAssets() []string {
	refs := make([]string, 0, len(c.Images)+2)
	refs = append(refs, c.Images...)
	if c.SongOwned && c.Song != "" {
		refs = append(refs, c.Song)
	}
	if c.QR != "" {
		refs = append(refs, c.QR)
	}
	return refs
}

// Validate проверяет корректность записи перед сохранением
func (c *Creation) Validate() error {
	var validationErrors []string

	if c.ID == "" {
		validationErrors = append(validationErrors, "id is required")
	}
	if c.URL == "" {
		validationErrors = append(validationErrors, "url is required")
	}
	if c.QR == "" {
		validationErrors = append(validationErrors, "qr is required")
	}

	if len(c.Images) == 0 {
		return &ValidationError{
			Errors: append(validationErrors, "at least one image is required"),
			Err:    ErrNoImages,
		}
	}
	if c.Thumb != c.Images[0] {
		validationErrors = append(validationErrors, "thumb must reference the first image")
	}

	if len(validationErrors) > 0 {
		return &ValidationError{
			Errors: validationErrors,
		}
	}

	return nil
}

// ValidationError ошибка, которую пользователь может исправить повторной отправкой
type ValidationError struct {
	Errors []string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("creation validation failed: %s", strings.Join(e.Errors, "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError проверяет, является ли ошибка ошибкой валидации
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
