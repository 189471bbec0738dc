package models

import (
	"path/filepath"
	"strings"
)

type AssetKind string

const (
	AssetKindImage AssetKind = "image"
	AssetKindAudio AssetKind = "audio"
)

var (
	AllowedImageExt = map[string]struct{}{
		".png":  {},
		".jpg":  {},
		".jpeg": {},
		".gif":  {},
		".webp": {},
	}

	AllowedAudioExt = map[string]struct{}{
		".mp3": {},
		".ogg": {},
		".wav": {},
		".m4a": {},
	}
)

// IsAllowedImage проверяет расширение файла по списку допустимых изображений (без учета регистра)
func IsAllowedImage(filename string) bool {
	return allowed(filename, AllowedImageExt)
}

// IsAllowedAudio проверяет расширение файла по списку допустимых аудиоформатов (без учета регистра)
func IsAllowedAudio(filename string) bool {
	return allowed(filename, AllowedAudioExt)
}

func allowed(filename string, set map[string]struct{}) bool {
	_, ok := set[strings.ToLower(filepath.Ext(filename))]
	return ok
}
