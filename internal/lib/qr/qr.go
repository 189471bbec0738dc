// Package qr рисует QR-коды ссылок в PNG.
package qr

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// Size сторона изображения в пикселях
const Size = 256

var ErrEmptyText = errors.New("qr: empty text")

// Encode возвращает PNG с QR-кодом для text
func Encode(text string) ([]byte, error) {
	const op = "qr.Encode"

	if text == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyText)
	}

	png, err := qrcode.Encode(text, qrcode.Medium, Size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return png, nil
}

// DataURI возвращает QR-код в виде data:image/png;base64,...
func DataURI(text string) (string, error) {
	png, err := Encode(text)
	if err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
