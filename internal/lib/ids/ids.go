// Package ids выдаёт идентификаторы слайд-шоу.
package ids

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

const (
	SchemeUUID  = "uuid"
	SchemeKSUID = "ksuid"
)

// Generator возвращает новый идентификатор при каждом вызове
type Generator func() string

// NewHex случайный UUIDv4 в виде 32 строчных hex-символов
func NewHex() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// NewKSUID KSUID из 27 символов, упорядоченный по времени
func NewKSUID() string {
	return ksuid.New().String()
}

func FromScheme(scheme string) (Generator, error) {
	switch scheme {
	case "", SchemeUUID:
		return NewHex, nil
	case SchemeKSUID:
		return NewKSUID, nil
	default:
		return nil, fmt.Errorf("ids.FromScheme: unknown id scheme %q", scheme)
	}
}
