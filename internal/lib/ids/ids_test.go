package ids

import (
	"regexp"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexID = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestNewHex(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewHex()
		require.Regexp(t, hexID, id)

		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestNewKSUID(t *testing.T) {
	id := NewKSUID()
	assert.Len(t, id, 27)

	_, err := ksuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, NewKSUID())
}

func TestFromScheme(t *testing.T) {
	tests := []struct {
		scheme  string
		wantLen int
		wantErr bool
	}{
		{scheme: "", wantLen: 32},
		{scheme: SchemeUUID, wantLen: 32},
		{scheme: SchemeKSUID, wantLen: 27},
		{scheme: "snowflake", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.scheme, func(t *testing.T) {
			gen, err := FromScheme(tt.scheme)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, gen(), tt.wantLen)
		})
	}
}
