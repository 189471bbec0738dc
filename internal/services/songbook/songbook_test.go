package songbook

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSongbook(t *testing.T, files ...string) (*Songbook, string) {
	t.Helper()

	dir := t.TempDir()
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("audio"), 0644))
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(log, dir, "/static/songs/", time.Minute), dir
}

func TestSongbook_List(t *testing.T) {
	sb, dir := newTestSongbook(t, "b.mp3", "a.OGG", "notes.txt", "c.wav")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.mp3"), 0755))

	names, err := sb.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.OGG", "b.mp3", "c.wav"}, names)
}

func TestSongbook_ListMissingDir(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sb := New(log, filepath.Join(t.TempDir(), "missing"), "/static/songs", time.Minute)

	names, err := sb.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSongbook_ListIsCached(t *testing.T) {
	sb, dir := newTestSongbook(t, "a.mp3")
	ctx := context.Background()

	names, err := sb.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a.mp3"}, names)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.mp3"), []byte("x"), 0644))

	names, err = sb.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3"}, names)

	sb.Invalidate()

	names, err = sb.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3", "b.mp3"}, names)
}

func TestSongbook_ListReturnsCopy(t *testing.T) {
	sb, _ := newTestSongbook(t, "a.mp3")
	ctx := context.Background()

	names, err := sb.List(ctx)
	require.NoError(t, err)
	names[0] = "mutated"

	names, err = sb.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3"}, names)
}

func TestSongbook_Resolve(t *testing.T) {
	sb, _ := newTestSongbook(t, "intro.mp3", "notes.txt", "100% hits.mp3")
	ctx := context.Background()

	tests := []struct {
		name    string
		input   string
		wantRef string
		wantOK  bool
	}{
		{name: "known song", input: "intro.mp3", wantRef: "/static/songs/intro.mp3", wantOK: true},
		{name: "directory components stripped", input: "../../intro.mp3", wantRef: "/static/songs/intro.mp3", wantOK: true},
		{name: "name is escaped in the reference", input: "100% hits.mp3", wantRef: "/static/songs/100%25%20hits.mp3", wantOK: true},
		{name: "unknown song", input: "missing.mp3"},
		{name: "disallowed extension", input: "notes.txt"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := sb.Resolve(ctx, tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRef, ref)
		})
	}
}

func TestSongbook_Watch(t *testing.T) {
	sb, dir := newTestSongbook(t, "a.mp3")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := sb.List(ctx)
	require.NoError(t, err)

	require.NoError(t, sb.Watch(ctx))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.mp3"), []byte("x"), 0644))

	assert.Eventually(t, func() bool {
		names, err := sb.List(ctx)
		return err == nil && len(names) == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestSongbook_WatchMissingDir(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sb := New(log, filepath.Join(t.TempDir(), "missing"), "/static/songs", time.Minute)

	assert.Error(t, sb.Watch(context.Background()))
}
