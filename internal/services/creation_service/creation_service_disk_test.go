package services_test

import (
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slideshow/internal/domain/models"
	"slideshow/internal/repository"
	services "slideshow/internal/services/creation_service"
	"slideshow/internal/services/songbook"
	"slideshow/internal/storage"
	"slideshow/internal/storage/filestorage"
	"slideshow/internal/transport/http/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type diskFixture struct {
	svc       *services.CreationService
	files     *filestorage.LocalFileStorage
	baseDir   string
	songsDir  string
	indexPath string
}

// newDiskFixture собирает сервис так же, как режим disk: файлы на диске и JSON-индекс
func newDiskFixture(t *testing.T, ids ...string) *diskFixture {
	t.Helper()

	root := t.TempDir()
	baseDir := filepath.Join(root, "static")
	songsDir := filepath.Join(baseDir, "songs")
	require.NoError(t, os.MkdirAll(songsDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(songsDir, "intro.mp3"), []byte("ID3 built-in"), 0644))

	files, err := filestorage.NewLocalFileStorage(baseDir, "/static")
	require.NoError(t, err)

	indexPath := filepath.Join(root, "creations.json")
	repo, err := repository.NewJSONCreationRepo(testLogger(), indexPath)
	require.NoError(t, err)

	songs := songbook.New(testLogger(), songsDir, "/static/songs", 0)

	svc := services.NewCreationService(testLogger(), repo, files, songs,
		services.WithClock(fixedClock),
		services.WithIDGenerator(sequence(ids...)),
	)

	return &diskFixture{svc: svc, files: files, baseDir: baseDir, songsDir: songsDir, indexPath: indexPath}
}

func (f *diskFixture) pathOf(t *testing.T, ref string) string {
	t.Helper()

	rel, ok := strings.CutPrefix(ref, "/static/")
	require.True(t, ok, "reference %s is outside /static", ref)

	return f.files.GetFullPath(storage.UnescapePath(rel))
}

func assertGone(t *testing.T, path string) {
	t.Helper()

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "%s must be removed", path)
}

func TestCreationService_Disk_CreateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newDiskFixture(t, "disk1")

	res, err := f.svc.Create(ctx, dto.CreationInput{
		Images: []*multipart.FileHeader{
			createTestFile(t, "a.png", "png-bytes"),
			createTestFile(t, "b.jpg", "jpg-bytes"),
			createTestFile(t, "c.bmp", "bmp-bytes"),
		},
		Theme:      "vintage",
		SongUpload: createTestFile(t, "track.mp3", "mp3-bytes"),
		BaseURL:    baseURL,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	c := res.Creation
	assert.Equal(t, "disk1", c.ID)
	assert.Equal(t, "http://localhost:5000/view/disk1", c.URL)
	assert.Equal(t, "vintage", c.Theme)
	assert.Equal(t, "2024-05-01 13:04:05", c.Date)

	require.Len(t, c.Images, 2)
	assert.Equal(t, c.Images[0], c.Thumb)
	for i, want := range []string{"png-bytes", "jpg-bytes"} {
		assert.True(t, strings.HasPrefix(c.Images[i], "/static/uploads/disk1/"), c.Images[i])

		data, err := os.ReadFile(f.pathOf(t, c.Images[i]))
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
	assert.True(t, strings.HasSuffix(c.Images[0], "_a.png"))
	assert.True(t, strings.HasSuffix(c.Images[1], "_b.jpg"))

	assert.True(t, c.SongOwned)
	assert.True(t, strings.HasPrefix(c.Song, "/static/tracks/disk1/"), c.Song)
	song, err := os.ReadFile(f.pathOf(t, c.Song))
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(song))

	assert.Equal(t, "/static/uploads/disk1/qr.png", c.QR)
	qrPNG, err := os.ReadFile(filepath.Join(f.baseDir, "uploads", "disk1", "qr.png"))
	require.NoError(t, err)
	assert.Equal(t, c.URL, decodeQR(t, qrPNG))

	entries, err := os.ReadDir(filepath.Join(f.baseDir, "uploads", "disk1"))
	require.NoError(t, err)
	assert.Len(t, entries, 3, "two images and the qr code, the bmp is not stored")

	t.Run("index survives restart", func(t *testing.T) {
		reopened, err := repository.NewJSONCreationRepo(testLogger(), f.indexPath)
		require.NoError(t, err)

		got, err := reopened.Get(ctx, "disk1")
		require.NoError(t, err)
		assert.Equal(t, c, got)
	})

	require.NoError(t, f.svc.Delete(ctx, "disk1"))

	for _, ref := range c.OwnedAssets() {
		assertGone(t, f.pathOf(t, ref))
	}
	assertGone(t, filepath.Join(f.baseDir, "uploads", "disk1"))
	assertGone(t, filepath.Join(f.baseDir, "tracks", "disk1"))

	_, err = f.svc.Get(ctx, "disk1")
	assert.ErrorIs(t, err, storage.ErrCreationNotFound)

	reopened, err := repository.NewJSONCreationRepo(testLogger(), f.indexPath)
	require.NoError(t, err)
	items, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreationService_Disk_BuiltInSongKept(t *testing.T) {
	ctx := context.Background()
	f := newDiskFixture(t, "disk2")

	res, err := f.svc.Create(ctx, dto.CreationInput{
		Images:     []*multipart.FileHeader{createTestFile(t, "a.webp", "webp-bytes")},
		SongSelect: "intro.mp3",
		BaseURL:    baseURL,
	})
	require.NoError(t, err)

	c := res.Creation
	assert.Equal(t, "/static/songs/intro.mp3", c.Song)
	assert.False(t, c.SongOwned)
	assert.Equal(t, models.DefaultTheme, c.Theme)
	assertGone(t, filepath.Join(f.baseDir, "tracks", "disk2"))

	require.NoError(t, f.svc.Delete(ctx, "disk2"))

	assertGone(t, f.pathOf(t, c.Images[0]))
	assertGone(t, f.pathOf(t, c.QR))
	assertGone(t, filepath.Join(f.baseDir, "uploads", "disk2"))

	data, err := os.ReadFile(filepath.Join(f.songsDir, "intro.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "ID3 built-in", string(data))
}
