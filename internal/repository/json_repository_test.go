package repository_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"slideshow/internal/domain/models"
	"slideshow/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCreationRepo_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creations.json")

	repo, err := repository.NewJSONCreationRepo(discardLogger(), path)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(testCtx, newCreation("first")))
	require.NoError(t, repo.Insert(testCtx, newCreation("second")))

	reopened, err := repository.NewJSONCreationRepo(discardLogger(), path)
	require.NoError(t, err)

	items, err := reopened.List(testCtx)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, ids(items))

	got, err := reopened.Get(testCtx, "first")
	require.NoError(t, err)
	assert.Equal(t, newCreation("first"), got)
}

func TestJSONCreationRepo_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creations.json")

	repo, err := repository.NewJSONCreationRepo(discardLogger(), path)
	require.NoError(t, err)

	c := newCreation("fmt")
	c.Theme = "<b>тема</b>"
	require.NoError(t, repo.Insert(testCtx, c))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), "[\n  {\n    \"id\": \"fmt\",")
	assert.Contains(t, string(data), `"theme": "<b>тема</b>"`)

	var decoded []models.Creation
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, c, decoded[0])

	_, err = repo.Delete(testCtx, "fmt")
	require.NoError(t, err)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestJSONCreationRepo_UnreadableIndex(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantHealthy bool
	}{
		{name: "garbage", content: "{not json"},
		{name: "wrong shape", content: `{"id":"x"}`},
		{name: "null", content: "null", wantHealthy: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "creations.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			repo, err := repository.NewJSONCreationRepo(discardLogger(), path)
			require.NoError(t, err)

			items, err := repo.List(testCtx)
			require.NoError(t, err)
			assert.Empty(t, items)
			assert.Equal(t, tt.wantHealthy, repo.Healthy())

			require.NoError(t, repo.Insert(testCtx, newCreation("fresh")))
			items, err = repo.List(testCtx)
			require.NoError(t, err)
			assert.Equal(t, []string{"fresh"}, ids(items))
			assert.Equal(t, tt.wantHealthy, repo.Healthy(), "a write does not restore lost records")

			backups, err := filepath.Glob(path + ".corrupt-*")
			require.NoError(t, err)
			if tt.wantHealthy {
				assert.Empty(t, backups)
				return
			}
			require.Len(t, backups, 1)
			data, err := os.ReadFile(backups[0])
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(data))
		})
	}
}

func TestJSONCreationRepo_FlushFailureKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creations.json")

	repo, err := repository.NewJSONCreationRepo(discardLogger(), path)
	require.NoError(t, err)

	// файл индекса нельзя заменить каталогом
	require.NoError(t, os.Mkdir(path, 0755))

	err = repo.Insert(testCtx, newCreation("lost"))
	require.Error(t, err)

	items, err := repo.List(testCtx)
	require.NoError(t, err)
	assert.Empty(t, items)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewJSONCreationRepo_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "creations.json")

	repo, err := repository.NewJSONCreationRepo(discardLogger(), path)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(testCtx, newCreation("n")))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
