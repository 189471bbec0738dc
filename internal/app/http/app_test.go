package httpapp_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	httpapp "slideshow/internal/app/http"
	"slideshow/internal/config"
	"slideshow/internal/repository"
	services "slideshow/internal/services/creation_service"
	"slideshow/internal/services/songbook"
	"slideshow/internal/storage/inline"
	httprouters "slideshow/internal/transport/http"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ServerTestSuite struct {
	suite.Suite
	server *httptest.Server
	client *http.Client
}

func (s *ServerTestSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	songsDir := s.T().TempDir()
	require.NoError(s.T(), os.WriteFile(filepath.Join(songsDir, "intro.mp3"), []byte("ID3"), 0644))

	cfg := &config.Config{
		Env: "local",
		HTTP: config.HTTPConfig{
			BodyLimit: "8M",
		},
		FileStorage: config.FileStorageConfig{
			BaseDir: s.T().TempDir(),
			BaseURL: "/static",
		},
		Songs: config.SongsConfig{
			Dir:     songsDir,
			BaseURL: "/static/songs",
		},
		Session: config.SessionConfig{Secret: "test-secret"},
	}

	songs := songbook.New(log, cfg.Songs.Dir, cfg.Songs.BaseURL, 0)
	creationService := services.NewCreationService(log, repository.NewMemoryCreationRepo(), inline.New(), songs)
	routers := httprouters.NewRouter(log, creationService, songs, "")

	srv, err := httpapp.New(log, cfg, routers)
	require.NoError(s.T(), err)
	srv.BuildRouters()

	s.server = httptest.NewServer(srv)

	jar, err := cookiejar.New(nil)
	require.NoError(s.T(), err)
	s.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *ServerTestSuite) TearDownTest() {
	s.server.Close()
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

type formFile struct {
	field string
	name  string
	data  []byte
}

func (s *ServerTestSuite) postMultipart(path string, fields map[string]string, files ...formFile) *http.Response {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range fields {
		require.NoError(s.T(), writer.WriteField(k, v))
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.name)
		require.NoError(s.T(), err)
		_, err = part.Write(f.data)
		require.NoError(s.T(), err)
	}
	require.NoError(s.T(), writer.Close())

	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, body)
	require.NoError(s.T(), err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	require.NoError(s.T(), err)

	return resp
}

func (s *ServerTestSuite) get(path string) (*http.Response, string) {
	resp, err := s.client.Get(s.server.URL + path)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	return resp, string(body)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(body)
}

type apiCreation struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	QR     string   `json:"qr"`
	Thumb  string   `json:"thumb"`
	Theme  string   `json:"theme"`
	Song   string   `json:"song"`
	Images []string `json:"images"`
}

func (s *ServerTestSuite) createViaAPI(fields map[string]string, files ...formFile) apiCreation {
	resp := s.postMultipart("/api/v1/creations", fields, files...)
	body := readBody(s.T(), resp)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, body)

	var out struct {
		Data struct {
			Creation apiCreation `json:"creation"`
			Warnings []string    `json:"warnings"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal([]byte(body), &out))

	return out.Data.Creation
}

func (s *ServerTestSuite) TestIndexRedirectsToUpload() {
	resp, _ := s.get("/")

	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/upload", resp.Header.Get("Location"))
}

func (s *ServerTestSuite) TestUploadPageListsSongs() {
	resp, body := s.get("/upload")

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, `<option value="intro.mp3">intro.mp3</option>`)
}

func (s *ServerTestSuite) TestUploadWithoutImagesFlashes() {
	resp := s.postMultipart("/upload", map[string]string{"theme": "vintage"}, formFile{field: "images", name: "notes.txt", data: []byte("x")})
	readBody(s.T(), resp)

	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/upload", resp.Header.Get("Location"))

	_, body := s.get("/upload")
	s.Contains(body, "Please upload at least one image.")

	_, body = s.get("/upload")
	s.NotContains(body, "Please upload at least one image.")
}

func (s *ServerTestSuite) TestUploadRendersResult() {
	resp := s.postMultipart("/upload", map[string]string{"song_select": "intro.mp3"},
		formFile{field: "images", name: "a.png", data: []byte("png")},
		formFile{field: "images", name: "b.bmp", data: []byte("bmp")},
	)
	body := readBody(s.T(), resp)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, s.server.URL+"/view/")
	s.Contains(body, `src="data:image/png;base64,`)
}

func (s *ServerTestSuite) TestViewRendersInlineAssets() {
	created := s.createViaAPI(map[string]string{"theme": "minimal"},
		formFile{field: "images", name: "a.png", data: []byte("png")},
		formFile{field: "song_upload", name: "song.mp3", data: []byte("mp3")},
	)

	s.Equal(s.server.URL+"/view/"+created.ID, created.URL)
	s.Equal("minimal", created.Theme)
	s.True(strings.HasPrefix(created.Song, "data:audio/mpeg;base64,"))

	resp, body := s.get("/view/" + created.ID)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "theme-minimal")
	s.Contains(body, `src="`+created.Images[0]+`"`)
	s.Contains(body, `<audio src="`+created.Song+`"`)
}

func (s *ServerTestSuite) TestViewUnknownID() {
	resp, body := s.get("/view/missing")

	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Contains(body, "Slideshow not found.")
}

func (s *ServerTestSuite) TestCreationsAndDelete() {
	first := s.createViaAPI(nil, formFile{field: "images", name: "a.png", data: []byte("1")})
	second := s.createViaAPI(nil, formFile{field: "images", name: "b.png", data: []byte("2")})

	resp, body := s.get("/creations")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Less(strings.Index(body, second.ID), strings.Index(body, first.ID))

	resp = s.postMultipart("/delete/"+first.ID, nil)
	readBody(s.T(), resp)
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/creations", resp.Header.Get("Location"))

	_, body = s.get("/creations")
	s.Contains(body, "Deleted creation.")
	s.NotContains(body, "/delete/"+first.ID)
	s.Contains(body, "/delete/"+second.ID)

	resp = s.postMultipart("/delete/"+first.ID, nil)
	readBody(s.T(), resp)
	s.Equal(http.StatusSeeOther, resp.StatusCode)

	_, body = s.get("/creations")
	s.Contains(body, "Item not found.")
}

func (s *ServerTestSuite) TestAPI() {
	resp := s.postMultipart("/api/v1/creations", nil)
	readBody(s.T(), resp)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	created := s.createViaAPI(nil, formFile{field: "images", name: "a.jpg", data: []byte("jpg")})
	s.Equal("cinematic", created.Theme)
	s.Len(created.Images, 1)
	s.Equal(created.Images[0], created.Thumb)

	resp, _ = s.get("/api/v1/creations/" + created.ID)
	s.Equal(http.StatusOK, resp.StatusCode)

	_, body := s.get("/api/v1/creations")
	s.Contains(body, created.ID)

	req, err := http.NewRequest(http.MethodDelete, s.server.URL+"/api/v1/creations/"+created.ID, nil)
	s.Require().NoError(err)
	resp, err = s.client.Do(req)
	s.Require().NoError(err)
	readBody(s.T(), resp)
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp, _ = s.get("/api/v1/creations/" + created.ID)
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, err = s.client.Do(req)
	s.Require().NoError(err)
	readBody(s.T(), resp)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *ServerTestSuite) TestSongsAndHealth() {
	resp, body := s.get("/api/v1/songs")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "intro.mp3")

	resp, body = s.get("/healthz")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.JSONEq(`{"status":"ok"}`, body)

	resp, _ = s.get("/metrics")
	s.Equal(http.StatusOK, resp.StatusCode)
}
