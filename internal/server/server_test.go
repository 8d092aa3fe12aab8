package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/app"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/config"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/node/builtin"
)

func newTestServer(t *testing.T) (*Server, *app.App) {
	t.Helper()
	builtin.Register()

	cfg := &config.Config{
		Host:        "localhost",
		Port:        8189,
		Environment: "test",
		Filesystem:  config.FilesystemLocal,
		AssetsDir:   filepath.Join(t.TempDir(), "assets"),
		TempDir:     filepath.Join(t.TempDir(), "temp"),
		Cloudflare:  &config.CloudflareConfig{},
	}

	application, err := app.NewApp(cfg, app.WithFileUploader(2))
	require.NoError(t, err)
	t.Cleanup(application.Close)

	srv := NewServer(cfg)
	srv.SetupRoutes(application)
	return srv, application
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}

	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.ginEngine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestListNodes(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nodes", nil)
	srv.ginEngine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Nodes []struct {
			Type        string `json:"type"`
			DisplayName string `json:"display_name"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	types := make([]string, 0, len(resp.Nodes))
	for _, n := range resp.Nodes {
		types = append(types, n.Type)
	}
	assert.Equal(t, []string{"CloudflareImageUploader", "LoadImage", "SaveImage"}, types)
}

func TestUploadImages_WithoutCredentials(t *testing.T) {
	srv, _ := newTestServer(t)

	body, contentType := multipartBody(t, nil, map[string][]byte{
		"a.png": encodePNG(t, 2, 2),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	srv.ginEngine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RequestID    string `json:"request_id"`
		CloudflareID string `json:"cloudflare_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.Empty(t, resp.CloudflareID)
}

func TestUploadImages_NoFiles(t *testing.T) {
	srv, _ := newTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"account_id": "acc"}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	srv.ginEngine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveImagesAndFetchFile(t *testing.T) {
	srv, _ := newTestServer(t)

	body, contentType := multipartBody(t, nil, map[string][]byte{
		"a.png": encodePNG(t, 2, 2),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/save", body)
	req.Header.Set("Content-Type", contentType)
	srv.ginEngine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Urls []string `json:"urls"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Urls, 1)

	filename := filepath.Base(resp.Urls[0])
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/file/"+filename, nil)
	srv.ginEngine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestGetFile_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/file/missing.png", nil)
	srv.ginEngine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
