package imagenode

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/config"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/imaging"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/services/filestorage"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/services/fileuploader"
)

type testHost struct {
	cfg      *config.Config
	uploader *fileuploader.Uploader
}

func (h *testHost) Logger() *zap.Logger              { return zap.NewNop() }
func (h *testHost) Config() *config.Config           { return h.cfg }
func (h *testHost) Uploader() *fileuploader.Uploader { return h.uploader }

func newTestHost(t *testing.T) *testHost {
	t.Helper()

	cfg := &config.Config{
		Host:       "localhost",
		Port:       8189,
		Filesystem: config.FilesystemLocal,
		AssetsDir:  filepath.Join(t.TempDir(), "assets"),
		TempDir:    filepath.Join(t.TempDir(), "temp"),
	}

	storage, err := filestorage.NewLocalFileStorage(cfg)
	require.NoError(t, err)

	uploader := fileuploader.NewFileUploader(storage, 2, zap.NewNop())
	t.Cleanup(uploader.Stop)

	return &testHost{cfg: cfg, uploader: uploader}
}

func writePNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, width, height))))

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", 4, 4)
	b := writePNG(t, dir, "b.png", 4, 4)
	c := writePNG(t, dir, "c.png", 8, 8)

	n := &LoadImage{}
	host := newTestHost(t)

	t.Run("uniform batch", func(t *testing.T) {
		outputs, err := n.Execute(context.Background(), host, map[string]any{
			"filenames": []string{a, b},
		})
		require.NoError(t, err)

		batch, ok := outputs["images"].(imaging.Batch)
		require.True(t, ok)
		require.Len(t, batch, 2)
		assert.Equal(t, 4, batch[0].Width)
	})

	t.Run("mixed sizes rejected", func(t *testing.T) {
		_, err := n.Execute(context.Background(), host, map[string]any{
			"filenames": []string{a, c},
		})
		assert.ErrorIs(t, err, imaging.ErrUniformSize)
	})

	t.Run("resize to target", func(t *testing.T) {
		outputs, err := n.Execute(context.Background(), host, map[string]any{
			"filenames":     []string{a, c},
			"size_handling": imaging.ResizeToTarget,
			"target_size":   image.Point{X: 6, Y: 6},
		})
		require.NoError(t, err)

		batch := outputs["images"].(imaging.Batch)
		require.Len(t, batch, 2)
		assert.Equal(t, 6, batch[0].Width)
		assert.Equal(t, 6, batch[1].Height)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := n.Execute(context.Background(), host, map[string]any{
			"filenames": []string{filepath.Join(dir, "missing.png")},
		})
		assert.Error(t, err)
	})

	t.Run("invalid filenames input", func(t *testing.T) {
		_, err := n.Execute(context.Background(), host, map[string]any{
			"filenames": "a.png",
		})
		assert.ErrorIs(t, err, ErrInvalidFilenames)
	})
}

func TestSaveImage(t *testing.T) {
	host := newTestHost(t)
	n := &SaveImage{}

	batch := imaging.Batch{imaging.NewFrame(2, 2), imaging.NewFrame(2, 2)}

	outputs, err := n.Execute(context.Background(), host, map[string]any{
		"images": batch,
		"format": "png",
	})
	require.NoError(t, err)

	urls, ok := outputs["urls"].([]string)
	require.True(t, ok)
	require.Len(t, urls, 2)

	entries, err := os.ReadDir(host.cfg.AssetsDir)
	require.NoError(t, err)
	// Both frames have identical pixels, so content-hash naming dedupes
	// them into one stored file.
	assert.Len(t, entries, 1)
	assert.Equal(t, ".png", filepath.Ext(entries[0].Name()))
}

func TestSaveImage_UnsupportedFormat(t *testing.T) {
	host := newTestHost(t)
	n := &SaveImage{}

	_, err := n.Execute(context.Background(), host, map[string]any{
		"images": imaging.Batch{imaging.NewFrame(2, 2)},
		"format": "webp",
	})
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
