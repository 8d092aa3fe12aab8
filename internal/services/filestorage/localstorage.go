package filestorage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/config"
)

type LocalFileStorage struct {
	assetsDir string
	tempDir   string
	host      string
	port      int
}

func NewLocalFileStorage(cfg *config.Config) (*LocalFileStorage, error) {
	if cfg.AssetsDir == "" {
		return nil, fmt.Errorf("assets_dir is not set")
	}

	return &LocalFileStorage{
		assetsDir: cfg.AssetsDir,
		tempDir:   cfg.TempDir,
		host:      cfg.Host,
		port:      cfg.Port,
	}, nil
}

func (s *LocalFileStorage) Upload(_ context.Context, file FileInfo) (string, error) {
	dir := s.assetsDir
	if file.IsTemp {
		dir = s.tempDir
	}

	dest := filepath.Join(dir, file.Name+file.Extension)
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return "", err
	}

	if err := os.WriteFile(dest, file.Content, 0o644); err != nil {
		return "", err
	}

	return fmt.Sprintf("http://%s:%d/file/%s%s", s.host, s.port, file.Name, file.Extension), nil
}

func (s *LocalFileStorage) GetFile(_ context.Context, filename string) (*FileInfo, error) {
	content, err := os.ReadFile(filepath.Join(s.assetsDir, filepath.Base(filename)))
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(filename)
	return &FileInfo{
		Name:      filename[:len(filename)-len(ext)],
		Extension: ext,
		Content:   content,
	}, nil
}
