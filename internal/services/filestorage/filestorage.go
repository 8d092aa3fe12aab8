package filestorage

import (
	"context"
	"fmt"
	"strings"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/config"
)

// FileInfo is a file held entirely in memory, plus where it should live.
type FileInfo struct {
	Name      string
	Extension string
	Content   []byte
	IsTemp    bool
}

// FileStorage stores in-memory files and returns a URL (or path) where the
// stored file can be fetched.
type FileStorage interface {
	Upload(ctx context.Context, file FileInfo) (string, error)
	GetFile(ctx context.Context, filename string) (*FileInfo, error)
}

func NewFileInfo(name string, extension string, content []byte, isTemp bool) FileInfo {
	return FileInfo{
		Name:      name,
		Extension: extension,
		Content:   content,
		IsTemp:    isTemp,
	}
}

// NewFileStorage builds the storage backend named by the config.
func NewFileStorage(cfg *config.Config) (FileStorage, error) {
	switch strings.ToLower(cfg.Filesystem) {
	case config.FilesystemLocal:
		return NewLocalFileStorage(cfg)
	case config.FilesystemS3:
		return NewS3FileStorage(cfg)
	}

	return nil, fmt.Errorf("invalid filesystem type %s", cfg.Filesystem)
}
