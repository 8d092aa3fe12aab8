package fileuploader

import (
	"context"

	"github.com/gammazero/workerpool"
	"go.uber.org/zap"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/services/filestorage"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/utils/hashutil"
)

// Uploader pushes in-memory files into the configured storage backend on a
// bounded worker pool. Results come back on the caller's response channel;
// a failed upload closes the channel without sending.
type Uploader struct {
	wp      *workerpool.WorkerPool
	storage filestorage.FileStorage
	logger  *zap.Logger
}

func NewFileUploader(storage filestorage.FileStorage, maxWorkers int, logger *zap.Logger) *Uploader {
	return &Uploader{
		wp:      workerpool.New(maxWorkers),
		storage: storage,
		logger:  logger,
	}
}

func (u *Uploader) Stop() {
	u.wp.Stop()
}

func (u *Uploader) Upload(ctx context.Context, file filestorage.FileInfo, response chan string) {
	u.wp.Submit(func() {
		u.upload(ctx, file, response)
	})
}

// UploadBytes stores raw content under a blake3 content hash name.
func (u *Uploader) UploadBytes(ctx context.Context, content []byte, extension string, isTemp bool, response chan string) {
	file := filestorage.NewFileInfo(hashutil.Blake3Hash(content), extension, content, isTemp)
	u.Upload(ctx, file, response)
}

func (u *Uploader) upload(ctx context.Context, file filestorage.FileInfo, response chan string) {
	defer close(response)

	if u.storage == nil {
		u.logger.Warn("no file storage configured; dropping upload", zap.String("name", file.Name))
		return
	}

	url, err := u.storage.Upload(ctx, file)
	if err != nil {
		u.logger.Error("failed to store file", zap.String("name", file.Name), zap.Error(err))
		return
	}

	response <- url
}
