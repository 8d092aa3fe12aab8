package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/config"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/services/filestorage"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/services/fileuploader"
	"github.com/user2862486/comfy-cloudflare-uploader/pkg/logger"
)

// App wires the services nodes and handlers share: config, logging and the
// file storage uploader. It implements node.Host.
type App struct {
	cfg        *config.Config
	log        *zap.Logger
	storage    filestorage.FileStorage
	uploader   *fileuploader.Uploader
	ctx        context.Context
	cancelFunc context.CancelFunc
}

type OptionFunc func(app *App) error

func WithLogger(log *zap.Logger) OptionFunc {
	return func(app *App) error {
		app.log = log
		return nil
	}
}

// WithFileUploader attaches the storage backend named in the config, with a
// bounded worker pool in front of it.
func WithFileUploader(maxWorkers int) OptionFunc {
	return func(app *App) error {
		storage, err := filestorage.NewFileStorage(app.cfg)
		if err != nil {
			return err
		}

		app.storage = storage
		app.uploader = fileuploader.NewFileUploader(storage, maxWorkers, app.log)
		return nil
	}
}

func NewApp(cfg *config.Config, options ...OptionFunc) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		cfg:        cfg,
		log:        logger.MustNewLogger(cfg.Environment),
		ctx:        ctx,
		cancelFunc: cancel,
	}

	for _, opt := range options {
		if err := opt(app); err != nil {
			cancel()
			return nil, err
		}
	}

	return app, nil
}

func (app *App) Close() {
	app.cancelFunc()

	if app.uploader != nil {
		app.uploader.Stop()
	}

	app.log.Sync()
}

func (app *App) Config() *config.Config {
	return app.cfg
}

func (app *App) Logger() *zap.Logger {
	return app.log
}

func (app *App) Uploader() *fileuploader.Uploader {
	return app.uploader
}

func (app *App) Storage() filestorage.FileStorage {
	return app.storage
}

func (app *App) Context() context.Context {
	return app.ctx
}
