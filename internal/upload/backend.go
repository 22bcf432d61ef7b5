package upload

import (
	"context"

	"github.com/castboard/castboard/internal/config"
	"github.com/castboard/castboard/internal/upload/disk"
	"github.com/castboard/castboard/internal/upload/objectstore"
)

// Allowed extensions per media kind.
var (
	ImageExtensions = []string{"jpg", "jpeg", "png"}
	VideoExtensions = []string{"mp4", "mov", "webm", "mkv"}
	AudioExtensions = []string{"mp3", "wav", "ogg", "m4a", "aac"}
)

// New builds the Materializer selected by cfg.Backend.
func New(ctx context.Context, cfg config.Upload) (Materializer, error) {
	switch cfg.Backend {
	case config.UploadBackendS3:
		return objectstore.New(ctx, objectstore.Options{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			PublicURL: cfg.S3.PublicURL,
		})
	case config.UploadBackendDisk, "":
		return disk.New(cfg.Disk.Dir, cfg.Disk.URLPrefix)
	default:
		return nil, config.ErrUnknownUploadBackend
	}
}
