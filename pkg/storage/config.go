package storage

import (
	"context"
	"time"
)

// Config selects and configures the artifact store. Driver "s3" uses the
// S3 settings; "local" writes under LocalDir and serves from LocalURL.
type Config struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"local"`

	LocalDir string `env:"STORAGE_LOCAL_DIR" envDefault:"./data/codes"`
	LocalURL string `env:"STORAGE_LOCAL_URL" envDefault:"/files/"`

	S3Bucket         string        `env:"S3_BUCKET"`
	S3Region         string        `env:"S3_REGION" envDefault:"us-east-1"`
	S3AccessKeyID    string        `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey      string        `env:"S3_SECRET_ACCESS_KEY"`
	S3Endpoint       string        `env:"S3_ENDPOINT"`
	S3BaseURL        string        `env:"S3_PUBLIC_URL"`
	S3ForcePathStyle bool          `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
	S3UploadTimeout  time.Duration `env:"S3_UPLOAD_TIMEOUT" envDefault:"30s"`
}

// New builds the Storage selected by cfg.Driver.
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Storage(ctx, S3Config{
			Bucket:         cfg.S3Bucket,
			Region:         cfg.S3Region,
			AccessKeyID:    cfg.S3AccessKeyID,
			SecretKey:      cfg.S3SecretKey,
			Endpoint:       cfg.S3Endpoint,
			BaseURL:        cfg.S3BaseURL,
			ForcePathStyle: cfg.S3ForcePathStyle,
		}, WithS3UploadTimeout(cfg.S3UploadTimeout))
	case "local", "":
		return NewLocalStorage(cfg.LocalDir, cfg.LocalURL)
	default:
		return nil, ErrInvalidConfig
	}
}
