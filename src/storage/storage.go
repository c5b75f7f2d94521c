package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cityfood/src/utils"

	"go.uber.org/zap"
)

// Storage persists an uploaded object and returns its public URL.
type Storage interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// New picks the backend configured in cfg.Driver.
func New(ctx context.Context, cfg utils.StorageConfig) (Storage, error) {
	zap.L().Info("Initializing image storage", zap.String("driver", cfg.Driver))

	switch cfg.Driver {
	case "local":
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseUrl), nil
	case "s3":
		return NewS3Store(ctx, cfg.S3, cfg.PublicBaseUrl)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// LocalStore writes objects under dir, served by the router at publicBase.
type LocalStore struct {
	dir        string
	publicBase string
}

func NewLocalStore(dir string, publicBase string) *LocalStore {
	return &LocalStore{dir: dir, publicBase: strings.TrimRight(publicBase, "/")}
}

func (s *LocalStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	key = strings.TrimLeft(key, "/")
	path := filepath.Join(s.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", err
	}

	return s.publicBase + "/" + key, nil
}
