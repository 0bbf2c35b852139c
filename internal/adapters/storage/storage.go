package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"invitesmanager/internal/domain"
)

// Config holds configuration for creating the object storage.
type Config struct {
	Provider        string
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	PublicBaseURL   string
}

// New creates object storage from config. Provider "s3" uses an S3-compatible bucket; "noop" or unknown keeps nothing.
func New(ctx context.Context, config Config, logger *slog.Logger) (domain.ObjectStorage, error) {
	switch config.Provider {
	case "s3":
		return newS3Storage(ctx, config)
	case "noop", "":
		return &noopStorage{baseURL: strings.TrimRight(config.PublicBaseURL, "/"), logger: logger}, nil
	default:
		logger.Warn("unknown storage provider, using noop", "provider", config.Provider)
		return &noopStorage{baseURL: strings.TrimRight(config.PublicBaseURL, "/"), logger: logger}, nil
	}
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

// ObjectKey builds a unique storage key under folder, keeping a sanitized form of the original name.
func ObjectKey(folder, originalName string) string {
	name := unsafeKeyChars.ReplaceAllString(originalName, "_")
	if name == "" || name == "_" {
		name = "file"
	}
	return fmt.Sprintf("%s/%s-%s-%s", strings.Trim(folder, "/"), time.Now().UTC().Format("20060102"), uuid.NewString(), name)
}

type noopStorage struct {
	baseURL string
	logger  *slog.Logger
}

func (n *noopStorage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (*domain.StoredObject, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	n.logger.DebugContext(ctx, "object would be stored (noop)", "key", key, "content_type", contentType, "size", size)
	return &domain.StoredObject{URL: n.baseURL + "/" + key, PublicID: key}, nil
}

func (n *noopStorage) Delete(ctx context.Context, publicID string) error {
	n.logger.DebugContext(ctx, "object would be deleted (noop)", "key", publicID)
	return nil
}
