package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// UploadOptions mirror what the document flows need from the object
// store: a folder per student, a caller-chosen public ID, and whether
// re-uploads replace the existing object.
type UploadOptions struct {
	Folder       string
	PublicID     string
	ResourceType string // "image" or "raw"
	Overwrite    bool
}

// Uploader stores a file and returns its public HTTPS URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, opts UploadOptions) (string, error)
}

// LogUploader fakes uploads for local dev: it drains the file and
// returns a deterministic placeholder URL.
type LogUploader struct {
	logger *slog.Logger
}

func NewLogUploader(logger *slog.Logger) *LogUploader {
	return &LogUploader{logger: logger}
}

func (u *LogUploader) Upload(ctx context.Context, file io.Reader, opts UploadOptions) (string, error) {
	n, err := io.Copy(io.Discard, file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	url := fmt.Sprintf("https://storage.local/%s/%s", opts.Folder, opts.PublicID)
	u.logger.InfoContext(ctx, "upload (storage not configured)",
		"folder", opts.Folder, "public_id", opts.PublicID, "bytes", n)
	return url, nil
}
