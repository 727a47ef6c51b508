package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/storage"
)

const MaxUploadFiles = 10

var ErrNoFiles = errors.New("No files uploaded")

// UploadService stores standalone images for the admin console.
type UploadService struct {
	store storage.Store
}

func NewUploadService(store storage.Store) *UploadService {
	return &UploadService{store: store}
}

func (s *UploadService) SaveOne(ctx context.Context, u storage.Upload) (string, error) {
	urls, err := saveUploads(ctx, s.store, "uploads", []storage.Upload{u})
	if err != nil {
		return "", err
	}
	return urls[0], nil
}

func (s *UploadService) SaveMany(ctx context.Context, uploads []storage.Upload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}
	if len(uploads) > MaxUploadFiles {
		return nil, invalid("At most %d files can be uploaded at once", MaxUploadFiles)
	}
	return saveUploads(ctx, s.store, "uploads", uploads)
}

// saveUploads stores every upload or none of them: a failure removes the
// files already written.
func saveUploads(ctx context.Context, store storage.Store, folder string, uploads []storage.Upload) ([]string, error) {
	for _, u := range uploads {
		if err := storage.CheckImage(u); err != nil {
			return nil, err
		}
	}
	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		url, err := store.Save(ctx, folder, u)
		if err != nil {
			removeStored(ctx, store, urls)
			if errors.Is(err, storage.ErrEmptyUpload) || errors.Is(err, storage.ErrUnsupportedType) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to store %s: %w", u.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// removeStored deletes stored files, logging failures.
func removeStored(ctx context.Context, store storage.Store, locators []string) {
	for _, loc := range locators {
		if err := store.Delete(ctx, loc); err != nil {
			slog.Warn("failed to remove stored image", "component", "storage", "locator", loc, "error", err)
		}
	}
}
