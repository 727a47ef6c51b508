package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("only jpg, jpeg, png, gif and webp images are allowed")
	ErrEmptyUpload     = errors.New("uploaded file is empty")
)

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Upload is a single file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Store persists images and hands back a locator clients can fetch.
type Store interface {
	Save(ctx context.Context, folder string, u Upload) (string, error)
	Delete(ctx context.Context, locator string) error
}

// CheckImage rejects anything that is not one of the accepted image formats.
// The extension decides how a stored file is served, so it must be an image
// extension; a declared content type, when present, must be an image type too.
func CheckImage(u Upload) error {
	if _, ok := allowedExtensions[strings.ToLower(filepath.Ext(u.Filename))]; !ok {
		return ErrUnsupportedType
	}
	declared := strings.ToLower(strings.TrimSpace(strings.Split(u.ContentType, ";")[0]))
	if declared == "" || declared == "application/octet-stream" {
		return nil
	}
	for _, mime := range allowedExtensions {
		if declared == mime {
			return nil
		}
	}
	return ErrUnsupportedType
}

// contentTypeFor derives the type from the checked extension, never from the client.
func contentTypeFor(u Upload) string {
	return allowedExtensions[strings.ToLower(filepath.Ext(u.Filename))]
}
