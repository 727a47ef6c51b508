package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStore writes uploads under Dir and serves them from URLPrefix.
type LocalStore struct {
	Dir       string
	URLPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *LocalStore) Save(_ context.Context, _ string, u Upload) (string, error) {
	if err := CheckImage(u); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(u.Filename))
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)

	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	n, err := io.Copy(f, u.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n == 0 {
		err = ErrEmptyUpload
	}
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return s.URLPrefix + "/" + name, nil
}

// Delete removes a file this store wrote. Locators from other stores are ignored.
func (s *LocalStore) Delete(_ context.Context, locator string) error {
	if !strings.HasPrefix(locator, s.URLPrefix+"/") {
		slog.Debug("skipping delete of foreign locator", "locator", locator)
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(locator, s.URLPrefix+"/"))
	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
