package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
)

// InlineStore embeds the image in the locator as a base64 data URI.
type InlineStore struct{}

func NewInlineStore() InlineStore { return InlineStore{} }

func (InlineStore) Save(_ context.Context, _ string, u Upload) (string, error) {
	if err := CheckImage(u); err != nil {
		return "", err
	}
	data, err := io.ReadAll(u.Body)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyUpload
	}
	return fmt.Sprintf("data:%s;base64,%s", contentTypeFor(u), base64.StdEncoding.EncodeToString(data)), nil
}

// Delete is a no-op; the bytes live in the record itself.
func (InlineStore) Delete(context.Context, string) error { return nil }
