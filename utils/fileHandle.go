package utils

import (
	"context"
	"fmt"
	"mime/multipart"

	"lms/assets"
)

// SaveUploadedAsset copies a multipart upload into asset storage under key.
func SaveUploadedAsset(ctx context.Context, store assets.Store, file *multipart.FileHeader, key string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = assets.ContentTypeForKey(file.Filename)
	}
	if err := store.Put(ctx, key, contentType, src); err != nil {
		return fmt.Errorf("save %s: %w", file.Filename, err)
	}
	return nil
}
