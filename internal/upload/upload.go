// Package upload stores user-submitted files (avatar images, syllabus
// documents) behind a Store interface with two implementations: local disk
// for single-server deployments and Backblaze B2 for object storage.
//
// Type and size policy lives here, next to the storage, so every handler
// that accepts a file goes through the same checks.
package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/academihub/academihub/internal/apperror"
)

// MaxAvatarSize is the upload ceiling for profile images.
const MaxAvatarSize = 5 << 20 // 5MB

// Store saves and removes uploaded files. Save returns a URL (or
// server-relative path) under which the file is reachable.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

var documentExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
}

// CheckAvatar validates an avatar upload's filename and declared size.
// Images only, 5MB ceiling.
func CheckAvatar(filename string, size int64) error {
	ext := strings.ToLower(path.Ext(filename))
	if !imageExtensions[ext] {
		return apperror.ValidationFailed("avatar", "avatar must be an image (png, jpg, jpeg, gif or webp)")
	}
	if size > MaxAvatarSize {
		return apperror.ValidationFailed("avatar", "avatar must be 5MB or smaller")
	}
	return nil
}

// CheckDocument validates a syllabus/assignment document upload.
// PDF and DOCX only, matching what the grading workflow can consume.
func CheckDocument(filename string) error {
	ext := strings.ToLower(path.Ext(filename))
	if !documentExtensions[ext] {
		return apperror.ValidationFailed("file", "document must be a PDF or DOCX file")
	}
	return nil
}

// Key builds a collision-free object key for an upload, preserving the
// original extension: "<prefix>/<uuid><ext>".
func Key(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)
}
