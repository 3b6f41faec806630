package storage

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize caps proof and image uploads.
const MaxUploadSize int64 = 5 << 20

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrEmptyFile       = errors.New("empty file")
)

var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// ValidateUpload checks the declared content type and size of an upload.
func ValidateUpload(contentType string, size int64) error {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if _, ok := allowedTypes[ct]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	if size == 0 {
		return ErrEmptyFile
	}
	if size > MaxUploadSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, size, MaxUploadSize)
	}
	return nil
}

// ProofKey builds the object key for a transfer proof: payments/<user>/<uuid><ext>.
func ProofKey(userID, filename, contentType string) string {
	return path.Join("payments", sanitizeSegment(userID), uuid.NewString()+extension(filename, contentType))
}

// ContentKey builds the object key for a content image: content/<kind>/<uuid><ext>.
func ContentKey(kind, filename, contentType string) string {
	return path.Join("content", sanitizeSegment(kind), uuid.NewString()+extension(filename, contentType))
}

func extension(filename, contentType string) string {
	if ext := strings.ToLower(path.Ext(filename)); ext != "" && len(ext) <= 5 {
		return ext
	}
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	return allowedTypes[ct]
}

// sanitizeSegment keeps user-supplied key segments from escaping their prefix.
func sanitizeSegment(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
	if s == "" {
		return "_"
	}
	return s
}
