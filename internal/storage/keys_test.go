package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload("image/jpeg", 1024))
	assert.NoError(t, ValidateUpload("application/pdf; charset=binary", 10))
	assert.ErrorIs(t, ValidateUpload("text/html", 10), ErrUnsupportedType)
	assert.ErrorIs(t, ValidateUpload("image/png", 0), ErrEmptyFile)
	assert.ErrorIs(t, ValidateUpload("image/png", MaxUploadSize+1), ErrTooLarge)
}

func TestProofKey(t *testing.T) {
	key := ProofKey("user-42", "bukti transfer.JPG", "image/jpeg")

	assert.True(t, strings.HasPrefix(key, "payments/user-42/"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)
	assert.NotEqual(t, key, ProofKey("user-42", "bukti transfer.JPG", "image/jpeg"))
}

func TestProofKey_SanitizesUserSegment(t *testing.T) {
	key := ProofKey("../../etc", "x", "image/png")

	assert.True(t, strings.HasPrefix(key, "payments/______etc/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
}

func TestContentKey(t *testing.T) {
	key := ContentKey("packages", "", "image/webp")

	assert.True(t, strings.HasPrefix(key, "content/packages/"), key)
	assert.True(t, strings.HasSuffix(key, ".webp"), key)
}
