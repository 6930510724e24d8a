package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"plant-store/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func assertUploadKind(t *testing.T, err error, kind UploadErrorKind) {
	t.Helper()
	var uploadErr *UploadError
	require.True(t, errors.As(err, &uploadErr), "expected UploadError, got %v", err)
	assert.Equal(t, kind, uploadErr.Kind)
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpload_StoresImage(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(storage.NewLocalImageStore(dir, "/uploads"), 0, zap.NewNop())

	upload, err := svc.Upload(context.Background(), ImageUpload{
		FileName:    "Monstera.PNG",
		ContentType: "image/png",
		Size:        int64(len(pngBytes)),
		Body:        bytes.NewReader(pngBytes),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(upload.FileName, ".png"))
	assert.Equal(t, "/uploads/"+upload.FileName, upload.URL)
	assert.Equal(t, "image/png", upload.FileType)
	assert.Equal(t, int64(len(pngBytes)), upload.FileSize)

	content, err := os.ReadFile(dir + "/" + upload.FileName)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, content)

	require.NoError(t, svc.Remove(context.Background(), *upload))
	assertDirEmpty(t, dir)
}

func TestUpload_FallsBackToDetectedExtension(t *testing.T) {
	svc := NewUploadService(storage.NewLocalImageStore(t.TempDir(), "/uploads"), 0, zap.NewNop())

	upload, err := svc.Upload(context.Background(), ImageUpload{
		FileName: "photo", ContentType: "image/png", Size: -1, Body: bytes.NewReader(pngBytes),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(upload.FileName, ".png"), upload.FileName)
}

func TestUpload_RejectsNonImageContentType(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(storage.NewLocalImageStore(dir, "/uploads"), 0, zap.NewNop())

	_, err := svc.Upload(context.Background(), ImageUpload{
		FileName: "notes.txt", ContentType: "text/plain", Size: 5, Body: strings.NewReader("hello"),
	})
	assertUploadKind(t, err, UploadNotImage)
	assertDirEmpty(t, dir)
}

func TestUpload_RejectsMislabelledContent(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(storage.NewLocalImageStore(dir, "/uploads"), 0, zap.NewNop())

	_, err := svc.Upload(context.Background(), ImageUpload{
		FileName: "evil.png", ContentType: "image/png", Size: -1, Body: strings.NewReader("#!/bin/sh\necho hi\n"),
	})
	assertUploadKind(t, err, UploadNotImage)
	assertDirEmpty(t, dir)
}

func TestUpload_RejectsOversizedPayload(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(storage.NewLocalImageStore(dir, "/uploads"), 32, zap.NewNop())

	// Declared size over the ceiling
	_, err := svc.Upload(context.Background(), ImageUpload{
		FileName: "big.png", ContentType: "image/png", Size: 33, Body: bytes.NewReader(pngBytes),
	})
	assertUploadKind(t, err, UploadTooLarge)

	// Unknown size, body over the ceiling
	_, err = svc.Upload(context.Background(), ImageUpload{
		FileName: "big.png", ContentType: "image/png", Size: -1, Body: bytes.NewReader(pngBytes),
	})
	assertUploadKind(t, err, UploadTooLarge)
	assertDirEmpty(t, dir)
}

func TestUpload_MissingFile(t *testing.T) {
	svc := NewUploadService(storage.NewLocalImageStore(t.TempDir(), "/uploads"), 0, zap.NewNop())

	_, err := svc.Upload(context.Background(), ImageUpload{ContentType: "image/png"})
	assertUploadKind(t, err, UploadMissingFile)
}

func TestUploadError_ClientErrors(t *testing.T) {
	assert.True(t, (&UploadError{Kind: UploadTooLarge}).IsClientError())
	assert.False(t, (&UploadError{Kind: UploadIO}).IsClientError())
	assert.Equal(t, "File size must be less than 5MB",
		NewUploadService(nil, 0, zap.NewNop()).(*uploadService).tooLarge().Error())
}
