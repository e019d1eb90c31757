package storage

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveWritesOriginalAndThumbnail(t *testing.T) {
	dir := t.TempDir()
	store := NewMediaStore(dir, 1)

	stored, err := store.Save(UploadInput{
		Filename:    "header.png",
		ContentType: "image/png",
		Content:     tinyPNG(t, 800, 600),
	})
	require.NoError(t, err)

	assert.Equal(t, "header.png", stored.FileName)
	assert.True(t, strings.HasPrefix(stored.URL, "/media/"))
	assert.True(t, strings.HasSuffix(stored.ThumbnailURL, "/thumb.webp"))
	assert.Equal(t, 800, stored.Width)
	assert.Equal(t, 600, stored.Height)

	originalPath := filepath.Join(dir, strings.TrimPrefix(stored.URL, "/media/"))
	thumbPath := filepath.Join(dir, strings.TrimPrefix(stored.ThumbnailURL, "/media/"))
	_, err = os.Stat(originalPath)
	require.NoError(t, err)
	_, err = os.Stat(thumbPath)
	require.NoError(t, err)
}

func TestSaveSameContentYieldsSameURL(t *testing.T) {
	store := NewMediaStore(t.TempDir(), 1)
	content := tinyPNG(t, 100, 100)

	first, err := store.Save(UploadInput{Filename: "a.png", Content: content})
	require.NoError(t, err)
	second, err := store.Save(UploadInput{Filename: "a.png", Content: content})
	require.NoError(t, err)
	assert.Equal(t, first.URL, second.URL)
}

func TestSaveSanitizesFilename(t *testing.T) {
	store := NewMediaStore(t.TempDir(), 1)

	stored, err := store.Save(UploadInput{
		Filename: "../../etc/pass wd!?.jpg",
		Content:  tinyPNG(t, 50, 50),
	})
	require.NoError(t, err)
	// Extension follows the decoded format, not the supplied name
	assert.Equal(t, "pass_wd__.png", stored.FileName)
	assert.NotContains(t, stored.URL, "..")
}

func TestSaveRejectsBadInput(t *testing.T) {
	store := NewMediaStore(t.TempDir(), 1)

	tests := []struct {
		name    string
		content []byte
	}{
		{"Empty upload", nil},
		{"Not an image", []byte("just some text, definitely not pixels")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save(UploadInput{Filename: "x.png", Content: tt.content})
			require.Error(t, err)
			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, models.CodeValidation, appErr.Code)
		})
	}
}

func TestSaveRejectsOversizedUpload(t *testing.T) {
	store := NewMediaStore(t.TempDir(), 1)

	big := make([]byte, 2*1024*1024)
	_, err := store.Save(UploadInput{Filename: "big.png", Content: big})
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeValidation, appErr.Code)
}
