// Package storage persists uploaded post images on the local filesystem
// under content-addressed directories.
package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"inkwell/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const (
	DefaultMediaDir        = "/tmp/inkwell/media"
	DefaultMaxUploadSizeMB = 10
	ThumbnailMaxSize       = 480
	WebPQuality            = 75
)

type UploadInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// StoredImage describes a persisted upload. URL and ThumbnailURL are stable
// for identical content because the path is derived from a content hash.
type StoredImage struct {
	FileName     string
	URL          string
	ThumbnailURL string
	SizeBytes    int64
	Width        int
	Height       int
}

// MediaStore writes originals plus a webp thumbnail under
// <dir>/<hash>/<filename>. Re-uploading the same bytes overwrites the same
// paths, so duplicate uploads converge on one copy.
type MediaStore struct {
	dir                string
	baseURL            string
	maxUploadSizeBytes int64
}

func NewMediaStore(dir string, maxUploadSizeMB int) *MediaStore {
	if dir == "" {
		dir = DefaultMediaDir
	}
	if maxUploadSizeMB <= 0 {
		maxUploadSizeMB = DefaultMaxUploadSizeMB
	}
	return &MediaStore{
		dir:                dir,
		baseURL:            "/media",
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// WithBaseURL overrides the URL prefix returned for stored files, e.g. a CDN
// origin in front of the media directory.
func (m *MediaStore) WithBaseURL(baseURL string) *MediaStore {
	if baseURL != "" {
		m.baseURL = strings.TrimSuffix(baseURL, "/")
	}
	return m
}

// Dir returns the root directory served as static media.
func (m *MediaStore) Dir() string {
	return m.dir
}

func (m *MediaStore) Save(in UploadInput) (*StoredImage, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > m.maxUploadSizeBytes {
		return nil, models.NewValidationError(
			fmt.Sprintf("File too large (max %dMB)", m.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	hash := contentHash(in.Content)
	fileName := safeFileName(in.Filename, format)
	thumbName := "thumb.webp"

	originalRel := filepath.ToSlash(filepath.Join(hash, fileName))
	thumbRel := filepath.ToSlash(filepath.Join(hash, thumbName))
	originalAbs := filepath.Join(m.dir, hash, fileName)
	thumbAbs := filepath.Join(m.dir, hash, thumbName)

	if err := writeBytesToFile(originalAbs, in.Content); err != nil {
		return nil, models.NewInternalError(err)
	}

	thumb := resizeToFit(decoded, ThumbnailMaxSize, ThumbnailMaxSize)
	thumbBytes, err := encodeWebP(thumb, WebPQuality)
	if err != nil {
		_ = os.Remove(originalAbs)
		return nil, models.NewInternalError(err)
	}
	if err := writeBytesToFile(thumbAbs, thumbBytes); err != nil {
		_ = os.Remove(originalAbs)
		return nil, models.NewInternalError(err)
	}

	b := decoded.Bounds()
	return &StoredImage{
		FileName:     fileName,
		URL:          m.baseURL + "/" + originalRel,
		ThumbnailURL: m.baseURL + "/" + thumbRel,
		SizeBytes:    int64(len(in.Content)),
		Width:        b.Dx(),
		Height:       b.Dy(),
	}, nil
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// safeFileName keeps only the base name and forces an extension matching the
// decoded format, so crafted filenames cannot escape the media directory.
func safeFileName(name, format string) string {
	base := filepath.Base(strings.TrimSpace(name))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if cleaned == "" || cleaned == "." {
		cleaned = "image"
	}
	return cleaned + "." + formatExt(format)
}

func formatExt(format string) string {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return "jpg"
	case "png":
		return "png"
	case "gif":
		return "gif"
	case "webp":
		return "webp"
	default:
		return "bin"
	}
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch strings.ToLower(mediaType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
