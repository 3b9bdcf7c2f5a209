package helper

import (
	"bytes"
	"fmt"
	"image"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"churchku_backend/internals/constants"
)

const msgUnsupportedImage = "지원하지 않는 이미지 형식입니다. (jpg, png, gif, webp)"

// Photos are normalised to a WebP no larger than this on either side.
const PhotoMaxSide = 512

// PhotoQuality is the lossy WebP quality used for uploaded photos.
const PhotoQuality float32 = 80

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func sanitizeFilename(filename string) string {
	return unsafeName.ReplaceAllString(filename, "_")
}

// GenerateUniqueFilename: <folder>/<yyyymmdd>-<uuid>-<safe base><ext>
func GenerateUniqueFilename(folder, originalFilename, ext string) string {
	base := strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename))
	if base == "" || base == "." {
		base = "photo"
	}
	return path.Join(folder, fmt.Sprintf("%s-%s-%s%s",
		time.Now().Format("20060102"), uuid.New().String(), sanitizeFilename(base), ext))
}

// SaveImageAsWebP decodes an uploaded jpg/png/gif/webp, fits it inside PhotoMaxSide (EXIF
// orientation applied) and writes it under root as WebP. Returns the path relative to root
// with forward slashes.
func SaveImageAsWebP(root, folder string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrValidation("사진 파일이 필요합니다.")
	}
	if !constants.IsImageFile(fh.Filename) {
		return "", ErrValidation(msgUnsupportedImage)
	}
	if fh.Size > constants.MaxPhotoBytes {
		return "", ErrValidation("사진은 5MB 이하만 업로드할 수 있습니다.")
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	// the webp import registers its decoder with image.Decode
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", ErrValidation(msgUnsupportedImage)
	}
	img = fitWithin(img, PhotoMaxSide)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: PhotoQuality}); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}

	rel := GenerateUniqueFilename(folder, fh.Filename, ".webp")
	dst := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("mkdir upload dir: %w", err)
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("save photo: %w", err)
	}
	return rel, nil
}

func fitWithin(img image.Image, side int) image.Image {
	b := img.Bounds()
	if b.Dx() <= side && b.Dy() <= side {
		return img
	}
	return imaging.Fit(img, side, side, imaging.Lanczos)
}

// RemoveUpload deletes a file previously written by SaveImageAsWebP. Missing files are ignored.
func RemoveUpload(root, rel string) error {
	if rel == "" {
		return nil
	}
	clean := filepath.Clean("/" + filepath.FromSlash(rel))
	err := os.Remove(filepath.Join(root, clean))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
