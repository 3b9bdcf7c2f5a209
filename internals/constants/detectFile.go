package constants

import (
	"path/filepath"
	"strings"
)

const MaxPhotoBytes = 5 << 20

// IsImageFile reports whether filename carries one of the accepted photo extensions.
func IsImageFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	default:
		return false
	}
}
