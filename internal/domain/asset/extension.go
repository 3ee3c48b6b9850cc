package asset

import (
	"path"
	"strings"
)

const maxExtensionLen = 10

// ImageExtensions lists the upload extensions accepted for product images.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// Extension returns the lower-cased extension of an uploaded file name, or
// "" when it is missing or contains anything but ASCII letters and digits.
func Extension(filename string) string {
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) < 2 || len(ext) > maxExtensionLen {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// IsImage reports whether filename carries an accepted image extension.
func IsImage(filename string) bool {
	ext := Extension(filename)
	for _, allowed := range ImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
