package constants

import "strings"

// FileFormat classifies an upload by how the preview step must treat it.
type FileFormat string

const (
	PDF     FileFormat = "PDF"
	IMAGE   FileFormat = "IMAGE"
	UNKNOWN FileFormat = "UNKNOWN"
)

// AllowedExtensions holds the default allowed file extensions for uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension to its processing format.
func MapExtToFormat(ext string) FileFormat {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png":
		return IMAGE
	default:
		return UNKNOWN
	}
}

// MapMIMEToFormat maps a content type to its processing format.
func MapMIMEToFormat(mime string) FileFormat {
	switch {
	case mime == "application/pdf":
		return PDF
	case strings.HasPrefix(mime, "image/"):
		return IMAGE
	default:
		return UNKNOWN
	}
}
