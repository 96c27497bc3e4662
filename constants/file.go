package constants

import "strings"

// Source formats accepted by the text stage.
const (
	PDF = "PDF"
	TXT = "TXT"
)

// AllowedExtensions holds the file extensions accepted as rate-sheet input.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps an extension (with or without dot) to a source format, or "" if unsupported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt":
		return TXT
	default:
		return ""
	}
}

// DefaultTable is the destination table for persisted rate records.
const DefaultTable = "hotels_rate_data"
