package constants

import "strings"

// Format is the source format of a document handed to the engine.
type Format string

const (
	FormatTXT     Format = "TXT"
	FormatXLSX    Format = "XLSX"
	FormatPDF     Format = "PDF"
	FormatUnknown Format = "UNKNOWN"
)

// AllowedExtensions holds the default extensions picked up by batch runs.
var AllowedExtensions = map[string]struct{}{
	"txt":  {},
	"xlsx": {},
	"xlsm": {},
	"pdf":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension (with or without dot) to a Format.
func MapExtToFormat(ext string) Format {
	switch NormalizeExt(ext) {
	case "txt", "text":
		return FormatTXT
	case "xlsx", "xlsm":
		return FormatXLSX
	case "pdf":
		return FormatPDF
	default:
		return FormatUnknown
	}
}
