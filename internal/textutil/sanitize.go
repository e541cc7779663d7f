package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// NormalizeTitle prepares a looked-up title for use as a path segment.
// The title is converted to Unicode NFC, runs of whitespace collapse to a
// single space, and unsafe characters are handled by SanitizeFileName.
// Titles that end up empty or consisting only of dots return "".
func NormalizeTitle(title string) string {
	title = norm.NFC.String(title)
	title = strings.Join(strings.Fields(title), " ")
	title = SanitizeFileName(title)
	if strings.Trim(title, ".") == "" {
		return ""
	}
	return title
}
