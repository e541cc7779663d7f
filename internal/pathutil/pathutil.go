// Package pathutil extracts file name parts from paths.
//
// Every helper reports absence with a false second return value instead of an
// error; callers skip entries they cannot describe.
package pathutil

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Filename returns the final path component. It is absent for empty paths,
// the filesystem root, "." and "..", and for names that are not valid UTF-8.
func Filename(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	cleaned := filepath.Clean(path)
	base := filepath.Base(cleaned)
	switch base {
	case ".", "..", string(filepath.Separator):
		return "", false
	}
	if !utf8.ValidString(base) {
		return "", false
	}
	return base, true
}

// Stem returns the final path component without its final extension.
// A leading dot does not start an extension, so ".hidden" is its own stem.
func Stem(path string) (string, bool) {
	name, ok := Filename(path)
	if !ok {
		return "", false
	}
	idx := extensionIndex(name)
	if idx < 0 {
		return name, true
	}
	return name[:idx], true
}

// Extension returns the final extension without the leading dot. It is absent
// when the name has no dot after its first character or ends with a dot.
func Extension(path string) (string, bool) {
	name, ok := Filename(path)
	if !ok {
		return "", false
	}
	idx := extensionIndex(name)
	if idx < 0 || idx == len(name)-1 {
		return "", false
	}
	return name[idx+1:], true
}

func extensionIndex(name string) int {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return -1
	}
	return idx
}
