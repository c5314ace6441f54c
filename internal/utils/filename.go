package utils

import (
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00]`)
	// Whitespace characters to normalize
	whitespaceChars = regexp.MustCompile(`[\r\n\t]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// maxFilenameRunes leaves room for an extension within the usual 255 limit.
// Arabic letters take two bytes each, so the limit is applied to runes and
// the result is trimmed further if it is still too long in bytes.
const (
	maxFilenameRunes = 200
	maxFilenameBytes = 240
)

// SanitizeFilename turns an identifier or title into a safe markdown file
// name. Path separators and other invalid characters become underscores,
// leading dots are dropped so the result never points outside the target
// directory, and characters that break markdown links are removed.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "_")

	// Replace newlines/tabs with spaces
	filename = whitespaceChars.ReplaceAllString(filename, " ")

	// Collapse multiple spaces
	filename = multipleSpaces.ReplaceAllString(filename, " ")

	filename = strings.TrimSpace(filename)
	filename = strings.TrimLeft(filename, ".")

	filename = strings.ReplaceAll(filename, "#", "")
	filename = strings.ReplaceAll(filename, "[", "(")
	filename = strings.ReplaceAll(filename, "]", ")")

	if runes := []rune(filename); len(runes) > maxFilenameRunes {
		filename = string(runes[:maxFilenameRunes])
	}
	for len(filename) > maxFilenameBytes {
		runes := []rune(filename)
		filename = string(runes[:len(runes)-1])
	}
	filename = strings.TrimSpace(filename)

	// Ensure it's not empty
	if filename == "" {
		filename = "Untitled"
	}

	return filename
}
