package domain

import (
	"path"
	"strings"
)

// NoExtension is the sentinel file type for paths without an extension.
const NoExtension = "no_extension"

// languageNames maps a normalized file extension to its display category.
// Extensions absent from the map fall back to the raw extension string.
var languageNames = map[string]string{
	"py":         "Python",
	"js":         "JavaScript",
	"ts":         "TypeScript",
	"java":       "Java",
	"cpp":        "C++",
	"c":          "C",
	"h":          "C Header",
	"cs":         "C#",
	"rb":         "Ruby",
	"go":         "Go",
	"rs":         "Rust",
	"php":        "PHP",
	"html":       "HTML",
	"css":        "CSS",
	"md":         "Markdown",
	"json":       "JSON",
	"yaml":       "YAML",
	"yml":        "YAML",
	"sh":         "Shell",
	NoExtension:  "Unknown",
}

// Excluded reports whether a path is dropped from statistics entirely.
// A path is excluded when its final segment (the filename) is dot-prefixed,
// e.g. ".gitignore" or "ci/.env".
func Excluded(p string) bool {
	return strings.HasPrefix(path.Base(p), ".")
}

// FileType derives the normalized file type of a path: the lowercased
// substring after the last '.', or NoExtension when the path has none.
func FileType(p string) string {
	i := strings.LastIndex(p, ".")
	if i < 0 || i == len(p)-1 {
		return NoExtension
	}
	return strings.ToLower(p[i+1:])
}

// CategoryName maps a file type to its display category.
func CategoryName(fileType string) string {
	if name, ok := languageNames[fileType]; ok {
		return name
	}
	return fileType
}

// Categorize classifies a path directly into its display category.
func Categorize(p string) string {
	return CategoryName(FileType(p))
}
