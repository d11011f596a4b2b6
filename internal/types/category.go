package types

import (
	"path"
	"strings"
)

// Category groups file extensions for category search and organize.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryAudio    Category = "audio"
	CategoryVideo    Category = "video"
	CategoryDocument Category = "document"
	CategoryPDF      Category = "pdf"
)

var categoryExtensions = map[Category][]string{
	CategoryImage:    {".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp", ".heic"},
	CategoryAudio:    {".mp3", ".wav", ".aac", ".flac", ".ogg", ".m4a"},
	CategoryVideo:    {".mp4", ".mkv", ".avi", ".mov", ".wmv", ".webm"},
	CategoryDocument: {".txt", ".pdf", ".docx", ".doc", ".xlsx", ".xls", ".pptx", ".md", ".csv", ".rtf", ".odt"},
	CategoryPDF:      {".pdf"},
}

// categoryWords maps user vocabulary to categories.
var categoryWords = map[string]Category{
	"photo": CategoryImage, "photos": CategoryImage,
	"image": CategoryImage, "images": CategoryImage,
	"picture": CategoryImage, "pictures": CategoryImage,
	"audio": CategoryAudio, "music": CategoryAudio, "songs": CategoryAudio,
	"video": CategoryVideo, "videos": CategoryVideo, "movies": CategoryVideo,
	"pdf": CategoryPDF, "pdfs": CategoryPDF,
	"document": CategoryDocument, "documents": CategoryDocument, "docs": CategoryDocument,
}

// CategoryForWord maps a word such as "photos" to its category.
func CategoryForWord(word string) (Category, bool) {
	c, ok := categoryWords[strings.ToLower(strings.TrimSpace(word))]
	return c, ok
}

// ParseCategory accepts either a category name or a vocabulary word.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, ok := categoryExtensions[Category(s)]; ok {
		return Category(s), true
	}
	return CategoryForWord(s)
}

// Extensions returns the extension set of c.
func (c Category) Extensions() []string {
	return categoryExtensions[c]
}

// Matches reports whether name has one of c's extensions.
func (c Category) Matches(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range categoryExtensions[c] {
		if e == ext {
			return true
		}
	}
	return false
}

// IsImage reports whether name has an image extension.
func IsImage(name string) bool {
	return CategoryImage.Matches(name)
}
