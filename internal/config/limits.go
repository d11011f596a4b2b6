package config

import "fmt"

// Limits bounds the work a single command may trigger.
type Limits struct {
	SemanticMaxFiles  int   `yaml:"semantic_max_files"`  // files summarized per semantic_search
	MaxImages         int   `yaml:"max_images"`          // inline images per model request
	MaxImageBytes     int64 `yaml:"max_image_bytes"`     // larger images are skipped
	TextExcerptChars  int   `yaml:"text_excerpt_chars"`  // excerpt length per text file
	SearchResultCap   int   `yaml:"search_result_cap"`   // name search results returned
	WalkParallelism   int   `yaml:"walk_parallelism"`    // concurrent sibling directory walks
	SuggestMaxEntries int   `yaml:"suggest_max_entries"` // listing rows sent to suggest
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		SemanticMaxFiles:  80,
		MaxImages:         8,
		MaxImageBytes:     4 << 20,
		TextExcerptChars:  1500,
		SearchResultCap:   100,
		WalkParallelism:   8,
		SuggestMaxEntries: 200,
	}
}

// ValidateLimits checks that limits are within acceptable ranges.
func (c *Config) ValidateLimits() error {
	if c.Limits.SemanticMaxFiles < 1 {
		return fmt.Errorf("semantic_max_files must be >= 1")
	}
	if c.Limits.MaxImages < 0 {
		return fmt.Errorf("max_images must be >= 0")
	}
	if c.Limits.TextExcerptChars < 1 {
		return fmt.Errorf("text_excerpt_chars must be >= 1")
	}
	if c.Limits.SearchResultCap < 1 {
		return fmt.Errorf("search_result_cap must be >= 1")
	}
	if c.Limits.WalkParallelism < 1 {
		return fmt.Errorf("walk_parallelism must be >= 1")
	}
	return nil
}
