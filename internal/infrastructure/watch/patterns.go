package watch

import (
	"path/filepath"
)

// DefaultIgnore matches hidden files and the partial files that editors, office
// suites and browsers leave next to a file while it is still being written.
var DefaultIgnore = []string{".*", "*.tmp", "*.part", "*.crdownload", "~$*"}

// IgnoreFilter rejects file names matching any of its glob patterns.
type IgnoreFilter struct {
	patterns []string
}

// NewIgnoreFilter combines DefaultIgnore with extra patterns.
func NewIgnoreFilter(extra ...string) *IgnoreFilter {
	patterns := append(append([]string(nil), DefaultIgnore...), extra...)
	return &IgnoreFilter{patterns: patterns}
}

// Ignored reports whether the base name of path matches a pattern.
func (f *IgnoreFilter) Ignored(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range f.patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
