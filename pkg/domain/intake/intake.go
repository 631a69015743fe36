// Package intake turns dropped items into the single file a review runs on.
package intake

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoFile indicates a drop carried no usable file. Callers in the UI ignore it.
var ErrNoFile = errors.New("no file dropped")

// Kind classifies a dropped item.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
	KindMissing   Kind = "missing"
)

// Item is one entry of a drop.
type Item struct {
	Path string
	Kind Kind
}

// File is the accepted intake for a review.
type File struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Stat classifies path on the local filesystem.
func Stat(path string) Item {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return Item{Path: path, Kind: KindMissing}
	case info.IsDir():
		return Item{Path: path, Kind: KindDirectory}
	default:
		return Item{Path: path, Kind: KindFile}
	}
}

// Items stats every path.
func Items(paths []string) []Item {
	items := make([]Item, 0, len(paths))
	for _, p := range paths {
		items = append(items, Stat(p))
	}
	return items
}

// First accepts the first dropped item if it is a file. The type of the file is
// not checked; the backend decides what it can review.
func First(items []Item) (File, error) {
	if len(items) == 0 || items[0].Kind != KindFile {
		return File{}, ErrNoFile
	}
	path := items[0].Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return File{Name: filepath.Base(path), Path: path}, nil
}

// SplitDropped extracts paths from text a terminal inserts when files are dragged
// onto it: whitespace separated, optionally quoted, backslash escaped or file:// URIs.
// Backslashes are escapes only where the path separator is '/'; inside double quotes
// they escape just the characters a POSIX shell lets them escape.
func SplitDropped(text string) []string {
	return splitDropped(text, filepath.Separator == '/')
}

func splitDropped(text string, backslashEscapes bool) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
		pending bool
	)

	flush := func() {
		if pending {
			paths = append(paths, normalize(current.String()))
		}
		current.Reset()
		pending = false
	}

	for _, r := range strings.TrimSpace(text) {
		switch {
		case escaped:
			if quote == '"' && !strings.ContainsRune("$`\"\\\n", r) {
				current.WriteRune('\\')
			}
			current.WriteRune(r)
			escaped = false
		case r == '\\' && backslashEscapes && quote != '\'':
			escaped = true
			pending = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			pending = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			pending = true
		}
	}
	if escaped {
		current.WriteRune('\\')
	}
	flush()

	out := paths[:0]
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalize(p string) string {
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return p
}
