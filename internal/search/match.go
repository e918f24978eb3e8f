package search

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"go-autoindex/internal/model"
)

// Mode selects what a query is matched against.
type Mode string

const (
	// ModeDirectory matches the directory name; a passing directory keeps all files.
	ModeDirectory Mode = "dir"
	// ModeFile matches each file URL; a directory keeps only passing files.
	ModeFile Mode = "file"
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dir", "directory":
		return ModeDirectory, nil
	case "file", "files":
		return ModeFile, nil
	default:
		return "", fmt.Errorf("unknown match mode %q (want dir or file)", s)
	}
}

// Tokenize lowercases the query and splits it on whitespace. Repeated words
// are kept once, in first-seen order.
func Tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]bool, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}

// Score counts the tokens that occur anywhere in candidate, ignoring case.
// Containment is plain substring search, so "on" matches "Bonus".
func Score(tokens []string, candidate string) int {
	lower := strings.ToLower(candidate)
	n := 0
	for _, t := range tokens {
		if strings.Contains(lower, t) {
			n++
		}
	}
	return n
}

// Result is the outcome of matching one candidate.
type Result struct {
	Count     int
	Threshold float64
	Passed    bool
}

// Match scores candidate and compares it against half the token count.
// The comparison is on floats: three tokens need 1.5, so two matches.
// An empty query has threshold 0 and matches everything.
func Match(tokens []string, candidate string) Result {
	count := Score(tokens, candidate)
	threshold := float64(len(tokens)) / 2
	return Result{
		Count:     count,
		Threshold: threshold,
		Passed:    float64(count) >= threshold,
	}
}

func Passes(tokens []string, candidate string) bool {
	return Match(tokens, candidate).Passed
}

// Matcher filters crawled listings with one query, one mode and an optional
// set of basename globs to exclude.
type Matcher struct {
	tokens  []string
	mode    Mode
	exclude []string
}

func NewMatcher(query string, mode Mode, exclude []string) (*Matcher, error) {
	if mode != ModeDirectory && mode != ModeFile {
		return nil, fmt.Errorf("unknown match mode %q", mode)
	}
	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return &Matcher{
		tokens:  Tokenize(query),
		mode:    mode,
		exclude: exclude,
	}, nil
}

// FilterListing returns the part of l that matches, and false when nothing
// of l survives.
func (m *Matcher) FilterListing(l model.DirectoryListing) (model.DirectoryListing, bool) {
	if m.mode == ModeDirectory && !Passes(m.tokens, l.Entry.Name()) {
		return model.DirectoryListing{}, false
	}

	files := make([]model.FileRef, 0, len(l.Files))
	for _, f := range l.Files {
		if m.excluded(f) {
			continue
		}
		if m.mode == ModeFile && !Passes(m.tokens, decodedURL(f.URL)) {
			continue
		}
		files = append(files, f)
	}

	if m.mode == ModeFile && len(files) == 0 {
		return model.DirectoryListing{}, false
	}

	out := l
	out.Files = files
	return out, true
}

func decodedURL(raw string) string {
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}

func (m *Matcher) excluded(f model.FileRef) bool {
	name := strings.ToLower(f.Basename())
	for _, p := range m.exclude {
		if ok, _ := doublestar.Match(strings.ToLower(p), name); ok {
			return true
		}
	}
	return false
}
