package model

import (
	"errors"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"
)

var ErrInvalidBaseURL = errors.New("base URL must be an absolute http or https URL")

type CrawlStatus string

const (
	CrawlStatusPending   CrawlStatus = "PENDING"
	CrawlStatusRunning   CrawlStatus = "RUNNING"
	CrawlStatusCompleted CrawlStatus = "COMPLETED"
	CrawlStatusFailed    CrawlStatus = "FAILED"
)

type CrawlInput struct {
	BaseURL     string
	Extensions  []string
	Concurrency int
	Query       string
	Mode        string
	Exclude     []string
}

type CrawlJob struct {
	ID     string
	Input  CrawlInput
	Status CrawlStatus

	DirectoriesCrawled int
	DirectoriesFailed  int
	Error              error

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DirectoryEntry is a subdirectory href exactly as it appeared on the base
// page, always ending in "/".
type DirectoryEntry string

// Name returns the entry with percent-escapes decoded. Autoindex pages
// usually escape spaces, so "Season%201/" becomes "Season 1/".
func (e DirectoryEntry) Name() string {
	name, err := url.PathUnescape(string(e))
	if err != nil {
		return string(e)
	}
	return name
}

type FileRef struct {
	URL       string
	Extension string
}

// Basename returns the decoded last path segment of the file URL.
func (f FileRef) Basename() string {
	raw := f.URL
	if u, err := url.Parse(f.URL); err == nil {
		raw = u.EscapedPath()
	}
	base := path.Base(raw)
	if name, err := url.PathUnescape(base); err == nil {
		return name
	}
	return base
}

type DirectoryListing struct {
	Entry DirectoryEntry
	URL   string
	Files []FileRef
}

// MatchedSet is the ordered set of directories that passed matching.
type MatchedSet []DirectoryListing

func (s MatchedSet) Len() int { return len(s) }

func (s MatchedSet) FileCount() int {
	n := 0
	for _, l := range s {
		n += len(l.Files)
	}
	return n
}

// SortByName orders the set by decoded entry name, case-insensitively.
func (s MatchedSet) SortByName() {
	sort.SliceStable(s, func(a, b int) bool {
		return strings.ToLower(s[a].Entry.Name()) < strings.ToLower(s[b].Entry.Name())
	})
}

// NormalizeBaseURL validates raw and guarantees a trailing slash so child
// hrefs can be appended directly.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Join(ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidBaseURL
	}
	u.Fragment = ""
	u.RawQuery = ""
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
		if u.RawPath != "" {
			u.RawPath += "/"
		}
	}
	return u.String(), nil
}
