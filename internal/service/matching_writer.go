package service

import (
	"log/slog"

	"go-autoindex/internal/crawl"
	"go-autoindex/internal/model"
	"go-autoindex/internal/search"
)

// MatchingWriter filters each crawled listing through the matcher before it
// reaches the underlying writer, so only matches are ever stored.
type MatchingWriter struct {
	Writer  crawl.ListingWriter
	Matcher *search.Matcher
	log     *slog.Logger
}

func NewMatchingWriter(writer crawl.ListingWriter, matcher *search.Matcher, log *slog.Logger) *MatchingWriter {
	if log == nil {
		log = slog.Default()
	}
	return &MatchingWriter{
		Writer:  writer,
		Matcher: matcher,
		log:     log,
	}
}

func (w *MatchingWriter) CreateListing(listing model.DirectoryListing) error {
	kept, ok := w.Matcher.FilterListing(listing)
	if !ok {
		w.log.Debug("directory did not match", "dir", string(listing.Entry))
		return nil
	}
	w.log.Debug("directory matched", "dir", string(listing.Entry), "files", len(kept.Files))
	return w.Writer.CreateListing(kept)
}
