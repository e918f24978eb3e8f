package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"go-autoindex/internal/model"
)

// DefaultWorkerCount is the crawl pool width when the input does not set one.
const DefaultWorkerCount = 5

// Fetcher retrieves a page body. Implemented by the shared HTTP session.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// ListingWriter receives each successfully crawled directory exactly once.
// It is the only owner of the accumulated result and must be safe for
// concurrent use.
type ListingWriter interface {
	CreateListing(listing model.DirectoryListing) error
}

// ProgressRecorder tracks per-job directory counts.
// Implemented by store.JobStore.
type ProgressRecorder interface {
	RecordDirectory(jobID string, failed bool) error
}

// Stats summarizes one crawl.
type Stats struct {
	Discovered int
	Skipped    int
	Crawled    int
	Failed     int
}

type Engine struct {
	fetcher  Fetcher
	writer   ListingWriter
	progress ProgressRecorder
	log      *slog.Logger
}

func NewEngine(fetcher Fetcher, writer ListingWriter, progress ProgressRecorder, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		fetcher:  fetcher,
		writer:   writer,
		progress: progress,
		log:      log,
	}
}

type dirTask struct {
	entry model.DirectoryEntry
	url   string
}

// Crawl lists the subdirectories of the job's base URL and fetches every one
// of them on a bounded worker pool. Only a failure to fetch or parse the base
// page is returned; per-directory failures are logged and counted.
func (e *Engine) Crawl(ctx context.Context, job *model.CrawlJob) (Stats, error) {
	var stats Stats
	input := job.Input

	base, err := url.Parse(input.BaseURL)
	if err != nil {
		return stats, fmt.Errorf("invalid base URL: %w", err)
	}

	body, err := e.fetcher.Get(ctx, input.BaseURL)
	if err != nil {
		return stats, fmt.Errorf("fetch base page: %w", err)
	}
	hrefs, err := ParseAnchors(body)
	if err != nil {
		return stats, fmt.Errorf("parse base page: %w", err)
	}

	entries := ExtractSubdirectories(hrefs)
	stats.Discovered = len(entries)

	visited := NewVisitedURLStore()
	tasks := make([]dirTask, 0, len(entries))
	for _, entry := range entries {
		dirURL, ok := resolveWithin(base, string(entry))
		if !ok {
			e.log.Debug("skipping directory outside base", "dir", entry)
			stats.Skipped++
			continue
		}
		if !visited.MarkIfNotVisited(dirURL) {
			e.log.Debug("skipping duplicate directory", "dir", entry)
			stats.Skipped++
			continue
		}
		tasks = append(tasks, dirTask{entry: entry, url: dirURL})
	}
	e.log.Info("discovered directories", "base", input.BaseURL, "count", len(tasks))

	workers := input.Concurrency
	if workers <= 0 {
		workers = DefaultWorkerCount
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	queue := make(chan dirTask, len(tasks))
	for _, t := range tasks {
		queue <- t
	}
	close(queue)

	var (
		wg      sync.WaitGroup
		crawled atomic.Int32
		failed  atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				ok := e.processTask(ctx, job, task)
				if ok {
					crawled.Add(1)
				} else {
					failed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	stats.Crawled = int(crawled.Load())
	stats.Failed = int(failed.Load())
	return stats, nil
}

// processTask fetches one directory and hands its listing to the writer.
func (e *Engine) processTask(ctx context.Context, job *model.CrawlJob, task dirTask) bool {
	log := e.log.With("dir", string(task.entry))

	ok := e.fetchListing(ctx, log, job, task)
	if e.progress != nil {
		if err := e.progress.RecordDirectory(job.ID, !ok); err != nil {
			log.Warn("recording progress failed", "error", err)
		}
	}
	return ok
}

func (e *Engine) fetchListing(ctx context.Context, log *slog.Logger, job *model.CrawlJob, task dirTask) bool {
	if err := ctx.Err(); err != nil {
		log.Error("error fetching directory contents", "error", err)
		return false
	}

	body, err := e.fetcher.Get(ctx, task.url)
	if err != nil {
		log.Error("error fetching directory contents", "error", err)
		return false
	}

	hrefs, err := ParseAnchors(body)
	if err != nil {
		log.Error("error parsing directory page", "error", err)
		return false
	}

	listing := model.DirectoryListing{
		Entry: task.entry,
		URL:   task.url,
		Files: ExtractFiles(task.url, hrefs, job.Input.Extensions),
	}
	if err := e.writer.CreateListing(listing); err != nil {
		log.Error("error saving directory listing", "error", err)
		return false
	}
	log.Debug("crawled directory", "files", len(listing.Files))
	return true
}

// resolveWithin resolves href against base and reports whether the result
// is a strict descendant of base on the same host.
func resolveWithin(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != base.Scheme || abs.Host != base.Host {
		return "", false
	}
	if !strings.HasPrefix(abs.Path, base.Path) || len(abs.Path) <= len(base.Path) {
		return "", false
	}
	return abs.String(), true
}
