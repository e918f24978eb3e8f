package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"go-autoindex/internal/crawl"
	"go-autoindex/internal/model"
	"go-autoindex/internal/search"
	"go-autoindex/internal/store"
)

// CrawlService runs one crawl job: crawl, match, collect.
type CrawlService struct {
	jobs    *store.JobStore
	fetcher crawl.Fetcher
	log     *slog.Logger
}

func NewCrawlService(jobs *store.JobStore, fetcher crawl.Fetcher, log *slog.Logger) *CrawlService {
	if log == nil {
		log = slog.Default()
	}
	return &CrawlService{
		jobs:    jobs,
		fetcher: fetcher,
		log:     log,
	}
}

// Run crawls input.BaseURL and returns the matched directories sorted by
// name. The returned error is non-nil only when the job could not start or
// the base page could not be fetched.
func (s *CrawlService) Run(ctx context.Context, input model.CrawlInput) (*model.CrawlJob, model.MatchedSet, error) {
	base, err := model.NormalizeBaseURL(input.BaseURL)
	if err != nil {
		return nil, nil, err
	}
	input.BaseURL = base

	mode, err := search.ParseMode(input.Mode)
	if err != nil {
		return nil, nil, err
	}
	matcher, err := search.NewMatcher(input.Query, mode, input.Exclude)
	if err != nil {
		return nil, nil, err
	}

	job := &model.CrawlJob{
		ID:     uuid.New().String(),
		Input:  input,
		Status: model.CrawlStatusPending,
	}
	s.jobs.CreateJob(job)

	log := s.log.With("run_id", job.ID)
	log.Info("crawl started", "base", base, "query", input.Query, "mode", string(mode))
	if err := s.jobs.UpdateJobStatus(job.ID, model.CrawlStatusRunning, nil); err != nil {
		return job, nil, err
	}

	listings := store.NewListingStore()
	writer := NewMatchingWriter(listings, matcher, log)
	engine := crawl.NewEngine(s.fetcher, writer, s.jobs, log)

	stats, err := engine.Crawl(ctx, job)
	if err != nil {
		log.Error("crawl failed", "error", err)
		if serr := s.jobs.UpdateJobStatus(job.ID, model.CrawlStatusFailed, err); serr != nil {
			log.Error("error updating job status", "status", string(model.CrawlStatusFailed), "error", serr)
		}
		return job, nil, fmt.Errorf("crawl %s: %w", base, err)
	}
	if err := s.jobs.UpdateJobStatus(job.ID, model.CrawlStatusCompleted, nil); err != nil {
		return job, nil, err
	}

	matched := listings.List()
	matched.SortByName()
	log.Info("crawl finished",
		"directories", stats.Crawled,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"matched", matched.Len(),
		"files", matched.FileCount(),
	)
	return job, matched, nil
}
