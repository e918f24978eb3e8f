package store

import (
	"errors"
	"sync"
	"time"

	"go-autoindex/internal/model"
)

var ErrJobNotFound = errors.New("job not found")

type JobStore struct {
	jobs map[string]*model.CrawlJob
	mu   sync.RWMutex
}

func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*model.CrawlJob),
	}
}

func (s *JobStore) CreateJob(job *model.CrawlJob) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	s.jobs[job.ID] = job
}

func (s *JobStore) GetJob(id string) (*model.CrawlJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// UpdateJobStatus sets the status; a non-nil cause is kept as the job error.
func (s *JobStore) UpdateJobStatus(id string, status model.CrawlStatus, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = status
	job.Error = cause
	job.UpdatedAt = time.Now()
	return nil
}

// RecordDirectory counts one finished directory task for the job.
func (s *JobStore) RecordDirectory(id string, failed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if failed {
		job.DirectoriesFailed++
	} else {
		job.DirectoriesCrawled++
	}
	job.UpdatedAt = time.Now()
	return nil
}
