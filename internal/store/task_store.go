package store

import (
	"errors"
	"sync"
	"time"

	"go-autoindex/internal/model"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskStore tracks download tasks of one batch. Tasks are listed in the
// order they were added.
type TaskStore struct {
	tasks map[string]*model.DownloadTask
	order []string
	mu    sync.RWMutex
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*model.DownloadTask),
	}
}

func (s *TaskStore) Add(task *model.DownloadTask) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		s.order = append(s.order, task.ID)
	}
	s.tasks[task.ID] = task
}

// Get returns a snapshot of the task.
func (s *TaskStore) Get(id string) (model.DownloadTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return model.DownloadTask{}, ErrTaskNotFound
	}
	return *task, nil
}

// UpdateStatus moves a task to status. Finishing a task records the byte
// count and the cause of failure, if any.
func (s *TaskStore) UpdateStatus(id string, status model.TaskStatus, bytes int64, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	now := time.Now()
	switch {
	case status.IsActive():
		task.StartedAt = now
	case status.IsFinished():
		task.FinishedAt = now
		task.Bytes = bytes
		task.Err = cause
	}
	task.Status = status
	return nil
}

// List returns snapshots of all tasks in insertion order.
func (s *TaskStore) List() []model.DownloadTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.DownloadTask, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.tasks[id])
	}
	return out
}

// Summary aggregates the batch outcome.
type Summary struct {
	Total     int
	Completed int
	Failed    int
	Bytes     int64
}

func (s *TaskStore) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{Total: len(s.order)}
	for _, id := range s.order {
		task := s.tasks[id]
		switch task.Status {
		case model.TaskStatusCompleted:
			sum.Completed++
			sum.Bytes += task.Bytes
		case model.TaskStatusError:
			sum.Failed++
		}
	}
	return sum
}
