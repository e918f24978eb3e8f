// Package download streams confirmed files to disk. Each file is an
// independent task: a failure is recorded on the task and the batch goes on.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"go-autoindex/internal/model"
	"go-autoindex/internal/store"
)

// DefaultChunkSize is the buffer size used to copy response bodies to disk.
const DefaultChunkSize = 8192

var ErrUnsafePath = errors.New("refusing to write outside the destination directory")

// Opener starts a streamed GET. Implemented by the shared HTTP session.
type Opener interface {
	Open(ctx context.Context, url string) (io.ReadCloser, int64, error)
}

type Options struct {
	// Concurrency is the number of parallel downloads; 1 downloads in order.
	Concurrency int
	ChunkSize   int
}

// Service downloads files of a matched set.
type Service struct {
	client Opener
	tasks  *store.TaskStore
	log    *slog.Logger

	concurrency int
	chunkSize   int
}

func NewService(client Opener, tasks *store.TaskStore, log *slog.Logger, opts Options) *Service {
	if log == nil {
		log = slog.Default()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	return &Service{
		client:      client,
		tasks:       tasks,
		log:         log,
		concurrency: opts.Concurrency,
		chunkSize:   opts.ChunkSize,
	}
}

// Plan turns the set into one task per file, located at
// destRoot/<directory name>/<file basename>. Files whose names would escape
// destRoot are planned as already failed.
func (s *Service) Plan(set model.MatchedSet, destRoot string) []*model.DownloadTask {
	var tasks []*model.DownloadTask
	for _, l := range set {
		for _, f := range l.Files {
			task := &model.DownloadTask{
				ID:     uuid.New().String(),
				Entry:  l.Entry,
				File:   f,
				Status: model.TaskStatusPending,
			}
			local, err := LocalPath(destRoot, l.Entry, f)
			if err != nil {
				task.Status = model.TaskStatusError
				task.Err = err
			}
			task.LocalPath = local
			s.tasks.Add(task)
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// Download fetches every file of set into destRoot and returns the final
// state of each task in plan order.
func (s *Service) Download(ctx context.Context, set model.MatchedSet, destRoot string) []model.DownloadTask {
	planned := s.Plan(set, destRoot)

	queue := make(chan *model.DownloadTask, len(planned))
	for _, task := range planned {
		if task.Status == model.TaskStatusError {
			s.log.Error("error downloading file", "file", task.File.URL, "error", task.Err)
			continue
		}
		queue <- task
	}
	close(queue)

	workers := s.concurrency
	if workers > len(planned) {
		workers = len(planned)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				s.run(ctx, task)
			}
		}()
	}
	wg.Wait()

	out := make([]model.DownloadTask, 0, len(planned))
	for _, task := range planned {
		snap, err := s.tasks.Get(task.ID)
		if err != nil {
			snap = *task
		}
		out = append(out, snap)
	}
	return out
}

func (s *Service) run(ctx context.Context, task *model.DownloadTask) {
	log := s.log.With("file", task.File.URL, "path", task.LocalPath)

	s.tasks.UpdateStatus(task.ID, model.TaskStatusDownloading, 0, nil)
	log.Info("downloading")

	n, err := s.fetch(ctx, task)
	if err != nil {
		log.Error("error downloading file", "error", err)
		s.tasks.UpdateStatus(task.ID, model.TaskStatusError, n, err)
		return
	}
	log.Info("downloaded", "bytes", n)
	s.tasks.UpdateStatus(task.ID, model.TaskStatusCompleted, n, nil)
}

// fetch streams the file into a ".part" sibling and renames it into place,
// replacing any existing file. The partial file is removed on failure.
func (s *Service) fetch(ctx context.Context, task *model.DownloadTask) (int64, error) {
	body, _, err := s.client.Open(ctx, task.File.URL)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(task.LocalPath), 0755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	partPath := task.LocalPath + ".part"
	f, err := os.Create(partPath)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	// The anonymous wrappers hide ReadFrom/WriteTo so the copy goes through
	// buf in fixed-size chunks.
	buf := make([]byte, s.chunkSize)
	n, err := io.CopyBuffer(struct{ io.Writer }{f}, struct{ io.Reader }{body}, buf)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		os.Remove(partPath)
		return n, fmt.Errorf("write %s: %w", filepath.Base(task.LocalPath), err)
	}

	if err := os.Rename(partPath, task.LocalPath); err != nil {
		os.Remove(partPath)
		return n, fmt.Errorf("rename into place: %w", err)
	}
	return n, nil
}

// LocalPath resolves destRoot/<entry name>/<file basename>, rejecting names
// that would climb out of destRoot.
func LocalPath(destRoot string, entry model.DirectoryEntry, file model.FileRef) (string, error) {
	dir := strings.Trim(entry.Name(), "/")
	name := file.Basename()

	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	for _, part := range strings.Split(dir, "/") {
		if part == ".." || strings.Contains(part, `\`) {
			return "", fmt.Errorf("%w: %q", ErrUnsafePath, entry.Name())
		}
	}

	root := filepath.Clean(destRoot)
	full := filepath.Join(root, filepath.FromSlash(dir), name)
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, full)
	}
	return full, nil
}
