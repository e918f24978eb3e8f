package model

import "time"

// TaskStatus is the lifecycle of a single file download.
type TaskStatus string

const (
	TaskStatusPending     TaskStatus = "Pending"
	TaskStatusDownloading TaskStatus = "Downloading"
	TaskStatusCompleted   TaskStatus = "Completed"
	TaskStatusError       TaskStatus = "Error"
)

func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true while bytes are being transferred.
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusDownloading
}

// IsFinished returns true once the task completed or failed.
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}

// DownloadTask is one file of the confirmed subset and where it goes on disk.
type DownloadTask struct {
	ID        string
	Entry     DirectoryEntry
	File      FileRef
	LocalPath string

	Status TaskStatus
	Bytes  int64
	Err    error

	StartedAt  time.Time
	FinishedAt time.Time
}
