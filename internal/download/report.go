package download

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"go-autoindex/internal/model"
	"go-autoindex/internal/store"
)

// WriteReport prints one line per failed task followed by the batch totals.
func WriteReport(w io.Writer, tasks []model.DownloadTask, sum store.Summary) {
	for _, t := range tasks {
		if t.Status != model.TaskStatusError {
			continue
		}
		fmt.Fprintf(w, "failed: %s: %v\n", t.File.URL, t.Err)
	}
	fmt.Fprintf(w, "Downloaded %d of %d files (%s), %d failed.\n",
		sum.Completed, sum.Total, humanize.Bytes(uint64(sum.Bytes)), sum.Failed)
}
