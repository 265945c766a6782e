package cron

import (
	"context"
	"log/slog"
	"time"
)

// Warmer reloads cached workbooks from their source.
type Warmer interface {
	Warm(ctx context.Context, names ...string) error
}

// WorkbookJobs keeps the cached copies of the Drive workbooks fresh so
// reports rarely wait on a download.
type WorkbookJobs struct {
	warmer Warmer
	files  []string
}

func NewWorkbookJobs(warmer Warmer, files ...string) *WorkbookJobs {
	return &WorkbookJobs{warmer: warmer, files: files}
}

func (j *WorkbookJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("refresh_workbook_cache", interval, j.RefreshWorkbookCache)
}

func (j *WorkbookJobs) RefreshWorkbookCache(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := j.warmer.Warm(ctx, j.files...); err != nil {
		return err
	}
	slog.Info("Cron: Workbook cache refreshed", "files", len(j.files))
	return nil
}
