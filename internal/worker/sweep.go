package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/filevault/pkg/logger"
)

// SweepTaskName identifies the temp file sweeper.
const SweepTaskName = "sweep_temp_blobs"

// TempSweeper removes leftovers of interrupted writes. *storage.Local implements it.
type TempSweeper interface {
	SweepTemp(ctx context.Context, maxAge time.Duration) (int, error)
}

// SweepTask periodically calls TempSweeper.SweepTemp.
type SweepTask struct {
	sweeper  TempSweeper
	logger   *slog.Logger
	schedule string
	maxAge   time.Duration
}

// NewSweepTask runs sweeper on the cron schedule, removing files older than maxAge.
func NewSweepTask(sweeper TempSweeper, schedule string, maxAge time.Duration, log *slog.Logger) *SweepTask {
	if log == nil {
		log = logger.NewNope()
	}
	return &SweepTask{sweeper: sweeper, logger: log, schedule: schedule, maxAge: maxAge}
}

func (t *SweepTask) Name() string     { return SweepTaskName }
func (t *SweepTask) Schedule() string { return t.schedule }

func (t *SweepTask) Handle(ctx context.Context) error {
	n, err := t.sweeper.SweepTemp(ctx, t.maxAge)
	if n > 0 {
		t.logger.InfoContext(ctx, "temp blobs removed", slog.Int("count", n))
	}
	return err
}
