package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/postview/internal/foundation/errors"
	"git.home.luguber.info/inful/postview/internal/logfields"
)

// Refresher reloads a catalog on a fixed interval.
type Refresher struct {
	scheduler gocron.Scheduler
	catalog   *Catalog
	interval  time.Duration
	jobID     string
}

// NewRefresher creates a refresher for c. The interval must be positive.
func NewRefresher(c *Catalog, interval time.Duration) (*Refresher, error) {
	if interval <= 0 {
		return nil, errors.ValidationError("refresh interval must be > 0").
			WithContext("interval", interval.String()).
			Build()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to create scheduler").Build()
	}
	return &Refresher{scheduler: s, catalog: c, interval: interval}, nil
}

// Start schedules the refresh job and starts the scheduler. Each run reloads
// with ctx; the first run happens one interval after Start.
func (r *Refresher) Start(ctx context.Context) error {
	job, err := r.scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() { r.refresh(ctx) }),
		gocron.WithName("post-index-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to schedule index refresh").Build()
	}
	r.jobID = job.ID().String()

	slog.Info("Starting index refresher", slog.Duration("interval", r.interval))
	r.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down and waits for a running refresh to finish.
func (r *Refresher) Stop() error {
	slog.Info("Stopping index refresher")
	return r.scheduler.Shutdown()
}

// JobID returns the scheduled job's ID, empty before Start.
func (r *Refresher) JobID() string { return r.jobID }

func (r *Refresher) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	slog.Debug("Scheduled index refresh")
	if err := r.catalog.Reload(ctx); err != nil {
		slog.Error("Scheduled index refresh failed", logfields.Error(err))
	}
}
