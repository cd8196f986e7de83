package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

type archiveService interface {
	PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Janitor trims the game archive on a cron schedule so cold storage
// does not grow without bound. Live games need no sweeping, they age
// out of hot storage on their own.
type Janitor struct {
	logger  *slog.Logger
	archive archiveService
	cron    *cron.Cron

	schedule string
	maxAge   time.Duration
}

func New(logger *slog.Logger, archive archiveService, schedule string, maxAge time.Duration) *Janitor {
	return &Janitor{
		logger:   logger,
		archive:  archive,
		cron:     cron.New(),
		schedule: schedule,
		maxAge:   maxAge,
	}
}

// Start registers the sweep and runs it on the configured schedule
// until ctx is canceled. An empty schedule disables the janitor.
func (that *Janitor) Start(ctx context.Context) error {
	log := that.logger.With("component", "janitor")

	if that.schedule == "" {
		log.Info("no schedule configured, janitor disabled")
		return nil
	}

	if _, err := cron.ParseStandard(that.schedule); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", that.schedule, err)
	}

	if _, err := that.cron.AddFunc(that.schedule, func() {
		that.sweep(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule janitor: %w", err)
	}

	that.cron.Start()

	log.Info("janitor started", "schedule", that.schedule, "maxAge", that.maxAge.String())

	go func() {
		<-ctx.Done()
		<-that.cron.Stop().Done()
		log.Info("janitor stopped")
	}()

	return nil
}

func (that *Janitor) sweep(ctx context.Context) {
	log := that.logger.With("method", "sweep")

	removed, err := that.archive.PurgeOlderThan(ctx, that.maxAge)
	if err != nil {
		log.Error("failed to purge archived games", "error", err)
		return
	}

	if removed > 0 {
		log.Info("purged archived games", "removed", removed)
	}
}
