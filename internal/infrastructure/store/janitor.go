package store

import (
	"context"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"

	"github.com/janhq/amo-server/internal/domain/realtime"
	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

const (
	// DefaultCleanupSchedule sweeps expired leases every minute.
	DefaultCleanupSchedule = "* * * * *"
	janitorJobTimeout      = 30 * time.Second
)

// Janitor removes expired realtime leases on a cron schedule.
type Janitor struct {
	ctab      *crontab.Crontab
	store     realtime.LeaseStore
	schedule  string
	onExpired func(n int)
	now       func() time.Time
	log       zerolog.Logger
}

// NewJanitor creates a janitor. onExpired, when set, is told how many leases
// each sweep removed.
func NewJanitor(store realtime.LeaseStore, schedule string, onExpired func(n int), log zerolog.Logger) *Janitor {
	if schedule == "" {
		schedule = DefaultCleanupSchedule
	}
	return &Janitor{
		ctab:      crontab.New(),
		store:     store,
		schedule:  schedule,
		onExpired: onExpired,
		now:       time.Now,
		log:       log.With().Str("component", "lease-janitor").Logger(),
	}
}

// Run schedules the sweep and blocks until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) error {
	// sweep once on start
	j.Sweep(ctx)

	if err := j.ctab.AddJob(j.schedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), janitorJobTimeout)
		defer cancel()
		j.Sweep(jobCtx)
	}); err != nil {
		j.ctab.Shutdown()
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add lease cleanup job")
	}
	j.log.Info().Str("schedule", j.schedule).Msg("lease cleanup scheduled")

	<-ctx.Done()
	j.ctab.Shutdown()
	j.log.Info().Msg("lease janitor stopped")
	return nil
}

// Sweep deletes expired leases once and returns how many were removed.
func (j *Janitor) Sweep(ctx context.Context) int {
	removed, err := j.store.DeleteExpired(ctx, j.now())
	if err != nil {
		j.log.Error().Err(err).Msg("failed to delete expired leases")
		return 0
	}
	if removed > 0 {
		j.log.Info().Int("expired", removed).Msg("lease cleanup completed")
		if j.onExpired != nil {
			j.onExpired(removed)
		}
	}
	return removed
}
