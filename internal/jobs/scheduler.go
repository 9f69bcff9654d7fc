package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// BlacklistPruner removes blacklist rows whose tokens have passed their
// natural expiry.
type BlacklistPruner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron   *cron.Cron
	pruner BlacklistPruner
	log    zerolog.Logger
}

func NewScheduler(pruner BlacklistPruner, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		pruner: pruner,
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.pruneBlacklist); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish, bounded at five seconds.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) pruneBlacklist() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.pruner.DeleteExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("blacklist prune failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("pruned expired blacklist entries")
	}
}
