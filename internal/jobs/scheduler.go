package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// CatalogCounter is the slice of the repository the scheduler observes.
type CatalogCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Scheduler periodically logs the catalog size. Observability only: it never
// touches storage and never repairs rows.
type Scheduler struct {
	cron    *cron.Cron
	catalog CatalogCounter
	log     zerolog.Logger
}

func NewScheduler(catalog CatalogCounter, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:    c,
		catalog: catalog,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 * * * *", s.logCatalogSize); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits briefly for a running job to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) logCatalogSize() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := s.catalog.Count(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("catalog count failed")
		return
	}
	s.log.Info().Int64("images", count).Msg("catalog size")
}
