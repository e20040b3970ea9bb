package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper removes expired messages on a fixed interval. The retention
// window is ttl; expiry is best-effort, so a message may outlive the
// window by up to one sweep interval.
type Sweeper struct {
	store    MessageStore
	ttl      time.Duration
	interval time.Duration
	log      *zerolog.Logger
}

// NewSweeper builds a sweeper over the given message store.
func NewSweeper(st MessageStore, ttl, interval time.Duration, logger *zerolog.Logger) *Sweeper {
	return &Sweeper{
		store:    st,
		ttl:      ttl,
		interval: interval,
		log:      logger,
	}
}

// Run sweeps until the context is cancelled. One sweep happens
// immediately on start.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.ttl)
	removed, err := s.store.ExpireBefore(ctx, cutoff)
	if err != nil {
		s.log.Warn().Err(err).Msg("message expiry sweep failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("expired messages removed")
	}
}
