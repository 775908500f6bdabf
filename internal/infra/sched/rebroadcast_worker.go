package sched

import (
	"context"
	"time"

	"translator-booking/internal/usecase"

	"github.com/rs/zerolog"
)

// RebroadcastWorker re-announces jobs that have sat unclaimed too long.
type RebroadcastWorker struct {
	interval time.Duration
	after    time.Duration
	bookings usecase.BookingUseCase
	log      *zerolog.Logger
}

func NewRebroadcastWorker(interval, after time.Duration, bookings usecase.BookingUseCase, logger *zerolog.Logger) *RebroadcastWorker {
	l := logger.With().Str("component", "RebroadcastWorker").Logger()
	return &RebroadcastWorker{interval: interval, after: after, bookings: bookings, log: &l}
}

func (w *RebroadcastWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting re-broadcast worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping re-broadcast worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.bookings.RebroadcastStale(ctx, w.after)
			if err != nil {
				w.log.Error().Err(err).Msg("re-broadcast pass failed")
			}
			if n > 0 {
				w.log.Info().Int("count", n).Msg("stale jobs re-broadcast")
			}
		}
	}
}
