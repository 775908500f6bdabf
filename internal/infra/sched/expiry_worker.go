package sched

import (
	"context"
	"time"

	"translator-booking/internal/infra/metrics"
	"translator-booking/internal/usecase"

	"github.com/rs/zerolog"
)

// ExpiryWorker periodically cancels open jobs whose booked time has passed.
type ExpiryWorker struct {
	interval time.Duration
	bookings usecase.BookingUseCase
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, bookings usecase.BookingUseCase, logger *zerolog.Logger) *ExpiryWorker {
	l := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{interval: interval, bookings: bookings, log: &l}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.bookings.ExpireOverdue(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("expiry pass failed")
			}
			if n > 0 {
				metrics.AddExpired(n)
				w.log.Info().Int("count", n).Msg("overdue jobs expired")
			}
		}
	}
}
