// Package sweeper expires stale bookings on a schedule.
package sweeper

import (
	"context"
	"time"

	"staybook/internal/notifications"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

const sweepLockID = "sweep"

type BookingStore interface {
	FindExpirable(ctx context.Context, cutoff time.Time) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error
}

type LockStore interface {
	Acquire(ctx context.Context, id string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, id string) error
}

type Sweeper struct {
	bookings BookingStore
	locks    LockStore
	notifier notifications.Notifier
	lockTTL  time.Duration
	interval time.Duration
	log      *logger.Logger
}

func NewSweeper(bookings BookingStore, locks LockStore, notifier notifications.Notifier, lockTTL, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		bookings: bookings,
		locks:    locks,
		notifier: notifier,
		lockTTL:  lockTTL,
		interval: interval,
		log:      log,
	}
}

// Sweep expires every active booking whose checkout falls on or before
// today plus one day. A stay ending tomorrow is therefore already swept
// today; the window closes a day early on purpose.
//
// The sweep-wide lock keeps overlapping runs (or a second replica) from
// expiring the same bookings twice. Returns the number of bookings expired.
func (s *Sweeper) Sweep(ctx context.Context, today time.Time) (int, error) {
	acquired, err := s.locks.Acquire(ctx, sweepLockID, s.lockTTL)
	if err != nil {
		return 0, apperrors.Internal("Failed to acquire sweep lock", err)
	}
	if !acquired {
		s.log.Info("Sweep already in progress, skipping run")
		return 0, nil
	}
	defer func() {
		releaseCtx := context.WithoutCancel(ctx)
		if err := s.locks.Release(releaseCtx, sweepLockID); err != nil {
			s.log.Warn("Failed to release sweep lock", "error", err)
		}
	}()

	cutoff := today.Add(24 * time.Hour)
	candidates, err := s.bookings.FindExpirable(ctx, cutoff)
	if err != nil {
		return 0, apperrors.Internal("Failed to find expirable bookings", err)
	}

	if len(candidates) == 0 {
		s.log.Info("Sweep found nothing to expire", "cutoff", cutoff)
		s.notifier.SweepEmpty(ctx)
		return 0, nil
	}

	expired := 0
	for i := range candidates {
		booking := &candidates[i]
		// Terminal bookings that slipped into the candidate set are left
		// alone so a replayed sweep never notifies twice.
		if booking.Status.IsTerminal() {
			continue
		}
		if err := s.bookings.UpdateStatus(ctx, booking.ID, model.BookingExpired); err != nil {
			s.log.Error("Failed to expire booking", "booking_id", booking.ID, "error", err)
			continue
		}
		booking.Status = model.BookingExpired
		expired++

		s.log.Info("Booking expired",
			"booking_id", booking.ID,
			"accommodation_id", booking.AccommodationID,
			"check_out_date", booking.CheckOutDate,
		)
		s.notifier.BookingExpired(ctx, booking)
	}

	s.log.Info("Sweep finished", "candidates", len(candidates), "expired", expired)
	return expired, nil
}

// Run sweeps immediately and then on every tick until the context ends.
func (s *Sweeper) Run(ctx context.Context) {
	s.log.Info("Sweeper started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweepNow(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Sweeper stopped")
			return
		case <-ticker.C:
			s.sweepNow(ctx)
		}
	}
}

func (s *Sweeper) sweepNow(ctx context.Context) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if _, err := s.Sweep(ctx, today); err != nil {
		s.log.Error("Sweep failed", "error", err)
	}
}
