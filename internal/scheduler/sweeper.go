// Package scheduler owns the one time-driven piece of the swap workflow.
// The services hold no timers; a Sweeper periodically asks the swap
// service to expire requests that sat pending past the expiry window.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/guildops/raid-roster-discord/internal/clock"
	"github.com/guildops/raid-roster-discord/internal/entities"
)

//go:generate mockgen -destination=mock/mock_expirer.go -package=mockscheduler -source=sweeper.go

// Expirer is the slice of the swap service the sweeper drives
type Expirer interface {
	ExpireOverdue(ctx context.Context, now time.Time, expiry time.Duration) ([]*entities.SwapRequest, error)
}

// Sweeper runs the periodic expiry pass over open swap requests
type Sweeper struct {
	expirer      Expirer
	expiry       time.Duration
	interval     time.Duration
	timeProvider clock.TimeProvider
}

// SweeperConfig holds configuration for the sweeper
type SweeperConfig struct {
	Expirer      Expirer            // Required
	Expiry       time.Duration      // Required: how old a pending request may grow
	Interval     time.Duration      // Required: how often the sweep runs
	TimeProvider clock.TimeProvider // Optional, will use default if nil
}

// NewSweeper creates a new sweeper
func NewSweeper(cfg *SweeperConfig) *Sweeper {
	if cfg.Expirer == nil {
		panic("expirer is required")
	}
	if cfg.Expiry <= 0 {
		panic("expiry must be positive")
	}
	if cfg.Interval <= 0 {
		panic("interval must be positive")
	}

	s := &Sweeper{
		expirer:      cfg.Expirer,
		expiry:       cfg.Expiry,
		interval:     cfg.Interval,
		timeProvider: cfg.TimeProvider,
	}

	if s.timeProvider == nil {
		s.timeProvider = clock.NewRealTimeProvider()
	}

	return s
}

// Start launches the sweep loop in its own goroutine. The loop stops
// when ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(ctx)
			}
		}
	}()
}

// Sweep runs a single expiry pass. Failures are logged, not returned;
// the next tick retries.
func (s *Sweeper) Sweep(ctx context.Context) int {
	expired, err := s.expirer.ExpireOverdue(ctx, s.timeProvider.Now(), s.expiry)
	if err != nil {
		log.Printf("Failed to expire swap requests: %v", err)
		return 0
	}

	for _, request := range expired {
		log.Printf("Expired swap request #%d for raid %s", request.ID, request.RaidID)
	}

	return len(expired)
}
