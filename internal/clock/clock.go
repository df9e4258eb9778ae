// Package clock abstracts time for services that stamp timestamps.
package clock

import "time"

//go:generate mockgen -destination=mocks/mock_time_provider.go -package=mocks github.com/guildops/raid-roster-discord/internal/clock TimeProvider

// TimeProvider supplies the current time, injectable for tests
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider uses the system clock
type RealTimeProvider struct{}

// Now returns the current system time
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// NewRealTimeProvider creates a system-clock TimeProvider
func NewRealTimeProvider() *RealTimeProvider {
	return &RealTimeProvider{}
}
