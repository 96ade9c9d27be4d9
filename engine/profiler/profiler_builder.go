package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithUpdateInterval sets how often stats are written to the log.
// Values <= 0 keep the default (1 second).
//
// Parameters:
//   - interval: time between stat lines
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithUpdateInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval <= 0 {
			return
		}
		p.updateInterval = interval
	}
}
