package monitor

import (
	"errors"
	"fmt"
	"time"
)

// ErrSampling marks a failed polling cycle. The loop logs it and backs off.
var ErrSampling = errors.New("sampling failed")

// Sample is one polling cycle's readings. Every value is a percentage in [0,100].
type Sample struct {
	CPU       float64
	RAM       float64
	Disk      float64
	Network   float64 // smoothed throughput, not an OS percentage
	Battery   float64 // 100 when no battery is present or the charger is plugged in
	Plugged   bool
	NoBattery bool // no battery sensor was found
	TakenAt   time.Time
}

// FormatSample returns a one-line summary.
func FormatSample(s Sample) string {
	return fmt.Sprintf("CPU: %.1f%% | RAM: %.1f%% | Disk: %.1f%% | Net: %.1f%% | Battery: %.0f%%",
		s.CPU, s.RAM, s.Disk, s.Network, s.Battery)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
