package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Options tune a Sampler. Zero values fall back to the defaults below.
type Options struct {
	CPUWindow     time.Duration
	DiskPaths     []string
	NetworkWindow int
	NetworkScale  float64
}

const (
	DefaultCPUWindow     = 500 * time.Millisecond
	DefaultNetworkWindow = 10
	DefaultNetworkScale  = 10
)

// DefaultDiskPaths are tried in order until one answers.
var DefaultDiskPaths = []string{"/", `C:\`}

// Sampler produces one Sample per call. It keeps the previous network
// counters between calls, so a Sampler belongs to a single goroutine.
type Sampler struct {
	src       Source
	cpuWindow time.Duration
	diskPaths []string
	net       *netMeter
	now       func() time.Time
}

// NewSampler creates a Sampler reading from src.
func NewSampler(src Source, opts Options) *Sampler {
	if opts.CPUWindow <= 0 {
		opts.CPUWindow = DefaultCPUWindow
	}
	if len(opts.DiskPaths) == 0 {
		opts.DiskPaths = DefaultDiskPaths
	}
	if opts.NetworkWindow < 1 {
		opts.NetworkWindow = DefaultNetworkWindow
	}
	if opts.NetworkScale <= 0 {
		opts.NetworkScale = DefaultNetworkScale
	}
	return &Sampler{
		src:       src,
		cpuWindow: opts.CPUWindow,
		diskPaths: opts.DiskPaths,
		net:       newNetMeter(opts.NetworkWindow, opts.NetworkScale),
		now:       time.Now,
	}
}

// Sample queries every counter once. CPU, memory and network failures are
// returned wrapped in ErrSampling; disk and battery degrade to fixed values.
func (s *Sampler) Sample(ctx context.Context) (Sample, error) {
	cpuPct, err := s.src.CPUPercent(ctx, s.cpuWindow)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %w", ErrSampling, err)
	}

	ramPct, err := s.src.MemPercent(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %w", ErrSampling, err)
	}

	counters, err := s.src.NetCounters(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %w", ErrSampling, err)
	}
	now := s.now()

	battery, plugged, present := s.readBattery(ctx)

	return Sample{
		CPU:       clamp(cpuPct),
		RAM:       clamp(ramPct),
		Disk:      s.readDisk(ctx),
		Network:   s.net.observe(counters, now),
		Battery:   battery,
		Plugged:   plugged,
		NoBattery: !present,
		TakenAt:   now,
	}, nil
}

func (s *Sampler) readDisk(ctx context.Context) float64 {
	for _, path := range s.diskPaths {
		pct, err := s.src.DiskPercent(ctx, path)
		if err == nil {
			return clamp(pct)
		}
		slog.Debug("monitor: disk usage unavailable", "path", path, "err", err)
	}
	return 0
}

// readBattery reports 100 for desktops and while the charger is connected.
// The last result is false when the host has no battery.
func (s *Sampler) readBattery(ctx context.Context) (float64, bool, bool) {
	st, ok := s.src.Battery(ctx)
	if !ok {
		return 100, false, false
	}
	if st.Plugged {
		return 100, true, true
	}
	return clamp(st.Percent), false, true
}
