package monitor

import "time"

// NetCounters are cumulative byte counters summed over all interfaces.
type NetCounters struct {
	Sent uint64
	Recv uint64
}

// netMeter turns cumulative byte counters into a smoothed 0-100 load figure.
// Owned by the sampling goroutine; not safe for concurrent use.
type netMeter struct {
	scale  float64 // percent per MB/s
	size   int
	window []float64

	prev   NetCounters
	prevAt time.Time
	primed bool
}

func newNetMeter(size int, scale float64) *netMeter {
	if size < 1 {
		size = 1
	}
	return &netMeter{
		scale:  scale,
		size:   size,
		window: make([]float64, 0, size),
	}
}

// observe records a counter reading and returns the rolling mean.
// The first reading only primes the meter and reports 0.
func (n *netMeter) observe(c NetCounters, at time.Time) float64 {
	if !n.primed {
		n.prev, n.prevAt, n.primed = c, at, true
		return 0
	}

	elapsed := at.Sub(n.prevAt).Seconds()
	if elapsed <= 0 {
		return 0
	}

	// Signed delta: counters can go backwards when an interface resets.
	delta := (float64(c.Sent) - float64(n.prev.Sent)) + (float64(c.Recv) - float64(n.prev.Recv))
	mbPerSec := delta / elapsed / 1024 / 1024

	n.push(clamp(mbPerSec * n.scale))
	n.prev, n.prevAt = c, at
	return n.mean()
}

func (n *netMeter) push(v float64) {
	if len(n.window) == n.size {
		copy(n.window, n.window[1:])
		n.window = n.window[:n.size-1]
	}
	n.window = append(n.window, v)
}

func (n *netMeter) mean() float64 {
	if len(n.window) == 0 {
		return 0
	}
	var sum float64
	for _, v := range n.window {
		sum += v
	}
	return sum / float64(len(n.window))
}
