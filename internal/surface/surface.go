// Package surface carries classification results from the polling goroutine
// to whatever renders them.
package surface

import (
	"context"
	"log/slog"

	"github.com/moorebrett0/moodmeter/internal/monitor"
	"github.com/moorebrett0/moodmeter/internal/mood"
)

// Update is what a rendering surface receives once per good polling cycle.
type Update struct {
	Result mood.Result
	Sample monitor.Sample
	Remark string // optional narrator line; empty when disabled or unavailable
}

// Surface renders updates. Show is called from the polling goroutine, so an
// implementation must hand the update to its own event loop rather than
// touching UI state directly.
type Surface interface {
	Show(Update)
}

// Func adapts a plain function to Surface.
type Func func(Update)

func (f Func) Show(u Update) { f(u) }

// Fanout delivers every update to each surface in order.
type Fanout []Surface

func (f Fanout) Show(u Update) {
	for _, s := range f {
		s.Show(u)
	}
}

// Pipeline classifies samples and pushes the result to a surface. Its Handle
// method is meant to be the monitor's onSample callback.
type Pipeline struct {
	classifier *mood.Classifier
	narrator   Narrator
	out        Surface

	last mood.Tier
	have bool
}

// Narrator produces an optional remark when the mood tier changes.
type Narrator interface {
	Remark(ctx context.Context, r mood.Result, s monitor.Sample) (string, error)
}

// NewPipeline wires a classifier to a surface. narrator may be nil.
func NewPipeline(c *mood.Classifier, n Narrator, out Surface) *Pipeline {
	return &Pipeline{classifier: c, narrator: n, out: out}
}

// Handle classifies one sample and shows it. ctx bounds the narrator call.
func (p *Pipeline) Handle(ctx context.Context, s monitor.Sample) {
	res := p.classifier.Classify(s)
	u := Update{Result: res, Sample: s}

	changed := !p.have || res.Tier != p.last
	p.last, p.have = res.Tier, true

	if changed {
		slog.Info("mood: tier changed", "category", res.Category, "message", res.Tier.Message, "hint", res.Hint)
		if p.narrator != nil {
			remark, err := p.narrator.Remark(ctx, res, s)
			if err != nil {
				slog.Warn("mood: narrator failed", "err", err)
			}
			u.Remark = remark
		}
	}

	p.out.Show(u)
}
