package narrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/moorebrett0/moodmeter/internal/monitor"
	"github.com/moorebrett0/moodmeter/internal/mood"
)

type fakeProvider struct {
	reply      string
	err        error
	lastPrompt string
	hadCtxDL   bool
}

func (f *fakeProvider) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	f.lastPrompt = prompt
	_, f.hadCtxDL = ctx.Deadline()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.reply, f.err
}

func TestRemarkUsesFirstLine(t *testing.T) {
	p := &fakeProvider{reply: "\"My fans are screaming.\"\nSecond line"}
	n := newWithProvider(p, Config{Timeout: time.Second, RateLimit: 5, RateWindow: time.Minute})

	s := monitor.Sample{CPU: 96, Battery: 100}
	got, err := n.Remark(context.Background(), mood.Classify(s), s)
	if err != nil {
		t.Fatalf("Remark: %v", err)
	}
	if got != "My fans are screaming." {
		t.Errorf("remark = %q", got)
	}
	if !strings.Contains(p.lastPrompt, "CPU on fire") {
		t.Errorf("prompt missing mood: %q", p.lastPrompt)
	}
	if !p.hadCtxDL {
		t.Error("provider called without a deadline")
	}
}

func TestRemarkRateLimit(t *testing.T) {
	now := time.Unix(0, 0)
	n := newWithProvider(&fakeProvider{reply: "ok"}, Config{RateLimit: 2, RateWindow: time.Minute})
	n.now = func() time.Time { return now }

	s := monitor.Sample{Battery: 100}
	r := mood.Classify(s)
	for i := 0; i < 2; i++ {
		if _, err := n.Remark(context.Background(), r, s); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if _, err := n.Remark(context.Background(), r, s); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("third call err = %v, want ErrRateLimited", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := n.Remark(context.Background(), r, s); err != nil {
		t.Errorf("after window: %v", err)
	}
}

func TestRemarkProviderError(t *testing.T) {
	n := newWithProvider(&fakeProvider{err: errors.New("quota")}, Config{})
	s := monitor.Sample{Battery: 100}
	if _, err := n.Remark(context.Background(), mood.Classify(s), s); err == nil {
		t.Error("expected error")
	}
}

func TestNewWithoutKeysIsNil(t *testing.T) {
	if n := New(context.Background(), Config{}); n != nil {
		t.Error("expected nil narrator without API keys")
	}
	if n := New(context.Background(), Config{Provider: "claude"}); n != nil {
		t.Error("expected nil narrator when forced provider has no key")
	}
}

func TestRemarkHonorsCancelledContext(t *testing.T) {
	n := newWithProvider(&fakeProvider{reply: "ok"}, Config{Timeout: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := monitor.Sample{Battery: 100}
	if _, err := n.Remark(ctx, mood.Classify(s), s); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
