package narrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/moorebrett0/moodmeter/internal/monitor"
	"github.com/moorebrett0/moodmeter/internal/mood"
)

// ErrRateLimited is returned when the sliding window is full.
var ErrRateLimited = errors.New("narrator: rate limited")

// Narrator asks an AI provider for a one-line remark about the current mood.
type Narrator struct {
	provider Provider
	timeout  time.Duration

	// Sliding-window rate limiter
	mu      sync.Mutex
	window  []time.Time
	rateMax int
	rateDur time.Duration
	now     func() time.Time
}

// Config for creating a Narrator.
type Config struct {
	ClaudeAPIKey string
	ClaudeModel  string

	GeminiAPIKey string
	GeminiModel  string

	// Which provider to force ("claude", "gemini", or "" for auto-detect)
	Provider string

	MaxTokens  int64
	Timeout    time.Duration
	RateLimit  int
	RateWindow time.Duration
}

// New creates a Narrator. Returns nil if no API key is configured.
func New(ctx context.Context, cfg Config) *Narrator {
	provider := newProvider(ctx, cfg)
	if provider == nil {
		slog.Info("narrator: no API key configured, remarks disabled")
		return nil
	}
	return newWithProvider(provider, cfg)
}

func newWithProvider(p Provider, cfg Config) *Narrator {
	return &Narrator{
		provider: p,
		timeout:  cfg.Timeout,
		rateMax:  cfg.RateLimit,
		rateDur:  cfg.RateWindow,
		now:      time.Now,
	}
}

// newProvider auto-detects or forces the AI provider.
func newProvider(ctx context.Context, cfg Config) Provider {
	pick := cfg.Provider

	if pick == "" {
		switch {
		case cfg.ClaudeAPIKey != "":
			pick = "claude"
		case cfg.GeminiAPIKey != "":
			pick = "gemini"
		}
	}

	switch pick {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			slog.Error("narrator: AI_PROVIDER=claude but ANTHROPIC_API_KEY is not set")
			return nil
		}
		slog.Info("narrator: using claude", "model", cfg.ClaudeModel)
		return newClaudeProvider(cfg.ClaudeAPIKey, cfg.ClaudeModel, cfg.MaxTokens)
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			slog.Error("narrator: AI_PROVIDER=gemini but GOOGLE_API_KEY is not set")
			return nil
		}
		slog.Info("narrator: using gemini", "model", cfg.GeminiModel)
		p, err := newGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.MaxTokens)
		if err != nil {
			slog.Error("narrator: failed to create gemini provider", "err", err)
			return nil
		}
		return p
	default:
		return nil
	}
}

// Remark returns a short in-character line for the given classification.
// It blocks for at most the configured timeout, and returns early when ctx
// is cancelled.
func (n *Narrator) Remark(ctx context.Context, r mood.Result, s monitor.Sample) (string, error) {
	if !n.rateAllow() {
		return "", ErrRateLimited
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	text, err := n.provider.Generate(ctx, systemPrompt, buildPrompt(r, s))
	if err != nil {
		return "", fmt.Errorf("narrator: generate: %w", err)
	}
	return firstLine(text), nil
}

const systemPrompt = `You are the voice of a computer's status widget. The computer has moods
that follow its resource usage. Reply with exactly one short, funny sentence
(under 20 words) in the first person, as the computer. No emoji, no quotes.`

func buildPrompt(r mood.Result, s monitor.Sample) string {
	return fmt.Sprintf(`Current mood: %s
Busiest resource: %s at %.0f%%

## Readings
- CPU: %.1f%%
- RAM: %.1f%%
- Disk: %.1f%%
- Network load: %.1f%%
- Battery: %.0f%% (plugged in: %v)`,
		r.Tier.Message, r.Category, r.Value,
		s.CPU, s.RAM, s.Disk, s.Network, s.Battery, s.Plugged)
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.Trim(strings.TrimSpace(text), `"`)
}

// --- Sliding-window rate limiter ---

func (n *Narrator) rateAllow() bool {
	if n.rateMax <= 0 {
		return true
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	cutoff := now.Add(-n.rateDur)

	valid := n.window[:0]
	for _, t := range n.window {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	n.window = valid

	if len(n.window) >= n.rateMax {
		return false
	}

	n.window = append(n.window, now)
	return true
}
