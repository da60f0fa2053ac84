package discord

import (
	"strings"
	"testing"
	"time"

	"github.com/moorebrett0/moodmeter/internal/monitor"
	"github.com/moorebrett0/moodmeter/internal/mood"
	"github.com/moorebrett0/moodmeter/internal/surface"
)

func upd(cpu float64) surface.Update {
	s := monitor.Sample{CPU: cpu, Battery: 100, Plugged: true}
	return surface.Update{Result: mood.Classify(s), Sample: s}
}

func TestNotifierPresenceOnTierChange(t *testing.T) {
	n := notifier{cooldown: time.Minute}
	now := time.Unix(0, 0)

	if a := n.decide(upd(10), now); !a.presence || a.alert {
		t.Errorf("first update = %+v", a)
	}
	if a := n.decide(upd(12), now); a.presence {
		t.Error("presence refreshed without a tier change")
	}
	if a := n.decide(upd(55), now); !a.presence {
		t.Error("presence not refreshed on tier change")
	}
}

func TestNotifierAlertCooldown(t *testing.T) {
	n := notifier{cooldown: 10 * time.Minute}
	now := time.Unix(0, 0)

	if a := n.decide(upd(96), now); !a.alert {
		t.Fatal("no alert on first shake")
	}
	if a := n.decide(upd(97), now.Add(time.Second)); a.alert {
		t.Error("alert repeated while still shaking")
	}

	n.decide(upd(10), now.Add(2*time.Minute))
	if a := n.decide(upd(96), now.Add(3*time.Minute)); a.alert {
		t.Error("alert inside cooldown")
	}

	n.decide(upd(10), now.Add(11*time.Minute))
	if a := n.decide(upd(96), now.Add(12*time.Minute)); !a.alert {
		t.Error("no alert after cooldown")
	}
}

func TestStatusEmbed(t *testing.T) {
	u := upd(96)
	u.Remark = "toasty"
	e := StatusEmbed(u)
	if e.Color != hintColor(mood.HintShake) {
		t.Errorf("color = %x", e.Color)
	}
	if !strings.Contains(e.Description, "CPU on fire") || !strings.Contains(e.Description, "toasty") {
		t.Errorf("description = %q", e.Description)
	}
	if e.Footer.Text != "plugged in" {
		t.Errorf("footer = %q", e.Footer.Text)
	}
	if !strings.Contains(e.Fields[0].Value, "cpu") {
		t.Errorf("readings = %q", e.Fields[0].Value)
	}
}

func TestTemplateAlert(t *testing.T) {
	got := TemplateAlert(upd(96))
	if !strings.Contains(got, "**cpu** is at 96%") {
		t.Errorf("alert = %q", got)
	}
}

func TestShowKeepsOnlyLatest(t *testing.T) {
	b := &Bot{updates: make(chan surface.Update, 1)}
	b.Show(upd(10))
	b.Show(upd(96))
	got := <-b.updates
	if got.Sample.CPU != 96 {
		t.Errorf("queued CPU = %v, want 96", got.Sample.CPU)
	}
	if l := b.latest.Load(); l == nil || l.Sample.CPU != 96 {
		t.Error("latest not recorded")
	}
}

func TestStatusEmbedFooter(t *testing.T) {
	tests := []struct {
		name   string
		sample monitor.Sample
		want   string
	}{
		{"desktop", monitor.Sample{Battery: 100, NoBattery: true}, "no battery"},
		{"charging", monitor.Sample{Battery: 100, Plugged: true}, "plugged in"},
		{"full on battery", monitor.Sample{Battery: 100}, "on battery"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := StatusEmbed(surface.Update{Result: mood.Classify(tt.sample), Sample: tt.sample})
			if e.Footer.Text != tt.want {
				t.Errorf("footer = %q, want %q", e.Footer.Text, tt.want)
			}
		})
	}
}
