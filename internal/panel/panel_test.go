package panel

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moorebrett0/moodmeter/internal/monitor"
	"github.com/moorebrett0/moodmeter/internal/mood"
	"github.com/moorebrett0/moodmeter/internal/surface"
)

func update(s monitor.Sample, remark string) updateMsg {
	return updateMsg(surface.Update{Result: mood.Classify(s), Sample: s, Remark: remark})
}

func step(t *testing.T, m tea.Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	pm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return pm
}

func TestViewBeforeFirstSample(t *testing.T) {
	v := New("Performance Police", time.Second).View()
	if !strings.Contains(v, "Initializing mood detection") {
		t.Errorf("view missing placeholder:\n%s", v)
	}
}

func TestUpdateAppliesSample(t *testing.T) {
	s := monitor.Sample{CPU: 96, RAM: 41, Disk: 10, Network: 5, Battery: 100, Plugged: true, TakenAt: time.Now()}
	m := step(t, New("Performance Police", time.Second), update(s, "my fans hurt"))

	if got := m.gauges[mood.RAM].value; got != 41 {
		t.Errorf("ram gauge = %v, want 41", got)
	}
	if m.anim.kind != mood.HintShake || !m.anim.active {
		t.Errorf("animation = %+v, want active shake", m.anim)
	}

	v := m.View()
	for _, want := range []string{"CPU on fire", "my fans hurt", "RAM Usage", "⚡"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
}

func TestRemarkKeptUntilTierChanges(t *testing.T) {
	hot := monitor.Sample{CPU: 96, Battery: 100}
	m := step(t, New("t", time.Second), update(hot, "toasty"))
	m = step(t, m, update(hot, ""))
	if m.remark != "toasty" {
		t.Errorf("remark = %q after same-tier update", m.remark)
	}
	m = step(t, m, update(monitor.Sample{CPU: 10, Battery: 100}, ""))
	if m.remark != "" {
		t.Errorf("remark = %q after tier change", m.remark)
	}
}

func TestTickAdvancesOnlyActiveAnimation(t *testing.T) {
	m := step(t, New("t", time.Second), update(monitor.Sample{CPU: 10, Battery: 100}, ""))
	m = step(t, m, tickMsg(time.Now()))
	if m.anim.phase != 0 {
		t.Errorf("idle phase = %d, want 0", m.anim.phase)
	}

	m = step(t, m, update(monitor.Sample{CPU: 75, Battery: 100}, ""))
	m = step(t, m, tickMsg(time.Now()))
	m = step(t, m, tickMsg(time.Now()))
	if m.anim.kind != mood.HintBounce || m.anim.phase != 2 {
		t.Errorf("animation = %+v, want bounce phase 2", m.anim)
	}
	if m.frame != 3 {
		t.Errorf("frame = %d, want 3", m.frame)
	}

	// switching kind restarts the phase
	m = step(t, m, update(monitor.Sample{CPU: 99, Battery: 100}, ""))
	if m.anim.phase != 0 {
		t.Errorf("phase = %d after switching to shake", m.anim.phase)
	}
}

func TestQuitKey(t *testing.T) {
	_, cmd := New("t", time.Second).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("no command for q")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestGaugeBar(t *testing.T) {
	tests := []struct {
		v       float64
		percent string
	}{
		{0, "0%"},
		{50, "50%"},
		{100, "100%"},
	}
	for _, tt := range tests {
		g := newGauge("CPU Usage")
		g.set(tt.v)
		got := g.render("")
		if !strings.Contains(got, "CPU Usage") || !strings.Contains(got, tt.percent) {
			t.Errorf("render(%v) = %q", tt.v, got)
		}
		if g.bar.FullColor != string(barColor(tt.v)) {
			t.Errorf("color(%v) = %q", tt.v, g.bar.FullColor)
		}
	}

	empty, full := newGauge("x"), newGauge("x")
	full.set(100)
	if strings.Count(empty.render(""), "█") != 0 {
		t.Error("empty gauge has filled cells")
	}
	if strings.Count(full.render(""), "░") != 0 {
		t.Error("full gauge has empty cells")
	}
}

func TestAnimationShift(t *testing.T) {
	var a animation
	if pad, lift := a.shift(); pad != 2 || lift != 1 {
		t.Errorf("rest shift = %d,%d", pad, lift)
	}
	a.set(mood.HintShake)
	a.advance()
	if pad, _ := a.shift(); pad != shakeOffsets[1] {
		t.Errorf("shake pad = %d, want %d", pad, shakeOffsets[1])
	}
	a.set(mood.HintNone)
	a.advance()
	if a.active || a.phase != 0 {
		t.Errorf("none left animation running: %+v", a)
	}
}

func TestBatteryGaugeColors(t *testing.T) {
	tests := []struct {
		battery float64
		want    string
	}{
		{100, "#46d282"},
		{25, "#ffb446"},
		{10, "#ff4646"},
	}
	for _, tt := range tests {
		m := step(t, New("t", time.Second), update(monitor.Sample{Battery: tt.battery}, ""))
		if got := m.gauges[mood.Battery].bar.FullColor; got != tt.want {
			t.Errorf("battery %v color = %q, want %q", tt.battery, got, tt.want)
		}
	}
}

func TestHotGaugePulses(t *testing.T) {
	m := step(t, New("t", time.Second), update(monitor.Sample{CPU: 95, RAM: 50, Battery: 5}, ""))
	cpu, ram, bat := m.gauges[mood.CPU], m.gauges[mood.RAM], m.gauges[mood.Battery]
	if !cpu.pulse || ram.pulse || bat.pulse {
		t.Fatalf("pulse cpu/ram/battery = %v/%v/%v, want true/false/false", cpu.pulse, ram.pulse, bat.pulse)
	}

	m = step(t, m, tickMsg(time.Now()))
	if cpu.phase != 1 || cpu.bar.FullColor != string(pulseShades[1]) {
		t.Errorf("cpu after tick = phase %d color %q", cpu.phase, cpu.bar.FullColor)
	}
	if bat.phase != 0 || bat.bar.FullColor != "#ff4646" {
		t.Errorf("battery after tick = phase %d color %q", bat.phase, bat.bar.FullColor)
	}

	m = step(t, m, update(monitor.Sample{CPU: 40, Battery: 100}, ""))
	if cpu.pulse || cpu.phase != 0 {
		t.Errorf("cpu still pulsing at 40: %+v", cpu)
	}
}
