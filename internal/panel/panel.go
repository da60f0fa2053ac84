// Package panel is the terminal status panel: mood headline, animated emoji
// and one progress bar per resource.
package panel

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moorebrett0/moodmeter/internal/monitor"
	"github.com/moorebrett0/moodmeter/internal/mood"
	"github.com/moorebrett0/moodmeter/internal/surface"
)

// barWidth includes the trailing percentage.
const barWidth = 30

var (
	moodBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333344")).
			Padding(0, 2).
			Width(52)
	messageStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff"))
	remarkStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#a0a0b0"))
	labelStyle   = lipgloss.NewStyle().Width(12).Foreground(lipgloss.Color("#c0c0d0"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// title pulse, one color per frame group
	pulseColors = []lipgloss.Color{"#a090ff", "#b4a8ff", "#c8c0ff", "#b4a8ff"}
)

// gauge is one resource's row: its latest value and the bar it is drawn with.
// Load gauges pulse red while above pulseAbove; the battery gauge never pulses.
type gauge struct {
	label string
	value float64
	bar   progress.Model
	color func(float64) lipgloss.Color

	pulses bool
	pulse  bool
	phase  int
}

const pulseAbove = 90

// pulseShades cycle the bar's fill while it pulses.
var pulseShades = []lipgloss.Color{"#ff4646", "#d93b3b", "#b33030", "#d93b3b"}

func newGauge(label string) *gauge {
	return newColoredGauge(label, barColor, true)
}

func newBatteryGauge(label string) *gauge {
	return newColoredGauge(label, batteryColor, false)
}

func newColoredGauge(label string, color func(float64) lipgloss.Color, pulses bool) *gauge {
	g := &gauge{
		label:  label,
		bar:    progress.New(progress.WithWidth(barWidth), progress.WithSolidFill(string(color(0)))),
		color:  color,
		pulses: pulses,
	}
	g.set(0)
	return g
}

func (g *gauge) set(v float64) {
	g.value = v
	g.bar.FullColor = string(g.color(v))
	pulse := g.pulses && v > pulseAbove
	if !pulse {
		g.phase = 0
	}
	g.pulse = pulse
}

// advance moves the pulse one frame; idle gauges stay put.
func (g *gauge) advance() {
	if !g.pulse {
		return
	}
	g.phase = (g.phase + 1) % len(pulseShades)
	g.bar.FullColor = string(pulseShades[g.phase])
}

func (g *gauge) render(extra string) string {
	return labelStyle.Render(g.label) + g.bar.ViewAs(g.value/100) + extra
}

// barColor is for load gauges, where higher is worse.
func barColor(v float64) lipgloss.Color {
	switch {
	case v >= 80:
		return lipgloss.Color("#ff4646")
	case v >= 50:
		return lipgloss.Color("#ffb446")
	default:
		return lipgloss.Color("#46d282")
	}
}

// batteryColor is for charge, where lower is worse.
func batteryColor(v float64) lipgloss.Color {
	switch {
	case v <= 15:
		return lipgloss.Color("#ff4646")
	case v <= 30:
		return lipgloss.Color("#ffb446")
	default:
		return lipgloss.Color("#46d282")
	}
}

type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

type (
	updateMsg surface.Update
	tickMsg   time.Time
)

// Model is the bubbletea model behind the panel.
type Model struct {
	title  string
	tick   time.Duration
	gauges map[mood.Category]*gauge

	result  mood.Result
	sample  monitor.Sample
	remark  string
	updated time.Time
	ready   bool

	anim  animation
	frame int
}

// New creates a panel model. tick is the animation frame interval.
func New(title string, tick time.Duration) Model {
	labels := map[mood.Category]string{
		mood.CPU:     "CPU Usage",
		mood.RAM:     "RAM Usage",
		mood.Disk:    "Disk Usage",
		mood.Network: "Network",
		mood.Battery: "Battery",
	}
	gauges := make(map[mood.Category]*gauge, len(labels))
	for _, c := range mood.Categories {
		if c == mood.Battery {
			gauges[c] = newBatteryGauge(labels[c])
			continue
		}
		gauges[c] = newGauge(labels[c])
	}
	return Model{title: title, tick: tick, gauges: gauges}
}

func (m Model) Init() tea.Cmd {
	return tickCmd(m.tick)
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}

	case tickMsg:
		m.frame++
		m.anim.advance()
		for _, g := range m.gauges {
			g.advance()
		}
		return m, tickCmd(m.tick)

	case updateMsg:
		m.apply(surface.Update(msg))
	}
	return m, nil
}

func (m *Model) apply(u surface.Update) {
	s := u.Sample
	m.gauges[mood.CPU].set(s.CPU)
	m.gauges[mood.RAM].set(s.RAM)
	m.gauges[mood.Disk].set(s.Disk)
	m.gauges[mood.Network].set(s.Network)
	m.gauges[mood.Battery].set(s.Battery)

	if !m.ready || u.Result.Tier != m.result.Tier {
		m.remark = ""
	}
	if u.Remark != "" {
		m.remark = u.Remark
	}

	m.result = u.Result
	m.sample = s
	m.updated = s.TakenAt
	m.ready = true
	m.anim.set(u.Result.Hint)
}

func (m Model) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).
		Foreground(pulseColors[(m.frame/4)%len(pulseColors)]).
		Render(m.title)
	b.WriteString(" " + title + "\n")

	emoji, message := "\U0001F634", "Initializing mood detection..."
	if m.ready {
		emoji, message = m.result.Tier.Emoji, m.result.Tier.Message
	}
	pad, lift := m.anim.shift()

	var box strings.Builder
	box.WriteString(strings.Repeat("\n", lift))
	box.WriteString(strings.Repeat(" ", pad) + emoji + "\n")
	box.WriteString(strings.Repeat("\n", 1-min(lift, 1)))
	box.WriteString(messageStyle.Render(message))
	if m.remark != "" {
		box.WriteString("\n" + remarkStyle.Render(m.remark))
	}
	b.WriteString(moodBoxStyle.Render(box.String()) + "\n")

	for _, c := range mood.Categories {
		extra := ""
		if c == mood.Battery && m.sample.Plugged {
			extra = " ⚡"
		}
		b.WriteString(" " + m.gauges[c].render(extra) + "\n")
	}

	help := keys.Quit.Help()
	hint := help.Key + " to " + help.Desc
	footer := "waiting for first sample · " + hint
	if m.ready {
		footer = fmt.Sprintf("updated %s · %s", m.updated.Format("15:04:05"), hint)
	}
	b.WriteString(" " + footerStyle.Render(footer) + "\n")
	return b.String()
}

// Panel runs the model in a bubbletea program and accepts updates from
// other goroutines.
type Panel struct {
	program *tea.Program
}

// NewPanel wraps m in a program. opts are passed to tea.NewProgram.
func NewPanel(m Model, opts ...tea.ProgramOption) *Panel {
	return &Panel{program: tea.NewProgram(m, opts...)}
}

// Show posts u to the program's event queue. Safe from any goroutine.
func (p *Panel) Show(u surface.Update) {
	p.program.Send(updateMsg(u))
}

// Run blocks until the user quits or the program's context is cancelled.
func (p *Panel) Run() error {
	_, err := p.program.Run()
	return err
}
