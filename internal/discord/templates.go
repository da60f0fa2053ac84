package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/moorebrett0/moodmeter/internal/mood"
	"github.com/moorebrett0/moodmeter/internal/surface"
)

// progressBar renders a visual bar like ████████░░ 78%
func progressBar(value float64, width int) string {
	filled := int(value / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled
	return fmt.Sprintf("%s%s %.0f%%", strings.Repeat("█", filled), strings.Repeat("░", empty), value)
}

// hintColor returns a Discord embed color for the animation hint.
func hintColor(h mood.Hint) int {
	switch h {
	case mood.HintShake:
		return 0xED4245 // red
	case mood.HintBounce:
		return 0xFEE75C // yellow
	default:
		return 0x57F287 // green
	}
}

// StatusEmbed builds a rich embed for /mood and alerts.
func StatusEmbed(u surface.Update) *discordgo.MessageEmbed {
	s := u.Sample
	stats := fmt.Sprintf(
		"cpu     %s\nram     %s\ndisk    %s\nnetwork %s\nbattery %s",
		progressBar(s.CPU, 10),
		progressBar(s.RAM, 10),
		progressBar(s.Disk, 10),
		progressBar(s.Network, 10),
		progressBar(s.Battery, 10),
	)

	description := u.Result.Tier.Message
	if u.Remark != "" {
		description += "\n*" + u.Remark + "*"
	}

	footer := "on battery"
	switch {
	case s.NoBattery:
		footer = "no battery"
	case s.Plugged:
		footer = "plugged in"
	}

	ts := s.TakenAt
	if ts.IsZero() {
		ts = time.Now()
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s", u.Result.Tier.Emoji, u.Result.Category),
		Description: description,
		Color:       hintColor(u.Result.Hint),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Readings", Value: "```\n" + stats + "\n```", Inline: false},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: footer},
		Timestamp: ts.Format(time.RFC3339),
	}
}

// TemplateAlert is the plain-text line posted when the widget starts shaking.
func TemplateAlert(u surface.Update) string {
	return fmt.Sprintf("%s **%s** is at %.0f%%: %s",
		u.Result.Tier.Emoji, u.Result.Category, u.Result.Value, u.Result.Tier.Message)
}

// hintToPresence maps the animation hint to a Discord online status.
func hintToPresence(h mood.Hint) string {
	switch h {
	case mood.HintShake:
		return "dnd"
	case mood.HintBounce:
		return "idle"
	default:
		return "online"
	}
}
