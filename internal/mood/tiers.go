package mood

import (
	"errors"
	"fmt"
)

// Category is a monitored resource dimension.
type Category string

const (
	CPU     Category = "cpu"
	RAM     Category = "ram"
	Disk    Category = "disk"
	Network Category = "network"
	Battery Category = "battery"
)

// Categories lists every category. The first four are in tie-break priority order.
var Categories = []Category{CPU, RAM, Disk, Network, Battery}

// Tier is one row of a category's mood table.
type Tier struct {
	Threshold float64
	Emoji     string
	Message   string
}

// Table maps each category to its tiers, sorted ascending by threshold.
type Table map[Category][]Tier

// BatteryCritical is the battery level at or below which the battery mood
// overrides every other category.
const BatteryCritical = 15

// DefaultTable is the built-in mood table. Treat it as read-only.
var DefaultTable = Table{
	CPU: {
		{30, "\U0001F634", "CPU chilling: Everything's smooth, no stress."},
		{50, "\U0001F60A", "CPU okay: Running fine, nothing crazy."},
		{70, "\U0001F605", "CPU sweating: Doing some heavy lifting, but coping."},
		{85, "\U0001F630", "CPU stressed: Close some apps or it will explode!"},
		{95, "\U0001F525", "CPU on fire: Run! Save your work NOW!"},
	},
	RAM: {
		{40, "\U0001F4BE", "RAM happy: Plenty of memory, smooth sailing."},
		{65, "\U0001F914", "RAM thinking: Could slow down if you open more stuff."},
		{85, "\U0001F635", "RAM stressed: Might lag soon, be careful."},
		{95, "\U0001F480", "RAM dead tired: Close some programs or face doom!"},
	},
	Disk: {
		{50, "\U0001F4C1", "Disk healthy: Plenty of space, all good."},
		{80, "\U0001F354", "Disk full-ish: Maybe clean some junk."},
		{95, "\U0001F388", "Disk about to pop: Free some space ASAP!"},
	},
	Network: {
		{30, "\U0001F680", "Network flying: Fast and smooth."},
		{60, "\U0001F697", "Network normal: Works fine, nothing to worry about."},
		{80, "\U0001F422", "Network crawling: Things loading slow, patience."},
		{95, "\u2620\ufe0f", "Network dead: Might need a restart or check cables."},
	},
	Battery: {
		{15, "\U0001FAAB", "Battery low: Plug in NOW or bye-bye PC."},
		{30, "\U0001F534", "Battery draining: Better save your work."},
		{80, "\U0001F7E1", "Battery okay: Still got juice, keep going."},
		{101, "\U0001F7E2", "Battery full: Party time, fully charged!"},
	},
}

// Validate checks that every category has a non-empty ascending list and
// that the battery list ends above 100, so a first-match scan always hits.
func (t Table) Validate() error {
	for _, c := range Categories {
		tiers := t[c]
		if len(tiers) == 0 {
			return fmt.Errorf("mood table: category %q has no tiers", c)
		}
		for i := 1; i < len(tiers); i++ {
			if tiers[i].Threshold < tiers[i-1].Threshold {
				return fmt.Errorf("mood table: category %q thresholds not ascending at index %d", c, i)
			}
		}
	}
	if last := t[Battery][len(t[Battery])-1]; last.Threshold <= 100 {
		return errors.New("mood table: battery list must end with a threshold above 100")
	}
	return nil
}
