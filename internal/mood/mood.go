package mood

import (
	"fmt"

	"github.com/moorebrett0/moodmeter/internal/monitor"
)

// Hint is a coarse animation intensity for the rendering surface.
type Hint string

const (
	HintNone   Hint = "none"
	HintBounce Hint = "bounce"
	HintShake  Hint = "shake"
)

// Result is the classification of one sample.
type Result struct {
	Category Category
	Value    float64 // highest non-battery reading, or the battery level on override
	Tier     Tier
	Hint     Hint
}

// Classifier selects a mood tier from a Table.
type Classifier struct {
	table Table
}

// NewClassifier validates table and returns a Classifier over it.
func NewClassifier(table Table) (*Classifier, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{table: table}, nil
}

var defaultClassifier = &Classifier{table: DefaultTable}

// Classify uses DefaultTable.
func Classify(s monitor.Sample) Result {
	return defaultClassifier.Classify(s)
}

// Classify picks the busiest non-battery category (ties go to cpu, ram, disk,
// network in that order) and the highest tier whose threshold the value
// reaches. A critical battery overrides that with the first battery tier at
// or above the battery level. The two scans differ on purpose.
func (c *Classifier) Classify(s monitor.Sample) Result {
	category, value := busiest(s)

	tiers := c.table[category]
	tier := tiers[0]
	for _, t := range tiers {
		if value >= t.Threshold {
			tier = t
		}
	}

	res := Result{Category: category, Value: value, Tier: tier}

	if s.Battery <= BatteryCritical {
		res.Category = Battery
		res.Value = s.Battery
		for _, t := range c.table[Battery] {
			if s.Battery <= t.Threshold {
				res.Tier = t
				break
			}
		}
	}

	res.Hint = hintFor(value, s.Battery)
	return res
}

// busiest returns the first category holding the maximum reading.
func busiest(s monitor.Sample) (Category, float64) {
	category, value := CPU, s.CPU
	for _, r := range []struct {
		c Category
		v float64
	}{{RAM, s.RAM}, {Disk, s.Disk}, {Network, s.Network}} {
		if r.v > value {
			category, value = r.c, r.v
		}
	}
	return category, value
}

func hintFor(maxNonBattery, battery float64) Hint {
	switch {
	case maxNonBattery > 90 || battery <= BatteryCritical:
		return HintShake
	case maxNonBattery > 70:
		return HintBounce
	default:
		return HintNone
	}
}

// Tiers returns the tier list for a category.
func (c *Classifier) Tiers(cat Category) []Tier {
	return c.table[cat]
}

// String renders a result the way the panel headline reads.
func (r Result) String() string {
	return fmt.Sprintf("%s %s", r.Tier.Emoji, r.Tier.Message)
}
