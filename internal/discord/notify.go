package discord

import (
	"time"

	"github.com/moorebrett0/moodmeter/internal/mood"
	"github.com/moorebrett0/moodmeter/internal/surface"
)

// action is what the bot should do for one update.
type action struct {
	presence bool // refresh status and activity
	alert    bool // post TemplateAlert plus the status embed
}

// notifier decides when an update is worth talking about. Presence follows
// every tier change; alerts fire when the hint turns to shake, at most once
// per cooldown.
type notifier struct {
	cooldown time.Duration

	lastTier  mood.Tier
	lastHint  mood.Hint
	have      bool
	lastAlert time.Time
}

func (n *notifier) decide(u surface.Update, now time.Time) action {
	var a action

	if !n.have || u.Result.Tier != n.lastTier {
		a.presence = true
	}

	escalated := u.Result.Hint == mood.HintShake && (!n.have || n.lastHint != mood.HintShake)
	if escalated && (n.lastAlert.IsZero() || now.Sub(n.lastAlert) >= n.cooldown) {
		a.alert = true
		n.lastAlert = now
	}

	n.lastTier, n.lastHint, n.have = u.Result.Tier, u.Result.Hint, true
	return a
}
