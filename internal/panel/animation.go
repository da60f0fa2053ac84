package panel

import "github.com/moorebrett0/moodmeter/internal/mood"

// animation is the emoji's motion state. A single frame tick advances it;
// nothing schedules itself.
type animation struct {
	kind   mood.Hint
	phase  int
	active bool
}

var (
	shakeOffsets  = []int{2, 4, 2, 0}
	bounceOffsets = []int{0, 1, 1, 0}
)

// set switches to hint h, restarting the phase when the kind changes.
func (a *animation) set(h mood.Hint) {
	if h == a.kind {
		return
	}
	a.kind = h
	a.phase = 0
	a.active = h == mood.HintShake || h == mood.HintBounce
}

func (a *animation) advance() {
	if a.active {
		a.phase++
	}
}

// shift returns the emoji's horizontal padding and the blank lines above it.
func (a animation) shift() (pad, lift int) {
	const restPad = 2
	if !a.active {
		return restPad, 1
	}
	switch a.kind {
	case mood.HintShake:
		return shakeOffsets[a.phase%len(shakeOffsets)], 1
	case mood.HintBounce:
		return restPad, bounceOffsets[a.phase%len(bounceOffsets)]
	}
	return restPad, 1
}
