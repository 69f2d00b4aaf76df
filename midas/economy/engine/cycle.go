package engine

import (
	"time"

	"github.com/midasbot/midas/midas/economy/catalog"
)

// earlyRecessionChance is the per-tick probability that an expansion
// collapses straight into recession.
const earlyRecessionChance = 0.05

// CycleState pairs a cycle phase with its macro modifiers.
type CycleState struct {
	Phase     catalog.Phase
	Modifiers catalog.PhaseModifiers
}

// PhaseAt returns the scheduled phase for a cycle anchored at start.
// The cycle ring divides evenly over the cycle duration and repeats.
func (e *Engine) PhaseAt(start, now time.Time) catalog.Phase {
	days := int(now.Sub(start).Hours() / 24)
	if days < 0 {
		days = 0
	}

	ring := catalog.PhaseRing()
	phaseDuration := float64(catalog.CycleDurationDays) / float64(len(ring))
	idx := int(float64(days)/phaseDuration) % len(ring)
	return ring[idx]
}

// AdvanceCycle computes the cycle state for now. One shock roll is
// always consumed; when it passes during expansion the phase drops to
// recession for this tick. The anchor is never reset by a shock, so
// the scheduled phase resumes on the next evaluation.
func (e *Engine) AdvanceCycle(start, now time.Time, r Rand) CycleState {
	phase := e.PhaseAt(start, now)

	shock := r.Float64() < earlyRecessionChance
	if shock && phase == catalog.PhaseExpansion {
		phase = catalog.PhaseRecession
	}

	return CycleState{Phase: phase, Modifiers: e.cat.Modifiers(phase)}
}
