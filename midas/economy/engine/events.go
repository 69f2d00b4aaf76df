package engine

import (
	"time"
)

// ActiveEvent is a macro event window running on one tenant.
type ActiveEvent struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Expired reports whether the event window has closed at now.
func (a ActiveEvent) Expired(now time.Time) bool {
	return now.After(a.EndTime)
}

// EventEffects aggregates the macro modifiers of all active events.
type EventEffects struct {
	GDPModifier          float64
	UnemploymentModifier float64
}

// RollEvent walks the catalog's events in declaration order and
// returns the first whose probability roll passes. At most one event
// triggers per roll; each candidate consumes one draw until a hit.
func (e *Engine) RollEvent(now time.Time, r Rand) (ActiveEvent, bool) {
	for _, ev := range e.cat.Events() {
		if r.Float64() < ev.Probability {
			return ActiveEvent{
				Name:      ev.Name,
				StartTime: now,
				EndTime:   now.Add(time.Duration(ev.DurationDays) * 24 * time.Hour),
			}, true
		}
	}
	return ActiveEvent{}, false
}

// PruneEvents drops expired events, preserving order.
func (e *Engine) PruneEvents(events []ActiveEvent, now time.Time) []ActiveEvent {
	kept := events[:0:0]
	for _, ae := range events {
		if !ae.Expired(now) {
			kept = append(kept, ae)
		}
	}
	return kept
}

// EventEffects multiplies the impact modifiers of every event still
// active at now. No active events yields neutral modifiers.
func (e *Engine) EventEffects(events []ActiveEvent, now time.Time) EventEffects {
	eff := EventEffects{GDPModifier: 1.0, UnemploymentModifier: 1.0}
	for _, ae := range events {
		if ae.Expired(now) {
			continue
		}
		ev, ok := e.cat.Event(ae.Name)
		if !ok {
			continue
		}
		eff.GDPModifier *= 1.0 + ev.GDPImpact
		eff.UnemploymentModifier *= 1.0 + ev.UnemploymentImpact
	}
	return eff
}
