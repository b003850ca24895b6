package domain

import "time"

// TimerKind names what an armed timer will do when it fires.
type TimerKind string

const (
	TimerNone     TimerKind = ""
	TimerSettle   TimerKind = "settle"
	TimerCue      TimerKind = "cue"
	TimerDeadline TimerKind = "deadline"
	TimerNeutral  TimerKind = "neutral"
)

// TimerSlot holds at most one pending timer per session.
// Arming replaces whatever was pending, so a stale timer can never fire after a transition.
type TimerSlot struct {
	Kind     TimerKind
	Deadline time.Time
}

// Arm schedules kind to fire at now+d, cancelling any pending timer.
func (t *TimerSlot) Arm(kind TimerKind, now time.Time, d time.Duration) {
	t.Kind = kind
	t.Deadline = now.Add(d)
}

// Cancel clears the slot. Cancelling an empty slot is a no-op.
func (t *TimerSlot) Cancel() {
	t.Kind = TimerNone
	t.Deadline = time.Time{}
}

// Armed reports whether a timer is pending.
func (t *TimerSlot) Armed() bool {
	return t.Kind != TimerNone
}

// Pending reports whether a timer of the given kind is pending.
func (t *TimerSlot) Pending(kind TimerKind) bool {
	return t.Kind == kind && kind != TimerNone
}

// Due reports whether the pending timer has reached its deadline at now.
func (t *TimerSlot) Due(now time.Time) bool {
	return t.Armed() && !now.Before(t.Deadline)
}

// Take returns the kind of a due timer and clears the slot, or TimerNone if nothing is due.
func (t *TimerSlot) Take(now time.Time) TimerKind {
	if !t.Due(now) {
		return TimerNone
	}
	kind := t.Kind
	t.Cancel()
	return kind
}

// Remaining is the time left before the pending timer fires; zero if none.
func (t *TimerSlot) Remaining(now time.Time) time.Duration {
	if !t.Armed() {
		return 0
	}
	if d := t.Deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}
