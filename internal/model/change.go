package model

import (
	"fmt"
	"strings"
	"time"
)

// Change is one field-level difference between two event snapshots. The
// concrete types below cover every mutable field, so rendering code can
// switch over them exhaustively.
type Change interface {
	// Field names the mutable field this change applies to.
	Field() string
	// Summary is a short human-readable description of the change.
	Summary() string
}

// ParticipantsChanged records a membership change as full before/after
// lists, not a per-id delta.
type ParticipantsChanged struct {
	Old []string
	New []string
}

func (c *ParticipantsChanged) Field() string { return "participants" }

func (c *ParticipantsChanged) Summary() string {
	return fmt.Sprintf("participants changed from [%s] to [%s]",
		strings.Join(c.Old, ", "), strings.Join(c.New, ", "))
}

// ZoneChanged records a re-label: the event's display zone changed while
// the stored instants stayed put.
type ZoneChanged struct {
	Old string
	New string
}

func (c *ZoneChanged) Field() string { return "event_time_zone" }

func (c *ZoneChanged) Summary() string {
	return fmt.Sprintf("time zone changed from %s to %s", c.Old, c.New)
}

// ScheduleChanged records a re-schedule: one or both canonical instants
// moved. Both bounds are always captured together.
type ScheduleChanged struct {
	OldStart, OldEnd time.Time
	NewStart, NewEnd time.Time
}

func (c *ScheduleChanged) Field() string { return "schedule" }

func (c *ScheduleChanged) Summary() string {
	return fmt.Sprintf("rescheduled from %s / %s to %s / %s",
		c.OldStart.Format(time.RFC3339), c.OldEnd.Format(time.RFC3339),
		c.NewStart.Format(time.RFC3339), c.NewEnd.Format(time.RFC3339))
}

// Diff computes the field-level differences between two snapshots.
// Participants are compared as sets: a reorder with identical membership is
// not a change. An empty result means the update was a no-op and must not
// produce an audit entry.
func Diff(old, new Snapshot) []Change {
	var changes []Change

	if !sameMembers(old.Participants, new.Participants) {
		changes = append(changes, &ParticipantsChanged{
			Old: append([]string(nil), old.Participants...),
			New: append([]string(nil), new.Participants...),
		})
	}

	if old.TimeZone != new.TimeZone {
		changes = append(changes, &ZoneChanged{Old: old.TimeZone, New: new.TimeZone})
	}

	if !old.StartUTC.Equal(new.StartUTC) || !old.EndUTC.Equal(new.EndUTC) {
		changes = append(changes, &ScheduleChanged{
			OldStart: old.StartUTC,
			OldEnd:   old.EndUTC,
			NewStart: new.StartUTC,
			NewEnd:   new.EndUTC,
		})
	}

	return changes
}

// sameMembers compares two id slices as sets, ignoring order and duplicates.
func sameMembers(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, id := range a {
		as[id] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, id := range b {
		bs[id] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for id := range as {
		if _, ok := bs[id]; !ok {
			return false
		}
	}
	return true
}
