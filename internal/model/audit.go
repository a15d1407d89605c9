package model

import "time"

// AuditEntry is an immutable record of one accepted update to an event.
// OldValues and NewValues hold the event's mutable fields immediately before
// and after the write. Entries are append-only and totally ordered per event
// by ChangedAt, with the serial ID breaking ties.
type AuditEntry struct {
	ID        int64     `json:"id"`
	EventID   string    `json:"event_id"`
	ChangedBy string    `json:"changed_by"`
	OldValues Snapshot  `json:"old_values"`
	NewValues Snapshot  `json:"new_values"`
	ChangedAt time.Time `json:"changed_at"`
}

// Changes recomputes the field-level diff this entry recorded.
func (a *AuditEntry) Changes() []Change {
	return Diff(a.OldValues, a.NewValues)
}

// Replay applies a sequence of audit entries, oldest first, to an initial
// snapshot and returns the resulting state. Only the fields each entry's
// diff reports as changed are applied, so a correct log reproduces the
// event's final mutable-field state exactly.
func Replay(initial Snapshot, entries []*AuditEntry) Snapshot {
	state := initial
	for _, entry := range entries {
		for _, c := range entry.Changes() {
			switch c.(type) {
			case *ParticipantsChanged:
				state.Participants = append([]string(nil), entry.NewValues.Participants...)
			case *ZoneChanged:
				state.TimeZone = entry.NewValues.TimeZone
			case *ScheduleChanged:
				state.StartUTC = entry.NewValues.StartUTC
				state.EndUTC = entry.NewValues.EndUTC
			}
		}
	}
	return state
}
