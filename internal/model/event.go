package model

import "time"

// Event is the canonical schedulable unit. Start and end are stored as UTC
// instants; TimeZone is the IANA zone used to author and display the event's
// own wall-clock times. Changing TimeZone alone re-labels the event without
// touching the stored instants.
type Event struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Participants []string  `json:"participants"`
	TimeZone     string    `json:"event_time_zone"`
	StartUTC     time.Time `json:"start_utc"`
	EndUTC       time.Time `json:"end_utc"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Snapshot captures the mutable fields of an event as they stood at one
// moment. Audit entries store a before and after Snapshot per update.
type Snapshot struct {
	Participants []string  `json:"participants"`
	TimeZone     string    `json:"event_time_zone"`
	StartUTC     time.Time `json:"start_utc"`
	EndUTC       time.Time `json:"end_utc"`
}

// Snapshot returns a copy of the event's mutable fields. The participant
// slice is cloned so later edits to the event do not alias the snapshot.
func (e *Event) Snapshot() Snapshot {
	participants := make([]string, len(e.Participants))
	copy(participants, e.Participants)
	return Snapshot{
		Participants: participants,
		TimeZone:     e.TimeZone,
		StartUTC:     e.StartUTC,
		EndUTC:       e.EndUTC,
	}
}

// CanModify reports whether the actor may mutate the event: the actor must
// be in the event's current participant set, i.e. the set before the update
// is applied. Removing oneself is therefore the last action a participant
// can take on an event.
func CanModify(e *Event, actorID string) bool {
	for _, p := range e.Participants {
		if p == actorID {
			return true
		}
	}
	return false
}
