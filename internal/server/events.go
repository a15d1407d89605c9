package server

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alfredjeanlab/chime/internal/events"
	"github.com/alfredjeanlab/chime/internal/idgen"
	"github.com/alfredjeanlab/chime/internal/model"
	"github.com/alfredjeanlab/chime/internal/store"
	"github.com/alfredjeanlab/chime/internal/tz"
)

// createEventInput holds transport-agnostic parameters for creating an event.
// StartLocal and EndLocal are wall-clock times in TimeZone.
type createEventInput struct {
	Title        string   `json:"title"`
	Participants []string `json:"participants"`
	TimeZone     string   `json:"event_time_zone"`
	StartLocal   string   `json:"start_local"`
	EndLocal     string   `json:"end_local"`
}

// createEvent validates input, normalizes the wall-clock bounds to UTC, and
// persists a new event. Creation does not write an audit entry; the audit
// log records updates only.
func (s *EventServer) createEvent(ctx context.Context, in createEventInput) (*model.Event, error) {
	if in.TimeZone == "" {
		return nil, inputError("event_time_zone is required")
	}
	if err := tz.Validate(in.TimeZone); err != nil {
		return nil, err
	}
	if in.StartLocal == "" {
		return nil, inputError("start_local is required")
	}
	if in.EndLocal == "" {
		return nil, inputError("end_local is required")
	}

	start, err := tz.ToUTC(in.StartLocal, in.TimeZone)
	if err != nil {
		return nil, err
	}
	end, err := tz.ToUTC(in.EndLocal, in.TimeZone)
	if err != nil {
		return nil, err
	}

	if err := s.resolveParticipants(ctx, s.store, in.Participants); err != nil {
		return nil, err
	}

	id, err := idgen.NewEventID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	event := &model.Event{
		ID:           id,
		Title:        in.Title,
		Participants: in.Participants,
		TimeZone:     in.TimeZone,
		StartUTC:     start,
		EndUTC:       end,
	}

	if err := model.ValidateEvent(event); err != nil {
		return nil, err
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.publish(ctx, events.TopicEventCreated, event.ID, events.EventCreated{Event: event})

	return event, nil
}

// updateEventInput holds transport-agnostic parameters for updating an event.
// Pointer fields indicate optionality: nil means "don't change". A TimeZone
// change alone re-labels the event and never moves the stored instants;
// StartLocal/EndLocal are wall-clock edits interpreted in the event's zone
// after any zone change in the same request is applied.
type updateEventInput struct {
	ActorID      string    `json:"actor_id"`
	Participants *[]string `json:"participants,omitempty"`
	TimeZone     *string   `json:"event_time_zone,omitempty"`
	StartLocal   *string   `json:"start_local,omitempty"`
	EndLocal     *string   `json:"end_local,omitempty"`
}

// updateEvent applies a partial update inside a single transaction: the
// event row is read with a lock, the actor is authorized against the
// participant set as it stood before the update, the edits are normalized
// and validated, and the event write plus its audit entry commit together.
// When the edits leave every mutable field unchanged, nothing is written
// and changed is false.
func (s *EventServer) updateEvent(ctx context.Context, id string, in updateEventInput) (event *model.Event, entry *model.AuditEntry, changed bool, err error) {
	if in.ActorID == "" {
		return nil, nil, false, inputError("actor_id is required")
	}

	err = s.store.RunInTransaction(ctx, func(tx store.Store) error {
		ev, err := tx.GetEventForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !model.CanModify(ev, in.ActorID) {
			return model.ErrForbidden
		}

		old := ev.Snapshot()

		if in.TimeZone != nil {
			if err := tz.Validate(*in.TimeZone); err != nil {
				return err
			}
			ev.TimeZone = *in.TimeZone
		}

		if in.Participants != nil {
			if err := s.resolveParticipants(ctx, tx, *in.Participants); err != nil {
				return err
			}
			ev.Participants = *in.Participants
		}

		if in.StartLocal != nil {
			start, err := tz.ToUTC(*in.StartLocal, ev.TimeZone)
			if err != nil {
				return err
			}
			ev.StartUTC = start
		}
		if in.EndLocal != nil {
			end, err := tz.ToUTC(*in.EndLocal, ev.TimeZone)
			if err != nil {
				return err
			}
			ev.EndUTC = end
		}

		if err := model.ValidateEvent(ev); err != nil {
			return err
		}

		changes := model.Diff(old, ev.Snapshot())
		if len(changes) == 0 {
			event = ev
			return nil
		}

		if err := tx.UpdateEvent(ctx, ev); err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}

		entry = &model.AuditEntry{
			EventID:   ev.ID,
			ChangedBy: in.ActorID,
			OldValues: old,
			NewValues: ev.Snapshot(),
		}
		if err := tx.AppendAuditEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}

		event = ev
		changed = true
		return nil
	})
	if err != nil {
		return nil, nil, false, err
	}

	if changed {
		fields := make([]string, 0, 3)
		for _, c := range entry.Changes() {
			fields = append(fields, c.Field())
		}
		s.publish(ctx, events.TopicEventUpdated, event.ID, events.EventUpdated{
			Event:         event,
			ChangedFields: fields,
			Entry:         entry,
		})
	}

	return event, entry, changed, nil
}

// resolveParticipants checks every id against the user directory and
// returns an UnknownParticipantError naming the ids that did not resolve.
func (s *EventServer) resolveParticipants(ctx context.Context, st store.Store, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	users, err := st.ResolveUsers(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to resolve participants: %w", err)
	}

	known := make(map[string]struct{}, len(users))
	for _, u := range users {
		known[u.ID] = struct{}{}
	}

	var missing []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &model.UnknownParticipantError{IDs: missing}
	}
	return nil
}

// historyEntry is one audit record rendered for a viewer. ChangedBy is the
// actor's display name, or null when the actor no longer resolves in the
// directory. Timestamp is the change time in the viewer's zone.
type historyEntry struct {
	ID            int64          `json:"id"`
	ChangedBy     *string        `json:"changed_by"`
	Summary       string         `json:"summary"`
	ChangedFields []string       `json:"changed_fields"`
	Timestamp     string         `json:"timestamp"`
	OldValues     model.Snapshot `json:"old_values"`
	NewValues     model.Snapshot `json:"new_values"`
}

// history returns the event's audit trail newest-first, rendered for a
// viewer in the given zone. The zone is validated before any store reads.
func (s *EventServer) history(ctx context.Context, eventID, viewerZone string) ([]historyEntry, error) {
	if viewerZone == "" {
		viewerZone = "UTC"
	}
	if err := tz.Validate(viewerZone); err != nil {
		return nil, err
	}

	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	entries, err := s.store.GetAuditEntries(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit entries: %w", err)
	}

	names, err := s.resolveActorNames(ctx, entries)
	if err != nil {
		return nil, err
	}

	out := make([]historyEntry, 0, len(entries))
	for _, entry := range entries {
		changes := entry.Changes()
		summaries := make([]string, 0, len(changes))
		fields := make([]string, 0, len(changes))
		for _, c := range changes {
			summaries = append(summaries, c.Summary())
			fields = append(fields, c.Field())
		}

		ts, err := tz.Display(entry.ChangedAt, viewerZone)
		if err != nil {
			return nil, err
		}

		he := historyEntry{
			ID:            entry.ID,
			Summary:       strings.Join(summaries, "; "),
			ChangedFields: fields,
			Timestamp:     ts,
			OldValues:     entry.OldValues,
			NewValues:     entry.NewValues,
		}
		if name, ok := names[entry.ChangedBy]; ok {
			he.ChangedBy = &name
		}
		out = append(out, he)
	}
	return out, nil
}

// resolveActorNames looks up the display names for every distinct actor in
// the entries. Actors that no longer resolve are absent from the result.
func (s *EventServer) resolveActorNames(ctx context.Context, entries []*model.AuditEntry) (map[string]string, error) {
	ids := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.ChangedBy]; ok {
			continue
		}
		seen[e.ChangedBy] = struct{}{}
		ids = append(ids, e.ChangedBy)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	users, err := s.store.ResolveUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actors: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}

// eventView is an event rendered for a response, with the wall-clock bounds
// in the event's own zone alongside the stored instants.
type eventView struct {
	*model.Event
	StartLocal string `json:"start_local"`
	EndLocal   string `json:"end_local"`
}

func newEventView(e *model.Event) eventView {
	v := eventView{Event: e}
	// The zone was validated when it was stored; a conversion failure here
	// would mean tzdb data changed underneath us, so fall back to UTC text.
	if local, err := tz.FromUTC(e.StartUTC, e.TimeZone); err == nil {
		v.StartLocal = local
	} else {
		v.StartLocal = e.StartUTC.Format(tz.Layout)
	}
	if local, err := tz.FromUTC(e.EndUTC, e.TimeZone); err == nil {
		v.EndLocal = local
	} else {
		v.EndLocal = e.EndUTC.Format(tz.Layout)
	}
	return v
}
