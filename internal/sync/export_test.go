package sync

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/chime/internal/model"
)

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func TestExportJSONL(t *testing.T) {
	ms := newMockStore()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2024, 6, 10, 13, 0, 0, 0, time.UTC)

	ms.users["usr-alice"] = &model.User{ID: "usr-alice", Name: "Alice", TimeZone: "America/New_York", CreatedAt: now}
	ms.events["ev-1"] = &model.Event{
		ID:           "ev-1",
		Title:        "kickoff",
		Participants: []string{"usr-alice"},
		TimeZone:     "America/New_York",
		StartUTC:     start,
		EndUTC:       start.Add(time.Hour),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	old := ms.events["ev-1"].Snapshot()
	updated := old
	updated.TimeZone = "America/Los_Angeles"
	ms.entries = append(ms.entries,
		&model.AuditEntry{ID: 1, EventID: "ev-1", ChangedBy: "usr-alice", OldValues: old, NewValues: updated, ChangedAt: now},
		&model.AuditEntry{ID: 2, EventID: "ev-1", ChangedBy: "usr-alice", OldValues: updated, NewValues: old, ChangedAt: now.Add(time.Minute)},
	)

	var buf bytes.Buffer
	if err := ExportJSONL(t.Context(), ms, &buf); err != nil {
		t.Fatal(err)
	}

	lines := nonEmptyLines(buf.String())
	// 1 header + 1 user + 1 event + 2 audit entries = 5
	if len(lines) != 5 {
		t.Fatalf("lines = %d, want 5", len(lines))
	}

	var hdr header
	if err := json.Unmarshal([]byte(lines[0]), &hdr); err != nil {
		t.Fatal(err)
	}
	if hdr.Type != "header" || hdr.UserCount != 1 || hdr.EventCount != 1 || hdr.AuditCount != 2 {
		t.Errorf("header = %+v", hdr)
	}

	types := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		var rec struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatal(err)
		}
		types = append(types, rec.Type)
	}
	want := []string{"user", "event", "audit", "audit"}
	for i, w := range want {
		if types[i] != w {
			t.Fatalf("types = %v, want %v", types, want)
		}
	}

	// Audit entries follow their event oldest first.
	var first struct {
		Data model.AuditEntry `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[3]), &first); err != nil {
		t.Fatal(err)
	}
	if first.Data.ID != 1 {
		t.Errorf("first audit entry id = %d, want 1", first.Data.ID)
	}
}

func TestExportJSONLEmptyStore(t *testing.T) {
	ms := newMockStore()

	var buf bytes.Buffer
	if err := ExportJSONL(t.Context(), ms, &buf); err != nil {
		t.Fatal(err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want header only", len(lines))
	}
}
