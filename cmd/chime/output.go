package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/chime/internal/client"
	"github.com/alfredjeanlab/chime/internal/model"
	"github.com/alfredjeanlab/chime/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printEventTable(e *client.Event) {
	fmt.Printf("ID:           %s\n", ui.RenderID(e.ID))
	fmt.Printf("Title:        %s\n", e.Title)
	fmt.Printf("Participants: %s\n", strings.Join(e.Participants, ", "))
	fmt.Printf("Time Zone:    %s\n", ui.RenderZone(e.TimeZone))
	fmt.Printf("Starts:       %s  (%s UTC)\n", e.StartLocal, ui.RenderMuted(e.StartUTC.Format("2006-01-02 15:04")))
	fmt.Printf("Ends:         %s  (%s UTC)\n", e.EndLocal, ui.RenderMuted(e.EndUTC.Format("2006-01-02 15:04")))
	fmt.Printf("Created At:   %s\n", ui.RenderMuted(e.CreatedAt.Format("2006-01-02 15:04:05")))
	fmt.Printf("Updated At:   %s\n", ui.RenderMuted(e.UpdatedAt.Format("2006-01-02 15:04:05")))
}

func printEventListTable(events []*client.Event) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTS\tZONE\tTITLE\tPARTICIPANTS")
	for _, e := range events {
		title := e.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.StartLocal,
			e.TimeZone,
			title,
			strings.Join(e.Participants, ","),
		)
	}
	w.Flush()
	fmt.Printf("\n%d events\n", len(events))
}

func printUserTable(u *model.User) {
	fmt.Printf("ID:         %s\n", ui.RenderID(u.ID))
	fmt.Printf("Name:       %s\n", u.Name)
	fmt.Printf("Time Zone:  %s\n", ui.RenderZone(u.TimeZone))
	fmt.Printf("Created At: %s\n", ui.RenderMuted(u.CreatedAt.Format("2006-01-02 15:04:05")))
}

func printUserListTable(users []*model.User) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME ZONE")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Name, u.TimeZone)
	}
	w.Flush()
	fmt.Printf("\n%d users\n", len(users))
}

func printHistoryTable(entries []*client.HistoryEntry) {
	for _, e := range entries {
		who := "(unknown)"
		if e.ChangedBy != nil {
			who = *e.ChangedBy
		}
		fmt.Printf("%s  %s\n", ui.RenderMuted(e.Timestamp), who)
		fmt.Printf("    %s\n", e.Summary)
	}
	fmt.Printf("\n%d changes\n", len(entries))
}
