package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/chime/internal/client"
)

var updateCmd = &cobra.Command{
	Use:   "update <event-id>",
	Short: "Update an event (zone, schedule, participants)",
	Long: `Update an event. Only the flags you pass change anything.

Changing --zone alone re-labels the event: the scheduled instants stay
exactly where they are and only the wall-clock presentation moves. Passing
--start/--end re-schedules the event; the values are read in the event's
zone (the new one if --zone is given in the same call).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if actor == "" {
			fmt.Fprintln(os.Stderr, "Error: --actor (or CHIME_ACTOR) is required for updates")
			os.Exit(1)
		}

		req := &client.UpdateEventRequest{ActorID: actor}

		if cmd.Flags().Changed("zone") {
			zone, _ := cmd.Flags().GetString("zone")
			req.TimeZone = &zone
		}
		if cmd.Flags().Changed("start") {
			start, _ := cmd.Flags().GetString("start")
			req.StartLocal = &start
		}
		if cmd.Flags().Changed("end") {
			end, _ := cmd.Flags().GetString("end")
			req.EndLocal = &end
		}
		if cmd.Flags().Changed("participant") {
			participants, _ := cmd.Flags().GetStringSlice("participant")
			req.Participants = &participants
		}

		resp, err := api.UpdateEvent(context.Background(), args[0], req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp)
			return nil
		}
		if !resp.Updated {
			fmt.Println("no changes")
			return nil
		}
		printEventTable(resp.Event)
		return nil
	},
}

func init() {
	updateCmd.Flags().String("zone", "", "new IANA time zone (re-label, keeps instants)")
	updateCmd.Flags().String("start", "", "new start wall-clock time in the event's zone")
	updateCmd.Flags().String("end", "", "new end wall-clock time in the event's zone")
	updateCmd.Flags().StringSlice("participant", nil, "full replacement participant set (repeatable)")
}
