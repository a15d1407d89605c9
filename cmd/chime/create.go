package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/chime/internal/client"
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[0]

		zone, _ := cmd.Flags().GetString("zone")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		participants, _ := cmd.Flags().GetStringSlice("participant")

		event, err := api.CreateEvent(context.Background(), &client.CreateEventRequest{
			Title:        title,
			Participants: participants,
			TimeZone:     zone,
			StartLocal:   start,
			EndLocal:     end,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(event)
			return nil
		}
		printEventTable(event)
		return nil
	},
}

func init() {
	createCmd.Flags().String("zone", "", "IANA time zone the event is scheduled in (required)")
	createCmd.Flags().String("start", "", "start wall-clock time, e.g. 2024-06-10T09:00 (required)")
	createCmd.Flags().String("end", "", "end wall-clock time (required)")
	createCmd.Flags().StringSlice("participant", nil, "participant user id (repeatable)")
	_ = createCmd.MarkFlagRequired("zone")
	_ = createCmd.MarkFlagRequired("start")
	_ = createCmd.MarkFlagRequired("end")
}
