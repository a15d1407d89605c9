package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <event-id>",
	Short: "Show an event's audit trail, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		zone, _ := cmd.Flags().GetString("zone")

		entries, err := api.GetHistory(context.Background(), args[0], zone)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(entries)
			return nil
		}
		printHistoryTable(entries)
		return nil
	},
}

func init() {
	historyCmd.Flags().String("zone", "", "render timestamps in this IANA zone (default UTC)")
}
