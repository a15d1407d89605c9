package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/chime/internal/events"
	"github.com/alfredjeanlab/chime/internal/ui"
)

func watchNATSURL() string {
	if u := os.Getenv("CHIME_NATS_URL"); u != "" {
		return u
	}
	return activeRemoteNATSURL()
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream live event activity from NATS",
	// Skip the API client — watch talks to NATS directly.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL := watchNATSURL()
		if natsURL == "" {
			return fmt.Errorf("no NATS URL configured (set CHIME_NATS_URL or a remote with --nats)")
		}

		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		sub, err := events.NewNATSSubscriber(natsURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		topics := []string{
			events.TopicUserCreated,
			events.TopicEventCreated,
			events.TopicEventUpdated,
		}

		type tagged struct {
			topic string
			data  []byte
		}
		msgs := make(chan tagged, 64)

		for _, topic := range topics {
			ch, cancel, err := sub.Subscribe(topic)
			if err != nil {
				return err
			}
			defer cancel()

			go func(topic string, ch <-chan []byte) {
				for data := range ch {
					select {
					case msgs <- tagged{topic: topic, data: data}:
					case <-ctx.Done():
						return
					}
				}
			}(topic, ch)
		}

		fmt.Fprintf(os.Stderr, "watching %s (ctrl-c to stop)\n", natsURL)

		for {
			select {
			case <-ctx.Done():
				return nil
			case m := <-msgs:
				printWatchEvent(m.topic, m.data)
			}
		}
	},
}

func printWatchEvent(topic string, data []byte) {
	if jsonOutput {
		fmt.Printf("{\"topic\":%q,\"event\":%s}\n", topic, data)
		return
	}

	switch topic {
	case events.TopicUserCreated:
		var e events.UserCreated
		if err := json.Unmarshal(data, &e); err == nil && e.User != nil {
			fmt.Printf("%s  user %s registered (%s)\n",
				ui.RenderMuted(topic), ui.RenderID(e.User.ID), e.User.Name)
			return
		}
	case events.TopicEventCreated:
		var e events.EventCreated
		if err := json.Unmarshal(data, &e); err == nil && e.Event != nil {
			fmt.Printf("%s  event %s created: %s\n",
				ui.RenderMuted(topic), ui.RenderID(e.Event.ID), e.Event.Title)
			return
		}
	case events.TopicEventUpdated:
		var e events.EventUpdated
		if err := json.Unmarshal(data, &e); err == nil && e.Event != nil && e.Entry != nil {
			fmt.Printf("%s  event %s updated by %s: %v\n",
				ui.RenderMuted(topic), ui.RenderID(e.Event.ID), e.Entry.ChangedBy, e.ChangedFields)
			return
		}
	}
	fmt.Printf("%s  %s\n", ui.RenderMuted(topic), data)
}
