package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/barefootnomad/backend/internal/core/events"
	"github.com/barefootnomad/backend/internal/request"
	"github.com/barefootnomad/backend/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage events: publish test request events through the bus and the Kafka forwarder`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [created|status_updated]",
	Short:     "Publish a test request event",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"created", "status_updated"},
	Run: func(cmd *cobra.Command, args []string) {
		publishTestEvent(args[0])
	},
}

var eventRequestID int64

func publishTestEvent(kind string) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	initLogger(cfg)
	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)
	eventBus.SubscribeAll(events.RequestEventTypes, events.AuditLogger(lg))

	var forwarder *events.KafkaForwarder
	if cfg.Events.Kafka.Enabled {
		forwarder = events.NewKafkaForwarder(events.NewKafkaWriter(cfg.Events.Kafka.Brokers, cfg.Events.Kafka.Topic), 1, lg)
		eventBus.SubscribeAll(events.RequestEventTypes, forwarder.Handle)
	}

	var event events.Event
	switch kind {
	case "created":
		event = events.NewRequestCreatedEvent(eventRequestID, 0, 0)
	case "status_updated":
		event = events.NewRequestStatusUpdatedEvent(eventRequestID, 0, 0, request.StatusPending, request.StatusApproved)
	default:
		lg.Error("unknown event kind", "kind", kind)
		os.Exit(1)
	}

	lg.Info("publishing test event", "event_type", event.EventType(), "event_id", event.EventID())

	if err := eventBus.PublishSync(context.Background(), event); err != nil {
		lg.Error("failed to publish event", "error", err)
	}
	if forwarder != nil {
		if err := forwarder.Close(); err != nil {
			lg.Error("failed to close kafka writer", "error", err)
		}
	}
	lg.Info("test event published successfully")
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventRequestID, "request-id", 1, "Request id carried by the event")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
