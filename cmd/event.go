package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/interior-ledger/internal/broker"
	"github.com/frahmantamala/interior-ledger/internal/core/events"
	"github.com/frahmantamala/interior-ledger/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish ledger events by hand to check the audit log and broker wiring`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event to the broker when it is enabled, otherwise to a local event bus`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return publishTestEvent(ctx, args[0])
	},
}

var eventData string

func publishTestEvent(ctx context.Context, eventType string) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	testEvent := events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data: map[string]interface{}{
			"message": eventData,
			"source":  "cli-command",
		},
	}

	if cfg.Broker.Enabled {
		client, err := broker.NewClient(cfg.Broker.URL, cfg.Broker.Exchange, cfg.Broker.Queue, cfg.Broker.RoutingKey, lg)
		if err != nil {
			return fmt.Errorf("failed to connect broker: %w", err)
		}
		defer client.Close()

		if err := client.Publish(ctx, testEvent); err != nil {
			return err
		}
		lg.Info("test event sent to broker", "event_type", eventType, "event_id", testEvent.ID)
		return nil
	}

	bus := events.NewEventBus(lg)
	bus.Subscribe(events.AllEvents, events.AuditLog(lg))
	if err := bus.PublishSync(ctx, testEvent); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	lg.Info("test event published locally", "event_type", eventType, "event_id", testEvent.ID)
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(publishEventCmd)
	rootCmd.AddCommand(eventCmd)
}
