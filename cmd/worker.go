package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/interior-ledger/internal/broker"
	"github.com/frahmantamala/interior-ledger/internal/core/events"
	"github.com/frahmantamala/interior-ledger/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that consume ledger events from the message broker.`,
}

var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start ledger event consumer",
	Long:  `Consume ledger events from the broker queue and replay them on a local event bus`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startEventWorker()
	},
}

func startEventWorker() error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Broker.Enabled {
		return errors.New("broker is disabled; set broker.enabled to run the event worker")
	}

	lg := logger.LoggerWrapper()

	client, err := broker.NewClient(cfg.Broker.URL, cfg.Broker.Exchange, cfg.Broker.Queue, cfg.Broker.RoutingKey, lg)
	if err != nil {
		return fmt.Errorf("failed to connect broker: %w", err)
	}
	defer client.Close()

	// No forwarder here, replayed events must not go back to the exchange.
	bus := events.NewEventBus(lg)
	bus.Subscribe(events.AllEvents, events.AuditLog(lg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg.Info("event worker is running. Press Ctrl+C to stop.", "queue", cfg.Broker.Queue)

	err = client.Consume(ctx, broker.Dispatcher(bus))
	bus.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("event worker stopped: %w", err)
	}

	lg.Info("event worker stopped")
	return nil
}

func init() {
	workerCmd.AddCommand(eventWorkerCmd)
	rootCmd.AddCommand(workerCmd)
}
