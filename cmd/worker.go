package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/barefootnomad/backend/internal/core/events"
	"github.com/barefootnomad/backend/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that consume travel request events.`,
}

// Event audit worker command
var auditWorkerCmd = &cobra.Command{
	Use:   "audit",
	Short: "Consume request events from Kafka and write them to the audit log",
	Run: func(cmd *cobra.Command, args []string) {
		startAuditWorker()
	},
}

var consumerGroup string

func startAuditWorker() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	initLogger(cfg)
	lg := logger.LoggerWrapper()

	if !cfg.Events.Kafka.Enabled {
		lg.Error("kafka is disabled; set events.kafka.enabled to run the audit worker")
		os.Exit(1)
	}

	reader := events.NewKafkaReader(cfg.Events.Kafka.Brokers, consumerGroup, cfg.Events.Kafka.Topic)
	consumer := events.NewKafkaConsumer(reader, events.AuditLogger(lg.With("component", "audit")), lg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.Info("audit worker is running. Press Ctrl+C to stop.",
		"topic", cfg.Events.Kafka.Topic,
		"group", consumerGroup)

	if err := consumer.Run(ctx); err != nil {
		lg.Error("audit worker stopped", "error", err)
	}
	if err := consumer.Close(); err != nil {
		lg.Error("failed to close kafka reader", "error", err)
	}
	lg.Info("audit worker shutdown complete")
}

func init() {
	auditWorkerCmd.Flags().StringVar(&consumerGroup, "group", "barefoot-audit", "Kafka consumer group id")

	workerCmd.AddCommand(auditWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
