package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/log"
)

// fintrack-worker drains the ledger-event queue and writes an audit log of
// every transaction change. Downstream processing hangs off the same handler.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	audit := logger.WithComponent(log.ComponentAMQP)
	logger.Info("Starting fintrack-worker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	err = client.ConsumeLedgerEvents(ctx, func(msg *amqp.LedgerEventMessage) error {
		audit.InfoContext(ctx, "Ledger event",
			"transaction_id", msg.TransactionID,
			"user_id", msg.UserID,
			"action", msg.Action,
			"occurred_at", msg.Timestamp)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
