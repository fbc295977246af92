package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/unclebandit/crm-backend/internal/config"
	"github.com/unclebandit/crm-backend/internal/logger"
	"github.com/unclebandit/crm-backend/internal/queue"
	"github.com/unclebandit/crm-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Initialize(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if cfg.Events.AMQPURL == "" {
		logger.Fatal("AMQP_URL is required for the worker", errors.New("missing AMQP_URL"))
	}

	q, err := queue.DialAMQP(cfg.Events.AMQPURL)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", err)
	}
	defer q.Close()

	worker := service.NewEventWorker(nil)
	if err := q.Subscribe(cfg.Events.Queue, worker.Handle); err != nil {
		logger.Fatal("Failed to register consumer", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Worker running, waiting for customer events...", logger.Fields{"queue": cfg.Events.Queue})

	select {
	case <-ctx.Done():
		logger.Info("Worker stopping")
	case amqpErr := <-q.NotifyClose():
		if amqpErr != nil {
			logger.Error("RabbitMQ connection closed", amqpErr)
			os.Exit(1)
		}
	}
}
