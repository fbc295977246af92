// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/unclebandit/crm-backend/internal/config"
	"github.com/unclebandit/crm-backend/internal/controller"
	"github.com/unclebandit/crm-backend/internal/db"
	"github.com/unclebandit/crm-backend/internal/handler"
	"github.com/unclebandit/crm-backend/internal/logger"
	"github.com/unclebandit/crm-backend/internal/queue"
	"github.com/unclebandit/crm-backend/internal/repository"
	"github.com/unclebandit/crm-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := cfg.Log.Level
	if cfg.Server.Environment == "development" && logLevel == "info" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{Level: logLevel, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		} else {
			logger.Info("Database connection closed")
		}
	}()

	if err := db.EnsureSchema(ctx, conn); err != nil {
		logger.Fatal("Failed to create schema", err)
	}

	q, closeQueue := setupEvents(cfg)
	defer closeQueue()

	customerRepo := repository.NewCustomerRepository(conn)
	addressRepo := repository.NewAddressRepository(conn)

	customerService := service.NewCustomerService(customerRepo, q, cfg.Events.Queue)
	addressService := service.NewAddressService(addressRepo, customerRepo, q, cfg.Events.Queue)

	r := handler.NewRouter(
		controller.NewCustomerController(customerService),
		controller.NewAddressController(addressService),
		conn,
		cfg,
	)

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: r.Setup(),
	}

	go func() {
		logger.Info("Server running", logger.Fields{
			"address":    srv.Addr,
			"api_prefix": cfg.Server.APIPrefix,
			"pid":        os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", err)
	}
	logger.Info("Server stopped")
}

// setupEvents publishes to RabbitMQ when AMQP_URL is set. Otherwise events stay
// in process and go straight to the audit-log worker.
func setupEvents(cfg *config.Config) (queue.Queue, func()) {
	if cfg.Events.AMQPURL != "" {
		aq, err := queue.DialAMQP(cfg.Events.AMQPURL)
		if err == nil {
			logger.Info("Publishing customer events to RabbitMQ", logger.Fields{"queue": cfg.Events.Queue})
			return aq, func() {
				if err := aq.Close(); err != nil {
					logger.Error("Failed to close RabbitMQ connection", err)
				}
			}
		}
		logger.Warn("RabbitMQ unavailable, falling back to in-process events", logger.Fields{"error": err.Error()})
	}

	mq := queue.NewInMemoryQueue()
	worker := service.NewEventWorker(nil)
	if err := mq.Subscribe(cfg.Events.Queue, worker.Handle); err != nil {
		logger.Error("Failed to subscribe event worker", err)
	}
	return mq, mq.Wait
}
