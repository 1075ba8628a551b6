// cmd/server/main.go
package main

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/contacthub/crm-backend/internal/config"
	"github.com/contacthub/crm-backend/internal/db"
	"github.com/contacthub/crm-backend/internal/events"
	"github.com/contacthub/crm-backend/internal/handler"
	"github.com/contacthub/crm-backend/internal/queue"
	"github.com/contacthub/crm-backend/internal/repository"
	"github.com/contacthub/crm-backend/internal/service"
)

func main() {
	logger := newLogger("info")

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found, relying on OS environment variables")
	}

	cfg := config.Load()
	logger = newLogger(cfg.LogLevel)

	database, err := db.Open(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer database.Close()
	logger.Info().Msg("connected to database")

	customerRepo := &repository.CustomerRepository{DB: database}

	// Customer change events go to RabbitMQ when a broker is configured,
	// otherwise to the in-process queue with a logging consumer.
	var publisher events.Publisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("AMQP connection failed")
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		logger.Info().Msg("publishing customer events to AMQP")
	} else {
		inMemory := queue.NewInMemoryQueue(logger)
		queue.StartCustomerEventSubscriber(inMemory, logger)
		publisher = inMemory
	}

	customerService := service.NewCustomerService(customerRepo, publisher, logger)
	customerHandler := handler.NewCustomerHandler(customerService, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	// Customer routes
	r.Get("/customers", customerHandler.ListCustomers)
	r.Post("/customers", customerHandler.CreateCustomer)
	r.Patch("/customers", customerHandler.PatchCustomerByEmail)
	r.Get("/customers/{id}", customerHandler.GetCustomer)
	r.Put("/customers/{id}", customerHandler.ReplaceCustomer)
	r.Delete("/customers/{id}", customerHandler.DeleteCustomer)

	logger.Info().Str("port", cfg.Port).Msg("server running")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger().Level(lvl)
}
