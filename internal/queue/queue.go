package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/contacthub/crm-backend/internal/service"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process queue with retry, used when no AMQP broker
// is configured.
type InMemoryQueue struct {
	mu       sync.Mutex
	log      zerolog.Logger
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(logger zerolog.Logger) *InMemoryQueue {
	return &InMemoryQueue{
		log:      logger,
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		q.log.Warn().Err(err).Int("attempt", job.RetryCount).Int("max", job.MaxRetries).Msg("job failed")

		if job.RetryCount > job.MaxRetries {
			q.log.Error().Int("attempts", job.MaxRetries).Interface("payload", job.Payload).Msg("job permanently failed")
			return // no requeue
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartCustomerEventSubscriber consumes customer change events and logs
// them. It stands in for an external consumer during local runs.
func StartCustomerEventSubscriber(q Queue, logger zerolog.Logger) {
	err := q.Subscribe(service.EventsTopic, func(payload any) error {
		evt, ok := payload.(service.CustomerEvent)
		if !ok {
			logger.Warn().Interface("payload", payload).Msg("unexpected event payload type")
			return nil // no retry
		}

		logger.Info().
			Str("event", evt.Event).
			Str("customer_id", evt.ID).
			Str("email", evt.Email).
			Msg("customer event")
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to start customer event subscriber")
	}
}
