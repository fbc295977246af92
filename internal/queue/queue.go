package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/unclebandit/crm-backend/internal/logger"
)

// Handler processes one payload. A returned error asks the transport to retry.
type Handler func(payload any) error

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler Handler) error
}

// InMemoryQueue delivers to in-process subscribers with bounded retries.
type InMemoryQueue struct {
	mu         sync.Mutex
	handlers   map[string][]Handler
	wg         sync.WaitGroup
	MaxRetries int
	Backoff    time.Duration
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]Handler),
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
	}
}

// Publish hands payload to every subscriber of topic on its own goroutine.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := append([]Handler(nil), q.handlers[topic]...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, h := range handlers {
		q.wg.Add(1)
		go q.process(topic, h, payload)
	}
	return nil
}

func (q *InMemoryQueue) process(topic string, h Handler, payload any) {
	defer q.wg.Done()

	for attempt := 0; ; attempt++ {
		err := h(payload)
		if err == nil {
			return
		}
		if attempt >= q.MaxRetries {
			logger.Error("Job permanently failed", err, logger.Fields{
				"topic":    topic,
				"attempts": attempt + 1,
			})
			return
		}
		logger.Warn("Job failed, retrying", logger.Fields{
			"topic":   topic,
			"attempt": attempt + 1,
			"error":   err.Error(),
		})
		time.Sleep(time.Duration(attempt+1) * q.Backoff)
	}
}

func (q *InMemoryQueue) Subscribe(topic string, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Wait blocks until every published job has finished, including retries.
func (q *InMemoryQueue) Wait() {
	q.wg.Wait()
}

var _ Queue = (*InMemoryQueue)(nil)
