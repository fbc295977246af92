package service

import (
	"encoding/json"
	"fmt"

	"github.com/unclebandit/crm-backend/internal/logger"
	"github.com/unclebandit/crm-backend/internal/model"
)

// NotifyFunc receives every decoded customer event.
type NotifyFunc func(evt model.CustomerEvent) error

// EventWorker consumes customer events from a queue subscription.
type EventWorker struct {
	Notify NotifyFunc
}

// NewEventWorker returns a worker calling notify, or writing an audit log line
// when notify is nil.
func NewEventWorker(notify NotifyFunc) *EventWorker {
	if notify == nil {
		notify = AuditLog
	}
	return &EventWorker{Notify: notify}
}

// Handle is a queue.Handler. It accepts events published in process and JSON
// bodies delivered by RabbitMQ. Undecodable payloads are dropped, not retried.
func (w *EventWorker) Handle(payload any) error {
	var evt model.CustomerEvent
	switch p := payload.(type) {
	case model.CustomerEvent:
		evt = p
	case *model.CustomerEvent:
		if p == nil {
			return nil
		}
		evt = *p
	case []byte:
		if err := json.Unmarshal(p, &evt); err != nil {
			logger.Warn("Dropping malformed customer event", logger.Fields{"error": err.Error()})
			return nil
		}
	default:
		logger.Warn("Dropping customer event of unexpected type", logger.Fields{
			"type": fmt.Sprintf("%T", payload),
		})
		return nil
	}

	if evt.Type == "" {
		logger.Warn("Dropping customer event without type")
		return nil
	}
	return w.Notify(evt)
}

// AuditLog writes one structured line per event.
func AuditLog(evt model.CustomerEvent) error {
	fields := logger.Fields{
		"event":       evt.Type,
		"customer_id": evt.CustomerID,
		"occurred_at": evt.OccurredAt,
	}
	if evt.AddressID != 0 {
		fields["address_id"] = evt.AddressID
	}
	logger.Info("Customer event", fields)
	return nil
}
