package service

import (
	"time"

	"github.com/unclebandit/crm-backend/internal/logger"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/queue"
)

// EventsTopic is the default topic customer events are published on.
const EventsTopic = "customer_events"

// eventPublisher is embedded by services that emit CustomerEvents. A nil Queue
// disables publishing.
type eventPublisher struct {
	Queue queue.Queue
	Topic string
	now   func() time.Time
}

func (p *eventPublisher) publish(eventType string, customerID, addressID int64) {
	if p.Queue == nil {
		return
	}
	topic := p.Topic
	if topic == "" {
		topic = EventsTopic
	}
	now := time.Now
	if p.now != nil {
		now = p.now
	}

	evt := model.CustomerEvent{
		Type:       eventType,
		CustomerID: customerID,
		AddressID:  addressID,
		OccurredAt: now().UTC(),
	}
	if err := p.Queue.Publish(topic, evt); err != nil {
		// the write already succeeded; losing the event must not fail the request
		logger.Warn("Failed to publish customer event", logger.Fields{
			"type":        eventType,
			"customer_id": customerID,
			"address_id":  addressID,
			"error":       err.Error(),
		})
	}
}
