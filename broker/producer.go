package broker

import (
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"taskhub/taskhub/config"
	"taskhub/taskhub/database"
	"taskhub/taskhub/models"
)

var (
	conn *nats.Conn
	log  *logrus.Logger
)

// InitProducer connects to NATS. The broker is optional: callers may keep
// running without it and events degrade to log-only.
func InitProducer(cfg config.Config, logger *logrus.Logger) error {
	log = logger

	nc, err := nats.Connect(cfg.NatsURL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return err
	}

	conn = nc
	log.WithField("url", cfg.NatsURL).Info("NATS producer initialized")
	return nil
}

// PublishEvent publishes an already-committed outbox event and marks the row
// dispatched on success. Failures are logged, never surfaced to the request
// that produced the event; the row stays undispatched for later redelivery.
func PublishEvent(db *database.Database, subject string, event *models.Event) {
	if conn == nil {
		return
	}

	payload, err := event.ToJSON()
	if err != nil {
		log.WithError(err).Warn("Failed to serialize event")
		return
	}

	if err := conn.Publish(subject, payload); err != nil {
		log.WithError(err).WithField("subject", subject).Warn("Failed to publish event")
		return
	}

	markDispatched(db, event)

	log.WithFields(logrus.Fields{
		"subject": subject,
		"event":   event.Event,
	}).Debug("Published event")
}

func markDispatched(db *database.Database, event *models.Event) {
	if db == nil || db.DB == nil {
		return
	}
	if err := db.DB.Model(event).Update("dispatched", true).Error; err != nil {
		log.WithError(err).WithField("event_id", event.ID).Warn("Failed to mark event dispatched")
	}
}

func CloseProducer() {
	if conn != nil {
		conn.Drain()
		conn = nil
	}
}
