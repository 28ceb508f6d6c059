package dataaccess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/den/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/den/pkg/entities"
	"github.com/Jacobbrewer1/den/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
)

const ticketEventDalName = "ticket_event_dal"

// TicketEventDal records ticket state changes.
type TicketEventDal interface {
	// SaveTicketEvent saves the audit record of a ticket state change.
	SaveTicketEvent(ctx context.Context, event *entities.TicketEvent) error
}

type ticketEventDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewTicketEventDal creates a new ticket event data access layer. A nil client records nothing.
func NewTicketEventDal(l *slog.Logger, client *mongo.Client) TicketEventDal {
	if client == nil {
		return nopDal{}
	}

	return &ticketEventDal{
		l:      l.With(slog.String(logging.KeyDal, ticketEventDalName)),
		client: client,
	}
}

func (d *ticketEventDal) SaveTicketEvent(ctx context.Context, event *entities.TicketEvent) error {
	collection := d.client.Database(mongoDatabase).Collection(ticketEventsCollection)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(ticketEventDalName, "save_ticket_event", mongoDatabase, ticketEventsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketEventDalName, "save_ticket_event", mongoDatabase, ticketEventsCollection))
	defer t.ObserveDuration()

	if _, err := collection.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("error inserting ticket event: %w", err)
	}
	return nil
}
