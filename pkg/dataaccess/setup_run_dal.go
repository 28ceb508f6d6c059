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

const setupRunDalName = "setup_run_dal"

// SetupRunDal records setup runs.
type SetupRunDal interface {
	// SaveSetupRun saves the audit record of a setup run.
	SaveSetupRun(ctx context.Context, run *entities.SetupRun) error
}

type setupRunDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewSetupRunDal creates a new setup run data access layer. A nil client records nothing.
func NewSetupRunDal(l *slog.Logger, client *mongo.Client) SetupRunDal {
	if client == nil {
		return nopDal{}
	}

	return &setupRunDal{
		l:      l.With(slog.String(logging.KeyDal, setupRunDalName)),
		client: client,
	}
}

func (d *setupRunDal) SaveSetupRun(ctx context.Context, run *entities.SetupRun) error {
	collection := d.client.Database(mongoDatabase).Collection(setupRunsCollection)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(setupRunDalName, "save_setup_run", mongoDatabase, setupRunsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(setupRunDalName, "save_setup_run", mongoDatabase, setupRunsCollection))
	defer t.ObserveDuration()

	if _, err := collection.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("error inserting setup run: %w", err)
	}

	d.l.Debug("Saved setup run",
		slog.String(logging.KeyRunID, run.RunID),
		slog.String(logging.KeyGuildID, run.GuildID),
	)
	return nil
}
