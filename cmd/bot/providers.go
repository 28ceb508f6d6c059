package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/cmd/bot/config"
	"github.com/Jacobbrewer1/den/pkg/dataaccess"
	"github.com/Jacobbrewer1/den/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/den/pkg/logging"
	"github.com/Jacobbrewer1/den/pkg/platform"
	"github.com/Jacobbrewer1/den/pkg/provision"
	"github.com/Jacobbrewer1/den/pkg/registry"
	"github.com/Jacobbrewer1/den/pkg/tickets"
	"github.com/Jacobbrewer1/den/pkg/voice"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"
)

func provideLogger(cfg *config.Config) (*slog.Logger, error) {
	lc := logging.NewConfig(logging.Name(config.AppName))
	if err := lc.SetLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("error setting log level: %w", err)
	}
	return logging.CommonLogger(lc)
}

func provideSession(cfg *config.Config) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildMessages |
		discordgo.IntentGuildVoiceStates |
		discordgo.IntentMessageContent
	return dg, nil
}

// provideMongo connects to the audit log database. No URI configured returns a nil client.
func provideMongo(l *slog.Logger, cfg *config.Config) (*mongo.Client, func(), error) {
	if cfg.MongoUri == "" {
		l.Info("No MongoDB URI provided, the audit log is disabled", slog.String("key", config.EnvMongoUri))
		return nil, func() {}, nil
	}

	mongoConn := new(connection.MongoDB)
	mongoConn.ConnectionString = cfg.MongoUri

	db, err := mongoConn.Connect(context.Background())
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting to mongo: %w", err)
	}

	l.Debug("Connected to MongoDB", slog.String("key", config.EnvMongoUri))
	return db, func() {
		if err := db.Disconnect(context.Background()); err != nil {
			l.Error("Error disconnecting from mongo", slog.String(logging.KeyError, err.Error()))
		}
	}, nil
}

func provideLimiter(cfg *config.Config) *rate.Limiter {
	if cfg.Provision.Interval <= 0 {
		return rate.NewLimiter(rate.Inf, cfg.Provision.Burst)
	}
	return rate.NewLimiter(rate.Every(cfg.Provision.Interval), cfg.Provision.Burst)
}

func provideVoiceManager(l *slog.Logger, client platform.Client, reg registry.Registry, cfg *config.Config) *voice.Manager {
	return voice.NewManager(l, client, reg, cfg.Voice.RecoveryConcurrency)
}

func provideScheduler() tickets.Scheduler {
	return tickets.TimerScheduler{}
}

func provideOrchestrator(l *slog.Logger, client platform.Client, reg registry.Registry, vm *voice.Manager, db *mongo.Client, limiter *rate.Limiter) *provision.Orchestrator {
	return provision.New(l, client, reg, vm, dataaccess.NewSetupRunDal(l, db), limiter)
}

func provideTickets(l *slog.Logger, client platform.Client, reg registry.Registry, db *mongo.Client, scheduler tickets.Scheduler) *tickets.Service {
	return tickets.NewService(l, client, reg, dataaccess.NewTicketEventDal(l, db), scheduler)
}
