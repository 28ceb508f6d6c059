package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/cmd/bot/config"
	"github.com/Jacobbrewer1/den/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/den/pkg/logging"
	"github.com/Jacobbrewer1/den/pkg/platform"
	"github.com/Jacobbrewer1/den/pkg/provision"
	"github.com/Jacobbrewer1/den/pkg/registry"
	"github.com/Jacobbrewer1/den/pkg/request"
	"github.com/Jacobbrewer1/den/pkg/tickets"
	"github.com/Jacobbrewer1/den/pkg/voice"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for health check.
	PathHealth = "/health"

	// shutdownTimeout bounds the graceful shutdown.
	shutdownTimeout = 10 * time.Second
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the logger.
	Log() *slog.Logger

	// Config returns the configuration.
	Config() *config.Config

	// Platform returns the gateway client.
	Platform() platform.Client

	// Registry returns the guild registry.
	Registry() registry.Registry

	// Provisioner returns the setup orchestrator.
	Provisioner() Provisioner

	// Tickets returns the ticket service.
	Tickets() *tickets.Service

	// Voice returns the voice manager.
	Voice() *voice.Manager

	// Scheduler returns the scheduler for deferred actions.
	Scheduler() tickets.Scheduler

	// Stats returns the bot statistics.
	Stats() BotStats
}

// Provisioner runs a full setup of a guild.
type Provisioner interface {
	Run(ctx context.Context, guildID, requesterID string, sink provision.StatusSink) (*provision.Result, error)
}

type App struct {
	// is the logger.
	*slog.Logger

	// cfg is the configuration.
	cfg *config.Config

	// r is the router for the monitoring server.
	r *mux.Router

	// svr is the monitoring server.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// db is the audit log database. It is nil when no database is configured.
	db *mongo.Client

	client      platform.Client
	registry    registry.Registry
	provisioner *provision.Orchestrator
	tickets     *tickets.Service
	voice       *voice.Manager
	scheduler   tickets.Scheduler
	stats       *sessionStats

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any
}

// NewApp creates a new instance of App.
func NewApp(
	l *slog.Logger,
	cfg *config.Config,
	r *mux.Router,
	s *discordgo.Session,
	db *mongo.Client,
	client platform.Client,
	reg registry.Registry,
	provisioner *provision.Orchestrator,
	ticketService *tickets.Service,
	voiceManager *voice.Manager,
	scheduler tickets.Scheduler,
) *App {
	a := &App{
		Logger:      l,
		cfg:         cfg,
		r:           r,
		s:           s,
		db:          db,
		client:      client,
		registry:    reg,
		provisioner: provisioner,
		tickets:     ticketService,
		voice:       voiceManager,
		scheduler:   scheduler,
		stats:       newSessionStats(s),

		// Buffered to prevent blocking the gateway.
		eventNotifier: make(chan any, 100),
	}

	s.SetEventNotifier(a.eventNotifier)
	return a
}

func (a *App) Log() *slog.Logger { return a.Logger }

func (a *App) Config() *config.Config { return a.cfg }

func (a *App) Platform() platform.Client { return a.client }

func (a *App) Registry() registry.Registry { return a.registry }

func (a *App) Provisioner() Provisioner { return a.provisioner }

func (a *App) Tickets() *tickets.Service { return a.tickets }

func (a *App) Voice() *voice.Manager { return a.voice }

func (a *App) Scheduler() tickets.Scheduler { return a.scheduler }

func (a *App) Stats() BotStats { return a.stats }

// Session returns the discord session.
func (a *App) Session() *discordgo.Session { return a.s }

func (a *App) Run() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	a.registerDiscordHandlers()

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	sig := <-c
	a.Info("Received shutdown signal", slog.String("signal", sig.String()))
	return a.ShutdownHook()
}

func (a *App) ShutdownHook() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	for _, guildID := range a.stats.guildIDs() {
		a.voice.Disconnect(ctx, guildID)
	}

	var errs []error
	if a.svr != nil {
		if err := a.svr.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down monitoring server: %w", err))
		}
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing connection to Discord: %w", err))
	}
	return errors.Join(errs...)
}

func (a *App) registerDiscordHandlers() {
	a.s.AddHandler(readyHandler(a))

	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Text commands.
	a.s.AddHandler(messageCreateHandler(a, commands()))

	// Button interactions.
	a.s.AddHandler(interactionHandler(a, buttons()))
}

func (a *App) setupRoutes() {
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a.healthCheck(), authOptionNone, a)).Methods(http.MethodGet)

	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:              ":" + a.cfg.MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}
