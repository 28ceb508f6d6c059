// Package provision wipes a guild and rebuilds the fixed support server topology.
package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/pkg/dataaccess"
	"github.com/Jacobbrewer1/den/pkg/entities"
	"github.com/Jacobbrewer1/den/pkg/logging"
	"github.com/Jacobbrewer1/den/pkg/messages"
	"github.com/Jacobbrewer1/den/pkg/monitoring"
	"github.com/Jacobbrewer1/den/pkg/platform"
	"github.com/Jacobbrewer1/den/pkg/registry"
	"github.com/Jacobbrewer1/den/pkg/tickets"
	"github.com/Jacobbrewer1/den/pkg/topology"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Phases of a setup run.
const (
	PhaseWipe     = "wipe"
	PhaseRoles    = "roles"
	PhaseChannels = "channels"
	PhaseContent  = "content"
	PhaseVoice    = "voice"
	PhaseReport   = "report"
)

// Item kinds recorded on failures.
const (
	KindChannel  = "channel"
	KindCategory = "category"
	KindRole     = "role"
	KindMessage  = "message"
	KindVoice    = "voice"
)

var (
	// ErrSnapshot is returned when the current channels or roles of the guild could not be listed.
	ErrSnapshot = errors.New("error taking guild snapshot")

	// ErrIncompleteTopology is returned when the run could not create the ticket category or the bot voice channel.
	ErrIncompleteTopology = errors.New("topology is incomplete")
)

// VoiceConnector is the part of the voice manager that setup drives.
type VoiceConnector interface {
	Connect(ctx context.Context, guildID, channelID string) (*discordgo.VoiceConnection, error)
	Disconnect(ctx context.Context, guildID string)
}

// Result is the outcome of a setup run.
type Result struct {
	// RunID correlates the logs and the audit record of the run.
	RunID string

	// Topology is the committed topology. It is nil when the run failed.
	Topology *entities.GuildTopology

	// Failures are the tolerated per-item failures of the run.
	Failures []entities.ItemFailure
}

// Orchestrator is the Guild Provisioning Orchestrator.
type Orchestrator struct {
	l        *slog.Logger
	client   platform.Client
	registry registry.Registry
	voice    VoiceConnector
	audit    dataaccess.SetupRunDal

	// limiter paces the platform calls of the wipe and build loops. Nil does not pace.
	limiter *rate.Limiter

	now func() time.Time
}

// New creates a new orchestrator.
func New(l *slog.Logger, client platform.Client, reg registry.Registry, vc VoiceConnector, audit dataaccess.SetupRunDal, limiter *rate.Limiter) *Orchestrator {
	return &Orchestrator{
		l:        l.With(slog.String(logging.KeyComponent, "provision")),
		client:   client,
		registry: reg,
		voice:    vc,
		audit:    audit,
		limiter:  limiter,
		now:      time.Now,
	}
}

// run holds the state of one setup run.
type run struct {
	*Orchestrator

	l       *slog.Logger
	runID   string
	guildID string
	sink    StatusSink

	roles      map[string]string
	categories map[string]string
	channels   map[string]string
	failures   []entities.ItemFailure
}

// Run wipes the guild and builds the fixed topology. The caller must have checked that the requester is an
// administrator. Per-item failures are tolerated and returned on the result; the returned error is set only when
// the run aborted, in which case nothing is committed to the registry.
func (o *Orchestrator) Run(ctx context.Context, guildID, requesterID string, sink StatusSink) (*Result, error) {
	if sink == nil {
		sink = NopSink{}
	}

	runID := uuid.NewString()
	started := o.now()

	r := &run{
		Orchestrator: o,
		l: o.l.With(
			slog.String(logging.KeyRunID, runID),
			slog.String(logging.KeyGuildID, guildID),
		),
		runID:      runID,
		guildID:    guildID,
		sink:       sink,
		roles:      make(map[string]string),
		categories: make(map[string]string),
		channels:   make(map[string]string),
	}

	r.l.Info("Starting setup", slog.String(logging.KeyUserID, requesterID))

	topo, err := r.execute(ctx)
	res := &Result{
		RunID:    runID,
		Topology: topo,
		Failures: r.failures,
	}

	outcome := entities.SetupOutcomeCompleted
	if err != nil {
		outcome = entities.SetupOutcomeFailed
		r.l.Error("Setup failed",
			slog.String(logging.KeyError, err.Error()),
			slog.Int("failures", len(r.failures)),
		)
		sink.Failed(ctx, messages.SetupFailed)
	} else {
		r.l.Info("Setup completed", slog.Int("failures", len(r.failures)))
		r.report(ctx)
	}

	finished := o.now()
	monitoring.SetupRuns.WithLabelValues(string(outcome)).Inc()
	monitoring.SetupDuration.Observe(finished.Sub(started).Seconds())

	record := &entities.SetupRun{
		RunID:       runID,
		GuildID:     guildID,
		RequestedBy: requesterID,
		Outcome:     outcome,
		Failures:    r.failures,
		StartedAt:   started.UTC(),
		FinishedAt:  finished.UTC(),
	}
	if err != nil {
		record.Error = err.Error()
	}
	if o.audit != nil {
		// The run context may be gone by now, the audit record should still be written.
		auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if auditErr := o.audit.SaveSetupRun(auditCtx, record); auditErr != nil {
			r.l.Warn("Error saving setup run", slog.String(logging.KeyError, auditErr.Error()))
		}
		cancel()
	}

	return res, err
}

func (r *run) execute(ctx context.Context) (*entities.GuildTopology, error) {
	if err := r.wipe(ctx); err != nil {
		return nil, err
	}
	if err := r.createRoles(ctx); err != nil {
		return nil, err
	}
	if err := r.createChannels(ctx); err != nil {
		return nil, err
	}
	if err := r.postContent(ctx); err != nil {
		return nil, err
	}

	topo := &entities.GuildTopology{
		GuildID:          r.guildID,
		RunID:            r.runID,
		VoiceChannelID:   r.channels[topology.ChannelBotVoice],
		TicketCategoryID: r.categories[topology.CategoryTickets],
		Roles:            r.roles,
		Categories:       r.categories,
		Channels:         r.channels,
		ProvisionedAt:    r.now().UTC(),
	}
	if topo.TicketCategoryID == "" || topo.VoiceChannelID == "" {
		return nil, fmt.Errorf("%w: ticket category %q, voice channel %q", ErrIncompleteTopology, topo.TicketCategoryID, topo.VoiceChannelID)
	}

	r.bootstrapVoice(ctx, topo.VoiceChannelID)

	r.registry.Replace(topo)
	return topo.Clone(), nil
}

// wait blocks until the limiter allows the next platform call.
func (r *run) wait(ctx context.Context) error {
	if r.limiter == nil {
		return ctx.Err()
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("error waiting for rate limiter: %w", err)
	}
	return nil
}

// fail records a tolerated item failure.
func (r *run) fail(phase, kind, ref string, err error) {
	r.l.Warn("Setup item failed",
		slog.String(logging.KeyPhase, phase),
		slog.String("kind", kind),
		slog.String("ref", ref),
		slog.String(logging.KeyError, err.Error()),
	)
	monitoring.ProvisionItemFailures.WithLabelValues(phase, kind).Inc()
	r.failures = append(r.failures, entities.ItemFailure{
		Phase: phase,
		Kind:  kind,
		Ref:   ref,
		Error: err.Error(),
	})
}

// wipe deletes every channel and every role the process can manage from a snapshot of the guild.
func (r *run) wipe(ctx context.Context) error {
	// A connection to a channel that is about to be deleted would short circuit the voice bootstrap.
	r.voice.Disconnect(ctx, r.guildID)

	r.sink.Status(ctx, messages.StatusDeletingChannels)
	channels, err := r.client.GuildChannels(ctx, r.guildID)
	if err != nil {
		return fmt.Errorf("%w: channels: %w", ErrSnapshot, err)
	}

	// Children first so that no channel is briefly orphaned at the top level.
	ordered := make([]*discordgo.Channel, 0, len(channels))
	var categories []*discordgo.Channel
	for _, c := range channels {
		if c.Type == discordgo.ChannelTypeGuildCategory {
			categories = append(categories, c)
			continue
		}
		ordered = append(ordered, c)
	}
	ordered = append(ordered, categories...)

	for _, c := range ordered {
		if err := r.wait(ctx); err != nil {
			return err
		}
		if err := r.client.DeleteChannel(ctx, c.ID); err != nil {
			r.fail(PhaseWipe, KindChannel, c.ID, err)
		}
	}

	r.sink.Status(ctx, messages.StatusDeletingRoles)
	roles, err := r.client.GuildRoles(ctx, r.guildID)
	if err != nil {
		return fmt.Errorf("%w: roles: %w", ErrSnapshot, err)
	}

	for _, role := range roles {
		// @everyone shares the guild ID.
		if role.Managed || role.ID == r.guildID {
			continue
		}
		if err := r.wait(ctx); err != nil {
			return err
		}
		if err := r.client.DeleteRole(ctx, r.guildID, role.ID); err != nil {
			r.fail(PhaseWipe, KindRole, role.ID, err)
		}
	}
	return nil
}

func (r *run) createRoles(ctx context.Context) error {
	r.sink.Status(ctx, messages.StatusCreatingRoles)

	for _, spec := range topology.Roles {
		if err := r.wait(ctx); err != nil {
			return err
		}
		role, err := r.client.CreateRole(ctx, r.guildID, spec.Params())
		if err != nil {
			r.fail(PhaseRoles, KindRole, spec.Key, err)
			continue
		}
		r.roles[spec.Key] = role.ID
	}
	return nil
}

func (r *run) createChannels(ctx context.Context) error {
	r.sink.Status(ctx, messages.StatusCreatingChannels)

	for _, spec := range topology.Categories {
		overwrites, missing := spec.Overwrites(r.guildID, r.roles)
		if len(missing) > 0 {
			// Still hidden from @everyone, only the missing roles lose access.
			r.l.Warn("Private category is missing staff roles",
				slog.String("category", spec.Key),
				slog.Any("roles", missing),
			)
		}

		if err := r.wait(ctx); err != nil {
			return err
		}
		c, err := r.client.CreateChannel(ctx, r.guildID, discordgo.GuildChannelCreateData{
			Name:                 spec.Name,
			Type:                 spec.Type,
			PermissionOverwrites: overwrites,
		})
		if err != nil {
			r.fail(PhaseChannels, KindCategory, spec.Key, err)
			continue
		}
		r.categories[spec.Key] = c.ID
	}

	for _, spec := range topology.Channels {
		parentID, ok := r.categories[spec.Parent]
		if !ok {
			r.l.Warn("Parent category missing, creating channel at the top level",
				slog.String("channel", spec.Key),
				slog.String("category", spec.Parent),
			)
		}

		if err := r.wait(ctx); err != nil {
			return err
		}
		c, err := r.client.CreateChannel(ctx, r.guildID, discordgo.GuildChannelCreateData{
			Name:     spec.Name,
			Type:     spec.Type,
			ParentID: parentID,
		})
		if err != nil {
			r.fail(PhaseChannels, KindChannel, spec.Key, err)
			continue
		}
		r.channels[spec.Key] = c.ID
	}
	return nil
}

func (r *run) postContent(ctx context.Context) error {
	r.sink.Status(ctx, messages.StatusPostingContent)

	posts := []struct {
		channel string
		msg     *discordgo.MessageSend
	}{
		{channel: topology.ChannelRules, msg: topology.RulesMessage()},
		{channel: topology.ChannelTicketCreate, msg: tickets.MenuMessage()},
	}

	for _, p := range posts {
		channelID, ok := r.channels[p.channel]
		if !ok {
			r.fail(PhaseContent, KindMessage, p.channel, platform.ErrNotFound)
			continue
		}
		if err := r.wait(ctx); err != nil {
			return err
		}
		if _, err := r.client.SendMessage(ctx, channelID, p.msg); err != nil {
			r.fail(PhaseContent, KindMessage, p.channel, err)
		}
	}
	return nil
}

// bootstrapVoice connects to the new voice channel. A failure does not fail the run, the startup recovery picks
// the guild up again.
func (r *run) bootstrapVoice(ctx context.Context, channelID string) {
	if _, err := r.voice.Connect(ctx, r.guildID, channelID); err != nil {
		r.fail(PhaseVoice, KindVoice, channelID, err)
	}
}

func (r *run) failedIn(phase string) bool {
	for _, f := range r.failures {
		if f.Phase == phase {
			return true
		}
	}
	return false
}

// report posts the completion notice in the new general chat, or through the sink when that fails.
func (r *run) report(ctx context.Context) {
	embed := CompletionEmbed(!r.failedIn(PhaseVoice))

	if channelID, ok := r.channels[topology.ChannelGeneralChat]; ok {
		_, err := r.client.SendMessage(ctx, channelID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{embed},
		})
		if err == nil {
			return
		}
		r.l.Warn("Error sending completion notice",
			slog.String(logging.KeyPhase, PhaseReport),
			slog.String(logging.KeyChannelID, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	r.sink.Completed(ctx, embed)
}
