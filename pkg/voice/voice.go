// Package voice keeps one muted and deafened voice connection per guild.
package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/pkg/logging"
	"github.com/Jacobbrewer1/den/pkg/monitoring"
	"github.com/Jacobbrewer1/den/pkg/platform"
	"github.com/Jacobbrewer1/den/pkg/registry"
	"github.com/Jacobbrewer1/den/pkg/topology"
	"golang.org/x/sync/errgroup"
)

// ErrNoVoiceChannel is returned when no voice channel could be selected for the guild.
var ErrNoVoiceChannel = errors.New("no voice channel to connect to")

const defaultConcurrency = 4

// Manager is the Voice Presence Reconnection Manager.
type Manager struct {
	l        *slog.Logger
	client   platform.Client
	registry registry.Registry

	concurrency int

	// locks serialise the check-then-join per guild so that a guild never gets two connections.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a new voice manager. Concurrency bounds how many guilds recover at the same time.
func NewManager(l *slog.Logger, client platform.Client, reg registry.Registry, concurrency int) *Manager {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Manager{
		l:           l.With(slog.String(logging.KeyComponent, "voice")),
		client:      client,
		registry:    reg,
		concurrency: concurrency,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (m *Manager) lock(guildID string) func() {
	m.mu.Lock()
	l, ok := m.locks[guildID]
	if !ok {
		l = new(sync.Mutex)
		m.locks[guildID] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Connect returns the guild's existing voice connection, or joins the channel muted and deafened.
func (m *Manager) Connect(ctx context.Context, guildID, channelID string) (*discordgo.VoiceConnection, error) {
	defer m.lock(guildID)()

	if vc, ok := m.client.VoiceConnection(guildID); ok {
		monitoring.VoiceConnects.WithLabelValues("existing").Inc()
		return vc, nil
	}

	vc, err := m.client.JoinVoice(ctx, guildID, channelID, true, true)
	if err != nil {
		monitoring.VoiceConnects.WithLabelValues("error").Inc()
		m.l.Error("Failed to join voice channel",
			slog.String(logging.KeyGuildID, guildID),
			slog.String(logging.KeyChannelID, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
		return nil, fmt.Errorf("error connecting to voice in guild %s: %w", guildID, err)
	}

	monitoring.VoiceConnects.WithLabelValues("joined").Inc()
	m.l.Info("Joined voice channel",
		slog.String(logging.KeyGuildID, guildID),
		slog.String(logging.KeyChannelID, channelID),
	)
	return vc, nil
}

// Disconnect leaves the guild's voice connection. A connection that is already gone is not an error.
func (m *Manager) Disconnect(ctx context.Context, guildID string) {
	defer m.lock(guildID)()

	if _, ok := m.client.VoiceConnection(guildID); !ok {
		return
	}

	if err := m.client.LeaveVoice(ctx, guildID); err != nil {
		m.l.Debug("Failed to leave voice channel",
			slog.String(logging.KeyGuildID, guildID),
			slog.String(logging.KeyError, err.Error()),
		)
	}
}

// SelectChannel picks the voice channel to occupy: the registered voice channel if it still exists,
// otherwise the first voice channel whose name contains the voice marker.
func (m *Manager) SelectChannel(ctx context.Context, guildID string) (*discordgo.Channel, error) {
	channels, err := m.client.GuildChannels(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error listing channels: %w", err)
	}

	if t, ok := m.registry.Get(guildID); ok && t.VoiceChannelID != "" {
		for _, c := range channels {
			if c.ID == t.VoiceChannelID && c.Type == discordgo.ChannelTypeGuildVoice {
				return c, nil
			}
		}
		m.l.Warn("Registered voice channel no longer exists, falling back to discovery",
			slog.String(logging.KeyGuildID, guildID),
			slog.String(logging.KeyChannelID, t.VoiceChannelID),
		)
	}

	if c := topology.FindVoiceByMarker(channels); c != nil {
		return c, nil
	}
	return nil, ErrNoVoiceChannel
}

// Reconnect selects the guild's voice channel and connects to it.
func (m *Manager) Reconnect(ctx context.Context, guildID string) (*discordgo.VoiceConnection, error) {
	if vc, ok := m.client.VoiceConnection(guildID); ok {
		return vc, nil
	}

	c, err := m.SelectChannel(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return m.Connect(ctx, guildID, c.ID)
}

// RecoverAll reconnects every guild independently. One guild's failure is logged and does not stop the others.
func (m *Manager) RecoverAll(ctx context.Context, guildIDs []string) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for _, id := range guildIDs {
		guildID := id
		g.Go(func() error {
			l := m.l.With(slog.String(logging.KeyGuildID, guildID))

			_, err := m.Reconnect(ctx, guildID)
			switch {
			case errors.Is(err, ErrNoVoiceChannel):
				l.Debug("No voice channel found, skipping voice recovery")
			case err != nil:
				l.Error("Error recovering voice connection", slog.String(logging.KeyError, err.Error()))
			}

			// Failures are isolated per guild.
			return nil
		})
	}

	_ = g.Wait()
}
