package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/pkg/logging"
	"github.com/Jacobbrewer1/den/pkg/topology"
)

// recoveryTimeout bounds the startup discovery and voice recovery.
const recoveryTimeout = 2 * time.Minute

func readyHandler(a IApp) func(s *discordgo.Session, r *discordgo.Ready) {
	return func(s *discordgo.Session, r *discordgo.Ready) {
		a.Log().Info(fmt.Sprintf("Logged in as %s", r.User.Username))

		err := s.UpdateStatusComplex(discordgo.UpdateStatusData{
			Status: string(discordgo.StatusDoNotDisturb),
			Activities: []*discordgo.Activity{
				{
					Name: fmt.Sprintf("Building support servers | %ssetup", a.Config().Prefix),
					Type: discordgo.ActivityTypeGame,
				},
			},
		})
		if err != nil {
			a.Log().Warn("Error updating presence", slog.String(logging.KeyError, err.Error()))
		}

		guildIDs := make([]string, 0, len(r.Guilds))
		for _, g := range r.Guilds {
			guildIDs = append(guildIDs, g.ID)
		}

		ctx, cancel := context.WithTimeout(context.Background(), recoveryTimeout)
		defer cancel()
		recoverGuilds(ctx, a, guildIDs)
	}
}

// recoverGuilds rebuilds the registry from live state for guilds without an entry, then reconnects voice.
func recoverGuilds(ctx context.Context, a IApp, guildIDs []string) {
	for _, guildID := range guildIDs {
		discoverGuild(ctx, a, guildID)
	}
	a.Voice().RecoverAll(ctx, guildIDs)
}

func discoverGuild(ctx context.Context, a IApp, guildID string) {
	if _, ok := a.Registry().Get(guildID); ok {
		return
	}

	l := a.Log().With(slog.String(logging.KeyGuildID, guildID))

	channels, err := a.Platform().GuildChannels(ctx, guildID)
	if err != nil {
		l.Warn("Error listing channels for discovery", slog.String(logging.KeyError, err.Error()))
		return
	}
	roles, err := a.Platform().GuildRoles(ctx, guildID)
	if err != nil {
		l.Warn("Error listing roles for discovery", slog.String(logging.KeyError, err.Error()))
		return
	}

	topo, ok := topology.Discover(guildID, channels, roles)
	if !ok {
		l.Debug("Guild does not carry the support server topology")
		return
	}

	// A setup run may have committed while we were listing.
	if a.Registry().ReplaceIfAbsent(topo) {
		l.Info("Discovered support server topology",
			slog.Int("roles", len(topo.Roles)),
			slog.Int("channels", len(topo.Channels)),
		)
	}
}
