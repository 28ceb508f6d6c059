package main

import (
	"context"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/den/pkg/logging"
)

func guildJoinedHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		a.Log().Info("Joined guild",
			slog.String(logging.KeyGuildID, g.ID),
			slog.String("name", g.Name),
		)

		// Increment the total number of guilds.
		monitoring.TotalDiscordGuilds.Inc()
	}
}

func guildLeaveHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		// Decrement the total number of guilds.
		monitoring.TotalDiscordGuilds.Dec()

		if g.Unavailable {
			a.Log().Warn("Guild became unavailable", slog.String(logging.KeyGuildID, g.ID))
			return
		}

		a.Log().Info("Left guild", slog.String(logging.KeyGuildID, g.ID))
		a.Registry().Remove(g.ID)

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		a.Voice().Disconnect(ctx, g.ID)
	}
}
