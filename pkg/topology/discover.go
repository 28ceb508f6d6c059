package topology

import (
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/pkg/entities"
)

// Discover rebuilds a best-effort topology from the live channels and roles of the guild by matching the fixed names.
// It reports whether both the ticket category and the voice channel were found.
func Discover(guildID string, channels []*discordgo.Channel, roles []*discordgo.Role) (*entities.GuildTopology, bool) {
	t := &entities.GuildTopology{
		GuildID:    guildID,
		Roles:      make(map[string]string),
		Categories: make(map[string]string),
		Channels:   make(map[string]string),
	}

	rolesByName := make(map[string]string, len(roles))
	for _, r := range roles {
		if _, ok := rolesByName[r.Name]; !ok {
			rolesByName[r.Name] = r.ID
		}
	}
	for _, spec := range Roles {
		if id, ok := rolesByName[spec.Name]; ok {
			t.Roles[spec.Key] = id
		}
	}

	for _, spec := range Categories {
		if c := findChannel(channels, spec.Name, spec.Type, ""); c != nil {
			t.Categories[spec.Key] = c.ID
		}
	}

	for _, spec := range Channels {
		if c := findChannel(channels, spec.Name, spec.Type, t.Categories[spec.Parent]); c != nil {
			t.Channels[spec.Key] = c.ID
		}
	}

	t.TicketCategoryID = t.Categories[CategoryTickets]
	t.VoiceChannelID = t.Channels[ChannelBotVoice]
	if t.VoiceChannelID == "" {
		if c := FindVoiceByMarker(channels); c != nil {
			t.VoiceChannelID = c.ID
		}
	}

	return t, t.TicketCategoryID != "" && t.VoiceChannelID != ""
}

// FindVoiceByMarker returns the first voice channel whose name contains VoiceMarker.
//
// Any voice channel named with the marker matches, including ones setup did not create.
func FindVoiceByMarker(channels []*discordgo.Channel) *discordgo.Channel {
	for _, c := range channels {
		if c.Type == discordgo.ChannelTypeGuildVoice && strings.Contains(c.Name, VoiceMarker) {
			return c
		}
	}
	return nil
}

// findChannel prefers a channel under the parent and falls back to any channel with the name and type.
func findChannel(channels []*discordgo.Channel, name string, typ discordgo.ChannelType, parentID string) *discordgo.Channel {
	var fallback *discordgo.Channel
	for _, c := range channels {
		if c.Name != name || c.Type != typ {
			continue
		}
		if parentID == "" || c.ParentID == parentID {
			return c
		}
		if fallback == nil {
			fallback = c
		}
	}
	return fallback
}
