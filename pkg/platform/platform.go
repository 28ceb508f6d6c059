// Package platform is the capability surface of the chat platform that the bot provisions and operates.
package platform

import (
	"context"

	"github.com/Jacobbrewer1/discordgo"
)

// Client is the set of platform operations the bot depends on.
type Client interface {
	// GuildChannels returns a snapshot of every channel in the guild.
	GuildChannels(ctx context.Context, guildID string) ([]*discordgo.Channel, error)

	// Channel returns the channel with the given ID.
	Channel(ctx context.Context, channelID string) (*discordgo.Channel, error)

	// CreateChannel creates a channel, category or voice channel in the guild.
	CreateChannel(ctx context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)

	// DeleteChannel deletes the channel with the given ID.
	DeleteChannel(ctx context.Context, channelID string) error

	// GuildRoles returns a snapshot of every role in the guild.
	GuildRoles(ctx context.Context, guildID string) ([]*discordgo.Role, error)

	// CreateRole creates a role in the guild.
	CreateRole(ctx context.Context, guildID string, params *discordgo.RoleParams) (*discordgo.Role, error)

	// DeleteRole deletes a role from the guild.
	DeleteRole(ctx context.Context, guildID, roleID string) error

	// SendMessage sends a message to a channel.
	SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)

	// DeleteMessage deletes a single message.
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	// ChannelMessages returns up to limit of the most recent messages in the channel.
	ChannelMessages(ctx context.Context, channelID string, limit int) ([]*discordgo.Message, error)

	// BulkDeleteMessages deletes the given messages from the channel in one call.
	BulkDeleteMessages(ctx context.Context, channelID string, messageIDs []string) error

	// MemberPermissions returns the computed permissions of the user in the channel.
	MemberPermissions(ctx context.Context, channelID, userID string) (int64, error)

	// Ban bans the user from the guild.
	Ban(ctx context.Context, guildID, userID, reason string) error

	// Kick removes the member from the guild.
	Kick(ctx context.Context, guildID, userID, reason string) error

	// Respond responds to an interaction.
	Respond(ctx context.Context, i *discordgo.Interaction, resp *discordgo.InteractionResponse) error

	// FollowUp sends a follow-up message to an interaction that has already been responded to.
	FollowUp(ctx context.Context, i *discordgo.Interaction, params *discordgo.WebhookParams) (*discordgo.Message, error)

	// VoiceConnection returns the voice connection the process holds in the guild, if any.
	VoiceConnection(guildID string) (*discordgo.VoiceConnection, bool)

	// JoinVoice opens a voice connection to the channel.
	JoinVoice(ctx context.Context, guildID, channelID string, mute, deaf bool) (*discordgo.VoiceConnection, error)

	// LeaveVoice closes the voice connection the process holds in the guild.
	LeaveVoice(ctx context.Context, guildID string) error
}
