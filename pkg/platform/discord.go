package platform

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
)

// maxBulkDelete is the most messages the platform deletes in one bulk call.
const maxBulkDelete = 100

// Discord is the Client backed by a discordgo session.
type Discord struct {
	s *discordgo.Session
}

// NewDiscord creates a new Client for the session.
func NewDiscord(s *discordgo.Session) *Discord {
	return &Discord{s: s}
}

func (d *Discord) GuildChannels(ctx context.Context, guildID string) ([]*discordgo.Channel, error) {
	channels, err := d.s.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error getting channels for guild %s: %w", guildID, err)
	}
	return channels, nil
}

func (d *Discord) Channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	channel, err := d.s.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error getting channel %s: %w", channelID, err)
	}
	return channel, nil
}

func (d *Discord) CreateChannel(ctx context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	channel, err := d.s.GuildChannelCreateComplex(guildID, data, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error creating channel %s: %w", data.Name, err)
	}
	return channel, nil
}

func (d *Discord) DeleteChannel(ctx context.Context, channelID string) error {
	if _, err := d.s.ChannelDelete(channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("error deleting channel %s: %w", channelID, err)
	}
	return nil
}

func (d *Discord) GuildRoles(ctx context.Context, guildID string) ([]*discordgo.Role, error) {
	roles, err := d.s.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error getting roles for guild %s: %w", guildID, err)
	}
	return roles, nil
}

func (d *Discord) CreateRole(ctx context.Context, guildID string, params *discordgo.RoleParams) (*discordgo.Role, error) {
	role, err := d.s.GuildRoleCreate(guildID, params, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error creating role %s: %w", params.Name, err)
	}
	return role, nil
}

func (d *Discord) DeleteRole(ctx context.Context, guildID, roleID string) error {
	if err := d.s.GuildRoleDelete(guildID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("error deleting role %s: %w", roleID, err)
	}
	return nil
}

func (d *Discord) SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	m, err := d.s.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error sending message to channel %s: %w", channelID, err)
	}
	return m, nil
}

func (d *Discord) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := d.s.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("error deleting message %s: %w", messageID, err)
	}
	return nil
}

func (d *Discord) ChannelMessages(ctx context.Context, channelID string, limit int) ([]*discordgo.Message, error) {
	msgs, err := d.s.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error getting messages for channel %s: %w", channelID, err)
	}
	return msgs, nil
}

func (d *Discord) BulkDeleteMessages(ctx context.Context, channelID string, messageIDs []string) error {
	if len(messageIDs) > maxBulkDelete {
		return fmt.Errorf("cannot bulk delete %d messages, the maximum is %d", len(messageIDs), maxBulkDelete)
	}
	if err := d.s.ChannelMessagesBulkDelete(channelID, messageIDs, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("error bulk deleting messages in channel %s: %w", channelID, err)
	}
	return nil
}

func (d *Discord) MemberPermissions(ctx context.Context, channelID, userID string) (int64, error) {
	perms, err := d.s.UserChannelPermissions(userID, channelID, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("error getting permissions for user %s: %w", userID, err)
	}
	return perms, nil
}

func (d *Discord) Ban(ctx context.Context, guildID, userID, reason string) error {
	if err := d.s.GuildBanCreateWithReason(guildID, userID, reason, 0, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("error banning user %s: %w", userID, err)
	}
	return nil
}

func (d *Discord) Kick(ctx context.Context, guildID, userID, reason string) error {
	if err := d.s.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("error kicking user %s: %w", userID, err)
	}
	return nil
}

func (d *Discord) Respond(ctx context.Context, i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	if err := d.s.InteractionRespond(i, resp, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

func (d *Discord) FollowUp(ctx context.Context, i *discordgo.Interaction, params *discordgo.WebhookParams) (*discordgo.Message, error) {
	m, err := d.s.FollowupMessageCreate(i, true, params, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error sending follow up: %w", err)
	}
	return m, nil
}

// VoiceConnection returns the guild's connection only when it is ready. A join that never completed
// leaves an unready connection in the session, which is not reported.
func (d *Discord) VoiceConnection(guildID string) (*discordgo.VoiceConnection, bool) {
	d.s.RLock()
	vc, ok := d.s.VoiceConnections[guildID]
	d.s.RUnlock()
	if !ok || vc == nil {
		return nil, false
	}

	vc.RLock()
	ready := vc.Ready
	vc.RUnlock()
	if !ready {
		return nil, false
	}
	return vc, true
}

// dropStale removes the guild's connection from the session if it is not ready.
func (d *Discord) dropStale(guildID string) {
	d.s.Lock()
	defer d.s.Unlock()

	vc, ok := d.s.VoiceConnections[guildID]
	if !ok {
		return
	}
	if vc != nil {
		vc.RLock()
		ready := vc.Ready
		vc.RUnlock()
		if ready {
			return
		}
	}
	delete(d.s.VoiceConnections, guildID)
}

// JoinVoice blocks until the connection is ready or the platform gives up. The context is only
// checked before joining as the session does not accept one for voice.
func (d *Discord) JoinVoice(ctx context.Context, guildID, channelID string, mute, deaf bool) (*discordgo.VoiceConnection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.s.RLock()
	open := d.s.DataReady
	d.s.RUnlock()
	if !open {
		return nil, fmt.Errorf("error joining voice channel %s: %w", channelID, ErrGatewayClosed)
	}

	vc, err := d.s.ChannelVoiceJoin(guildID, channelID, mute, deaf)
	if err != nil {
		// The session keeps the failed connection, which would otherwise be returned as live.
		d.dropStale(guildID)
		return nil, fmt.Errorf("error joining voice channel %s: %w", channelID, err)
	}
	return vc, nil
}

func (d *Discord) LeaveVoice(_ context.Context, guildID string) error {
	vc, ok := d.VoiceConnection(guildID)
	if !ok {
		d.dropStale(guildID)
		return nil
	}
	if err := vc.Disconnect(); err != nil {
		return fmt.Errorf("error leaving voice in guild %s: %w", guildID, err)
	}
	return nil
}
