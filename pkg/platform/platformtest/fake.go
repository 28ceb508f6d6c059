// Package platformtest provides an in-memory platform.Client for tests.
package platformtest

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/pkg/platform"
)

// Op names recorded by the fake.
const (
	OpGuildChannels      = "GuildChannels"
	OpChannel            = "Channel"
	OpCreateChannel      = "CreateChannel"
	OpDeleteChannel      = "DeleteChannel"
	OpGuildRoles         = "GuildRoles"
	OpCreateRole         = "CreateRole"
	OpDeleteRole         = "DeleteRole"
	OpSendMessage        = "SendMessage"
	OpDeleteMessage      = "DeleteMessage"
	OpChannelMessages    = "ChannelMessages"
	OpBulkDeleteMessages = "BulkDeleteMessages"
	OpMemberPermissions  = "MemberPermissions"
	OpBan                = "Ban"
	OpKick               = "Kick"
	OpRespond            = "Respond"
	OpFollowUp           = "FollowUp"
	OpJoinVoice          = "JoinVoice"
	OpLeaveVoice         = "LeaveVoice"
)

// Call is a recorded call to the fake.
type Call struct {
	Op   string
	Args []string
}

// Response is a recorded interaction response.
type Response struct {
	Interaction *discordgo.Interaction
	Response    *discordgo.InteractionResponse
}

// FollowUp is a recorded interaction follow-up.
type FollowUp struct {
	Interaction *discordgo.Interaction
	Params      *discordgo.WebhookParams
}

// Fake is an in-memory platform. It is safe for concurrent use.
type Fake struct {
	mu sync.Mutex

	nextID int

	guilds   map[string]bool
	channels map[string]*discordgo.Channel
	roles    map[string]map[string]*discordgo.Role
	messages map[string][]*discordgo.Message
	voice    map[string]*discordgo.VoiceConnection
	perms    map[string]int64

	calls     []Call
	responses []Response
	followUps []FollowUp
	bulk      map[string][][]string
	bans      map[string]string
	kicks     map[string]string

	// Errors maps an op to a function deciding whether the call with the given first argument fails.
	errors map[string]func(arg string) error
}

var _ platform.Client = (*Fake)(nil)

// New creates an empty fake.
func New() *Fake {
	return &Fake{
		nextID:   1000,
		guilds:   make(map[string]bool),
		channels: make(map[string]*discordgo.Channel),
		roles:    make(map[string]map[string]*discordgo.Role),
		messages: make(map[string][]*discordgo.Message),
		voice:    make(map[string]*discordgo.VoiceConnection),
		perms:    make(map[string]int64),
		bulk:     make(map[string][][]string),
		bans:     make(map[string]string),
		kicks:    make(map[string]string),
		errors:   make(map[string]func(arg string) error),
	}
}

func (f *Fake) id() string {
	f.nextID++
	return strconv.Itoa(f.nextID)
}

func (f *Fake) record(op string, args ...string) error {
	f.calls = append(f.calls, Call{Op: op, Args: args})
	if fn, ok := f.errors[op]; ok {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		return fn(arg)
	}
	return nil
}

// AddGuild adds a guild with its @everyone role.
func (f *Fake) AddGuild(guildID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.guilds[guildID] = true
	if f.roles[guildID] == nil {
		f.roles[guildID] = make(map[string]*discordgo.Role)
	}
	f.roles[guildID][guildID] = &discordgo.Role{ID: guildID, Name: "@everyone"}
}

// AddChannel adds a channel to the guild and returns it.
func (f *Fake) AddChannel(guildID, name string, typ discordgo.ChannelType, parentID string) *discordgo.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := &discordgo.Channel{
		ID:       f.id(),
		GuildID:  guildID,
		Name:     name,
		Type:     typ,
		ParentID: parentID,
	}
	f.channels[ch.ID] = ch
	return ch
}

// AddRole adds a role to the guild and returns it.
func (f *Fake) AddRole(guildID, name string, managed bool) *discordgo.Role {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.roles[guildID] == nil {
		f.roles[guildID] = make(map[string]*discordgo.Role)
	}
	r := &discordgo.Role{ID: f.id(), Name: name, Managed: managed}
	f.roles[guildID][r.ID] = r
	return r
}

// AddMessages adds n messages to the channel, most recent last.
func (f *Fake) AddMessages(channelID string, n int, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := 0; i < n; i++ {
		f.messages[channelID] = append(f.messages[channelID], &discordgo.Message{
			ID:        f.id(),
			ChannelID: channelID,
			Timestamp: at,
		})
	}
}

// SetPermissions sets the permissions returned for the user in any channel.
func (f *Fake) SetPermissions(userID string, perms int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.perms[userID] = perms
}

// FailOn makes every call to op fail with err when the first argument is one of args, or always if args is empty.
func (f *Fake) FailOn(op string, err error, args ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	match := make(map[string]bool, len(args))
	for _, a := range args {
		match[a] = true
	}
	f.errors[op] = func(arg string) error {
		if len(match) == 0 || match[arg] {
			return err
		}
		return nil
	}
}

// Calls returns the recorded calls to op.
func (f *Fake) Calls(op string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	var got []Call
	for _, c := range f.calls {
		if c.Op == op {
			got = append(got, c)
		}
	}
	return got
}

// Responses returns the recorded interaction responses.
func (f *Fake) Responses() []Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Response(nil), f.responses...)
}

// FollowUps returns the recorded interaction follow-ups.
func (f *Fake) FollowUps() []FollowUp {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FollowUp(nil), f.followUps...)
}

// BulkDeletes returns the message ID batches bulk deleted from the channel.
func (f *Fake) BulkDeletes(channelID string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.bulk[channelID]...)
}

// Bans returns the banned users of the guild keyed by user ID with the reason.
func (f *Fake) Bans() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyMap(f.bans)
}

// Kicks returns the kicked users keyed by user ID with the reason.
func (f *Fake) Kicks() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyMap(f.kicks)
}

// Messages returns the messages currently in the channel.
func (f *Fake) Messages(channelID string) []*discordgo.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.Message(nil), f.messages[channelID]...)
}

// Channels returns the live channels of the guild sorted by ID.
func (f *Fake) Channels(guildID string) []*discordgo.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.guildChannels(guildID)
}

// Roles returns the live roles of the guild sorted by ID.
func (f *Fake) Roles(guildID string) []*discordgo.Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.guildRoles(guildID)
}

func (f *Fake) guildChannels(guildID string) []*discordgo.Channel {
	var got []*discordgo.Channel
	for _, c := range f.channels {
		if c.GuildID == guildID {
			cp := *c
			got = append(got, &cp)
		}
	}
	sort.Slice(got, func(i, j int) bool { return less(got[i].ID, got[j].ID) })
	return got
}

func (f *Fake) guildRoles(guildID string) []*discordgo.Role {
	var got []*discordgo.Role
	for _, r := range f.roles[guildID] {
		cp := *r
		got = append(got, &cp)
	}
	sort.Slice(got, func(i, j int) bool { return less(got[i].ID, got[j].ID) })
	return got
}

func (f *Fake) GuildChannels(_ context.Context, guildID string) ([]*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpGuildChannels, guildID); err != nil {
		return nil, err
	}
	return f.guildChannels(guildID), nil
}

func (f *Fake) Channel(_ context.Context, channelID string) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpChannel, channelID); err != nil {
		return nil, err
	}
	c, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("channel %s: %w", channelID, platform.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (f *Fake) CreateChannel(_ context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpCreateChannel, data.Name, guildID, data.ParentID); err != nil {
		return nil, err
	}
	if data.ParentID != "" {
		if p, ok := f.channels[data.ParentID]; !ok || p.Type != discordgo.ChannelTypeGuildCategory {
			return nil, fmt.Errorf("parent %s: %w", data.ParentID, platform.ErrNotFound)
		}
	}

	ch := &discordgo.Channel{
		ID:                   f.id(),
		GuildID:              guildID,
		Name:                 data.Name,
		Type:                 data.Type,
		Topic:                data.Topic,
		ParentID:             data.ParentID,
		PermissionOverwrites: data.PermissionOverwrites,
	}
	f.channels[ch.ID] = ch
	cp := *ch
	return &cp, nil
}

func (f *Fake) DeleteChannel(_ context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpDeleteChannel, channelID); err != nil {
		return err
	}
	if _, ok := f.channels[channelID]; !ok {
		return fmt.Errorf("channel %s: %w", channelID, platform.ErrNotFound)
	}
	delete(f.channels, channelID)
	delete(f.messages, channelID)
	return nil
}

func (f *Fake) GuildRoles(_ context.Context, guildID string) ([]*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpGuildRoles, guildID); err != nil {
		return nil, err
	}
	return f.guildRoles(guildID), nil
}

func (f *Fake) CreateRole(_ context.Context, guildID string, params *discordgo.RoleParams) (*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpCreateRole, params.Name, guildID); err != nil {
		return nil, err
	}

	r := &discordgo.Role{ID: f.id(), Name: params.Name}
	if params.Color != nil {
		r.Color = *params.Color
	}
	if params.Hoist != nil {
		r.Hoist = *params.Hoist
	}
	if params.Permissions != nil {
		r.Permissions = *params.Permissions
	}
	if params.Mentionable != nil {
		r.Mentionable = *params.Mentionable
	}

	if f.roles[guildID] == nil {
		f.roles[guildID] = make(map[string]*discordgo.Role)
	}
	f.roles[guildID][r.ID] = r
	cp := *r
	return &cp, nil
}

func (f *Fake) DeleteRole(_ context.Context, guildID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpDeleteRole, roleID, guildID); err != nil {
		return err
	}
	if _, ok := f.roles[guildID][roleID]; !ok {
		return fmt.Errorf("role %s: %w", roleID, platform.ErrNotFound)
	}
	delete(f.roles[guildID], roleID)
	return nil
}

func (f *Fake) SendMessage(_ context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpSendMessage, channelID); err != nil {
		return nil, err
	}
	if _, ok := f.channels[channelID]; !ok {
		return nil, fmt.Errorf("channel %s: %w", channelID, platform.ErrNotFound)
	}

	m := &discordgo.Message{
		ID:         f.id(),
		ChannelID:  channelID,
		Content:    msg.Content,
		Embeds:     msg.Embeds,
		Components: msg.Components,
		Timestamp:  time.Now(),
	}
	f.messages[channelID] = append(f.messages[channelID], m)
	return m, nil
}

func (f *Fake) DeleteMessage(_ context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpDeleteMessage, channelID, messageID); err != nil {
		return err
	}
	msgs := f.messages[channelID]
	for i, m := range msgs {
		if m.ID == messageID {
			f.messages[channelID] = append(msgs[:i:i], msgs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("message %s: %w", messageID, platform.ErrNotFound)
}

func (f *Fake) ChannelMessages(_ context.Context, channelID string, limit int) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpChannelMessages, channelID, strconv.Itoa(limit)); err != nil {
		return nil, err
	}

	msgs := f.messages[channelID]
	var got []*discordgo.Message
	for i := len(msgs) - 1; i >= 0 && len(got) < limit; i-- {
		got = append(got, msgs[i])
	}
	return got, nil
}

func (f *Fake) BulkDeleteMessages(_ context.Context, channelID string, messageIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpBulkDeleteMessages, channelID, strconv.Itoa(len(messageIDs))); err != nil {
		return err
	}

	del := make(map[string]bool, len(messageIDs))
	for _, id := range messageIDs {
		del[id] = true
	}
	var kept []*discordgo.Message
	for _, m := range f.messages[channelID] {
		if !del[m.ID] {
			kept = append(kept, m)
		}
	}
	f.messages[channelID] = kept
	f.bulk[channelID] = append(f.bulk[channelID], append([]string(nil), messageIDs...))
	return nil
}

func (f *Fake) MemberPermissions(_ context.Context, channelID, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpMemberPermissions, channelID, userID); err != nil {
		return 0, err
	}
	return f.perms[userID], nil
}

func (f *Fake) Ban(_ context.Context, guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpBan, userID, guildID, reason); err != nil {
		return err
	}
	f.bans[userID] = reason
	return nil
}

func (f *Fake) Kick(_ context.Context, guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpKick, userID, guildID, reason); err != nil {
		return err
	}
	f.kicks[userID] = reason
	return nil
}

func (f *Fake) Respond(_ context.Context, i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpRespond, i.ID); err != nil {
		return err
	}
	f.responses = append(f.responses, Response{Interaction: i, Response: resp})
	return nil
}

func (f *Fake) FollowUp(_ context.Context, i *discordgo.Interaction, params *discordgo.WebhookParams) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpFollowUp, i.ID); err != nil {
		return nil, err
	}
	f.followUps = append(f.followUps, FollowUp{Interaction: i, Params: params})
	return &discordgo.Message{ID: f.id(), ChannelID: i.ChannelID, Content: params.Content}, nil
}

func (f *Fake) VoiceConnection(guildID string) (*discordgo.VoiceConnection, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	vc, ok := f.voice[guildID]
	return vc, ok
}

func (f *Fake) JoinVoice(_ context.Context, guildID, channelID string, mute, deaf bool) (*discordgo.VoiceConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpJoinVoice, channelID, guildID, strconv.FormatBool(mute), strconv.FormatBool(deaf)); err != nil {
		return nil, err
	}
	if c, ok := f.channels[channelID]; !ok || c.Type != discordgo.ChannelTypeGuildVoice {
		return nil, fmt.Errorf("voice channel %s: %w", channelID, platform.ErrNotFound)
	}

	vc := &discordgo.VoiceConnection{
		GuildID:   guildID,
		ChannelID: channelID,
	}
	f.voice[guildID] = vc
	return vc, nil
}

func (f *Fake) LeaveVoice(_ context.Context, guildID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(OpLeaveVoice, guildID); err != nil {
		return err
	}
	delete(f.voice, guildID)
	return nil
}

// less orders numeric IDs numerically and falls back to string order.
func less(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

func copyMap(m map[string]string) map[string]string {
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
