package provision

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/pkg/entities"
	"github.com/Jacobbrewer1/den/pkg/logging"
	"github.com/Jacobbrewer1/den/pkg/messages"
	"github.com/Jacobbrewer1/den/pkg/platform/platformtest"
	"github.com/Jacobbrewer1/den/pkg/registry"
	"github.com/Jacobbrewer1/den/pkg/topology"
	"github.com/Jacobbrewer1/den/pkg/voice"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu        sync.Mutex
	statuses  []string
	completed []*discordgo.MessageEmbed
	failed    []string
}

func (s *recordingSink) Status(_ context.Context, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, content)
}

func (s *recordingSink) Completed(_ context.Context, embed *discordgo.MessageEmbed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, embed)
}

func (s *recordingSink) Failed(_ context.Context, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, content)
}

type recordingAudit struct {
	runs []*entities.SetupRun
}

func (r *recordingAudit) SaveSetupRun(_ context.Context, run *entities.SetupRun) error {
	r.runs = append(r.runs, run)
	return nil
}

type fixture struct {
	orch  *Orchestrator
	fake  *platformtest.Fake
	reg   registry.Registry
	audit *recordingAudit
	sink  *recordingSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	fake := platformtest.New()
	fake.AddGuild("g1")
	reg := registry.New()
	audit := &recordingAudit{}

	return &fixture{
		orch:  New(l, fake, reg, voice.NewManager(l, fake, reg, 1), audit, nil),
		fake:  fake,
		reg:   reg,
		audit: audit,
		sink:  &recordingSink{},
	}
}

func channelByID(channels []*discordgo.Channel, id string) *discordgo.Channel {
	for _, c := range channels {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func TestOrchestrator_RunBuildsTopology(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.orch.Run(context.Background(), "g1", "admin", fx.sink)
	require.NoError(t, err)
	require.Empty(t, res.Failures)
	require.NotEmpty(t, res.RunID)

	// @everyone plus the created roles.
	require.Len(t, fx.fake.Roles("g1"), len(topology.Roles)+1)

	channels := fx.fake.Channels("g1")
	require.Len(t, channels, len(topology.Categories)+len(topology.Channels))

	topo, ok := fx.reg.Get("g1")
	require.True(t, ok)
	require.Equal(t, res.RunID, topo.RunID)

	var inTickets []*discordgo.Channel
	for _, c := range channels {
		if c.ParentID == topo.TicketCategoryID {
			inTickets = append(inTickets, c)
		}
	}
	require.Len(t, inTickets, 1)
	require.Equal(t, topo.Channels[topology.ChannelTicketCreate], inTickets[0].ID)

	// Every committed ID is live.
	for key, id := range topo.Channels {
		require.NotNil(t, channelByID(channels, id), "channel %s", key)
	}
	for key, id := range topo.Categories {
		require.NotNil(t, channelByID(channels, id), "category %s", key)
	}
	roles := make(map[string]bool)
	for _, r := range fx.fake.Roles("g1") {
		roles[r.ID] = true
	}
	for key, id := range topo.Roles {
		require.True(t, roles[id], "role %s", key)
	}

	vc, ok := fx.fake.VoiceConnection("g1")
	require.True(t, ok)
	require.Equal(t, topo.VoiceChannelID, vc.ChannelID)

	require.Equal(t, []string{
		messages.StatusDeletingChannels,
		messages.StatusDeletingRoles,
		messages.StatusCreatingRoles,
		messages.StatusCreatingChannels,
		messages.StatusPostingContent,
	}, fx.sink.statuses)
	require.Empty(t, fx.sink.failed)

	// The completion notice lands in the general chat, not the sink.
	require.Empty(t, fx.sink.completed)
	general := fx.fake.Messages(topo.Channels[topology.ChannelGeneralChat])
	require.Len(t, general, 1)
	require.Equal(t, "Setup Completed", general[0].Embeds[0].Title)
	require.Equal(t, CompletionEmbed(true).Description, general[0].Embeds[0].Description)

	require.Len(t, fx.fake.Messages(topo.Channels[topology.ChannelRules]), 1)
	require.Len(t, fx.fake.Messages(topo.Channels[topology.ChannelTicketCreate]), 1)

	require.Len(t, fx.audit.runs, 1)
	require.Equal(t, entities.SetupOutcomeCompleted, fx.audit.runs[0].Outcome)
	require.Equal(t, "admin", fx.audit.runs[0].RequestedBy)
}

func TestOrchestrator_RunWipesExistingStructure(t *testing.T) {
	fx := newFixture(t)
	cat := fx.fake.AddChannel("g1", "Old", discordgo.ChannelTypeGuildCategory, "")
	old := fx.fake.AddChannel("g1", "old-chat", discordgo.ChannelTypeGuildText, cat.ID)
	oldVoice := fx.fake.AddChannel("g1", "Old Voice", discordgo.ChannelTypeGuildVoice, cat.ID)
	fx.fake.AddRole("g1", "Old Role", false)
	managed := fx.fake.AddRole("g1", "Integration", true)

	_, err := fx.orch.Run(context.Background(), "g1", "admin", fx.sink)
	require.NoError(t, err)

	channels := fx.fake.Channels("g1")
	for _, id := range []string{cat.ID, old.ID, oldVoice.ID} {
		require.Nil(t, channelByID(channels, id))
	}

	// Children are deleted before their category.
	deletes := fx.fake.Calls(platformtest.OpDeleteChannel)
	require.Len(t, deletes, 3)
	require.Equal(t, cat.ID, deletes[2].Args[0])

	names := make(map[string]bool)
	for _, r := range fx.fake.Roles("g1") {
		names[r.Name] = true
	}
	require.True(t, names["@everyone"])
	require.True(t, names[managed.Name])
	require.False(t, names["Old Role"])
	require.Len(t, fx.fake.Roles("g1"), len(topology.Roles)+2)
}

func TestOrchestrator_RunLeavesVoiceBeforeWipe(t *testing.T) {
	fx := newFixture(t)
	old := fx.fake.AddChannel("g1", "\U0001F50A Bot Voice", discordgo.ChannelTypeGuildVoice, "")
	_, err := fx.fake.JoinVoice(context.Background(), "g1", old.ID, true, true)
	require.NoError(t, err)

	_, err = fx.orch.Run(context.Background(), "g1", "admin", fx.sink)
	require.NoError(t, err)

	topo, ok := fx.reg.Get("g1")
	require.True(t, ok)
	vc, ok := fx.fake.VoiceConnection("g1")
	require.True(t, ok)
	require.Equal(t, topo.VoiceChannelID, vc.ChannelID)
	require.NotEqual(t, old.ID, vc.ChannelID)
	require.Len(t, fx.fake.Calls(platformtest.OpLeaveVoice), 1)
}

func TestOrchestrator_RunToleratesItemFailures(t *testing.T) {
	fx := newFixture(t)
	stuck := fx.fake.AddChannel("g1", "stuck", discordgo.ChannelTypeGuildText, "")
	protected := fx.fake.AddRole("g1", "Above Bot", false)

	fx.fake.FailOn(platformtest.OpDeleteChannel, errors.New("missing permissions"), stuck.ID)
	fx.fake.FailOn(platformtest.OpDeleteRole, errors.New("missing permissions"), protected.ID)
	fx.fake.FailOn(platformtest.OpCreateRole, errors.New("boom"), "\U0001F31F VIP")
	fx.fake.FailOn(platformtest.OpCreateChannel, errors.New("boom"), "\U0001F3B2-games")

	res, err := fx.orch.Run(context.Background(), "g1", "admin", fx.sink)
	require.NoError(t, err)
	require.Len(t, res.Failures, 4)

	byPhase := make(map[string]int)
	for _, f := range res.Failures {
		byPhase[f.Phase]++
	}
	require.Equal(t, map[string]int{PhaseWipe: 2, PhaseRoles: 1, PhaseChannels: 1}, byPhase)

	topo, ok := fx.reg.Get("g1")
	require.True(t, ok)
	_, ok = topo.Role(topology.RoleVIP)
	require.False(t, ok)
	_, ok = topo.Channel(topology.ChannelGames)
	require.False(t, ok)
	_, ok = topo.Channel(topology.ChannelOffTopic)
	require.True(t, ok)

	require.Len(t, fx.audit.runs, 1)
	require.Len(t, fx.audit.runs[0].Failures, 4)
}

func TestOrchestrator_RunMissingParentCreatesTopLevel(t *testing.T) {
	fx := newFixture(t)
	fx.fake.FailOn(platformtest.OpCreateChannel, errors.New("boom"), "\U0001F4CA LOGS")

	_, err := fx.orch.Run(context.Background(), "g1", "admin", fx.sink)
	require.NoError(t, err)

	topo, ok := fx.reg.Get("g1")
	require.True(t, ok)
	id, ok := topo.Channel(topology.ChannelWarningLog)
	require.True(t, ok)
	require.Empty(t, channelByID(fx.fake.Channels("g1"), id).ParentID)
}

func TestOrchestrator_RunPrivateCategoryOverwrites(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.orch.Run(context.Background(), "g1", "admin", fx.sink)
	require.NoError(t, err)

	topo, ok := fx.reg.Get("g1")
	require.True(t, ok)

	staff := channelByID(fx.fake.Channels("g1"), topo.Categories[topology.CategoryStaffArea])
	require.NotNil(t, staff)
	require.Len(t, staff.PermissionOverwrites, 5)
	require.Equal(t, "g1", staff.PermissionOverwrites[0].ID)
	require.Equal(t, int64(discordgo.PermissionViewChannel), staff.PermissionOverwrites[0].Deny)

	community := channelByID(fx.fake.Channels("g1"), topo.Categories[topology.CategoryCommunity])
	require.NotNil(t, community)
	require.Empty(t, community.PermissionOverwrites)
}

func TestOrchestrator_RunIncompleteTopologyIsNotCommitted(t *testing.T) {
	fx := newFixture(t)
	fx.fake.FailOn(platformtest.OpCreateChannel, errors.New("boom"), "\U0001F3AB TICKETS")

	res, err := fx.orch.Run(context.Background(), "g1", "admin", fx.sink)
	require.ErrorIs(t, err, ErrIncompleteTopology)
	require.Nil(t, res.Topology)

	_, ok := fx.reg.Get("g1")
	require.False(t, ok)
	require.Equal(t, []string{messages.SetupFailed}, fx.sink.failed)
	require.Empty(t, fx.fake.Calls(platformtest.OpJoinVoice))

	require.Len(t, fx.audit.runs, 1)
	require.Equal(t, entities.SetupOutcomeFailed, fx.audit.runs[0].Outcome)
	require.NotEmpty(t, fx.audit.runs[0].Error)
}

func TestOrchestrator_RunSnapshotFailure(t *testing.T) {
	fx := newFixture(t)
	fx.fake.FailOn(platformtest.OpGuildChannels, errors.New("unavailable"))

	_, err := fx.orch.Run(context.Background(), "g1", "admin", fx.sink)
	require.ErrorIs(t, err, ErrSnapshot)
	require.Empty(t, fx.fake.Calls(platformtest.OpCreateRole))
	require.Equal(t, []string{messages.SetupFailed}, fx.sink.failed)
}

func TestOrchestrator_RunKeepsPreviousTopologyOnFailure(t *testing.T) {
	fx := newFixture(t)
	previous := &entities.GuildTopology{GuildID: "g1", RunID: "previous"}
	fx.reg.Replace(previous)
	fx.fake.FailOn(platformtest.OpGuildRoles, errors.New("unavailable"))

	_, err := fx.orch.Run(context.Background(), "g1", "admin", fx.sink)
	require.ErrorIs(t, err, ErrSnapshot)

	got, ok := fx.reg.Get("g1")
	require.True(t, ok)
	require.Equal(t, "previous", got.RunID)
}

func TestOrchestrator_RunVoiceFailureStillCommits(t *testing.T) {
	fx := newFixture(t)
	fx.fake.FailOn(platformtest.OpJoinVoice, errors.New("voice unavailable"))

	res, err := fx.orch.Run(context.Background(), "g1", "admin", fx.sink)
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	require.Equal(t, PhaseVoice, res.Failures[0].Phase)

	topo, ok := fx.reg.Get("g1")
	require.True(t, ok)

	// The notice must not claim a voice connection that failed.
	general := fx.fake.Messages(topo.Channels[topology.ChannelGeneralChat])
	require.Len(t, general, 1)
	require.Equal(t, CompletionEmbed(false).Description, general[0].Embeds[0].Description)
	require.NotEqual(t, CompletionEmbed(true).Description, general[0].Embeds[0].Description)
}

func TestOrchestrator_RunCompletionFallsBackToSink(t *testing.T) {
	fx := newFixture(t)
	fx.fake.FailOn(platformtest.OpCreateChannel, errors.New("boom"), "\U0001F4AC-general-chat")

	_, err := fx.orch.Run(context.Background(), "g1", "admin", fx.sink)
	require.NoError(t, err)
	require.Len(t, fx.sink.completed, 1)
	require.Equal(t, "Setup Completed", fx.sink.completed[0].Title)
}

func TestOrchestrator_RunCancelled(t *testing.T) {
	fx := newFixture(t)
	fx.fake.AddChannel("g1", "old", discordgo.ChannelTypeGuildText, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fx.orch.Run(ctx, "g1", "admin", nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, fx.fake.Calls(platformtest.OpDeleteChannel))
}

func TestConfirmationMessage(t *testing.T) {
	msg := ConfirmationMessage()
	row, ok := msg.Components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 2)
	require.Equal(t, "setup-confirm:yes", row.Components[0].(discordgo.Button).CustomID)
	require.Equal(t, "setup-confirm:no", row.Components[1].(discordgo.Button).CustomID)
}
