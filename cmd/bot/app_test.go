package main

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/cmd/bot/config"
	"github.com/Jacobbrewer1/den/pkg/logging"
	"github.com/Jacobbrewer1/den/pkg/platform"
	"github.com/Jacobbrewer1/den/pkg/platform/platformtest"
	"github.com/Jacobbrewer1/den/pkg/provision"
	"github.com/Jacobbrewer1/den/pkg/registry"
	"github.com/Jacobbrewer1/den/pkg/tickets"
	"github.com/Jacobbrewer1/den/pkg/voice"
	"github.com/stretchr/testify/require"
)

type manualScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	funcs  []func()
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays = append(m.delays, d)
	m.funcs = append(m.funcs, f)
}

func (m *manualScheduler) runAll() {
	m.mu.Lock()
	funcs := m.funcs
	m.funcs = nil
	m.mu.Unlock()

	for _, f := range funcs {
		f()
	}
}

type fakeStats struct{}

func (fakeStats) BotUser() *discordgo.User { return &discordgo.User{ID: "bot", Username: "den"} }

func (fakeStats) GuildCount() int { return 3 }

func (fakeStats) UserCount() int { return 42 }

func (fakeStats) Uptime() time.Duration { return 26*time.Hour + 5*time.Minute }

// recordingProvisioner records setup runs instead of running them.
type recordingProvisioner struct {
	mu   sync.Mutex
	runs []string
}

func (p *recordingProvisioner) Run(_ context.Context, guildID, _ string, sink provision.StatusSink) (*provision.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runs = append(p.runs, guildID)
	sink.Status(context.Background(), "running")
	return &provision.Result{RunID: "run"}, nil
}

type testApp struct {
	l           *slog.Logger
	cfg         *config.Config
	fake        *platformtest.Fake
	reg         registry.Registry
	provisioner Provisioner
	tickets     *tickets.Service
	voice       *voice.Manager
	scheduler   *manualScheduler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	fake := platformtest.New()
	fake.AddGuild("g1")
	reg := registry.New()
	scheduler := &manualScheduler{}

	return &testApp{
		l:           l,
		cfg:         &config.Config{Prefix: "."},
		fake:        fake,
		reg:         reg,
		provisioner: &recordingProvisioner{},
		tickets:     tickets.NewService(l, fake, reg, nil, scheduler),
		voice:       voice.NewManager(l, fake, reg, 2),
		scheduler:   scheduler,
	}
}

func (a *testApp) Log() *slog.Logger { return a.l }

func (a *testApp) Config() *config.Config { return a.cfg }

func (a *testApp) Platform() platform.Client { return a.fake }

func (a *testApp) Registry() registry.Registry { return a.reg }

func (a *testApp) Provisioner() Provisioner { return a.provisioner }

func (a *testApp) Tickets() *tickets.Service { return a.tickets }

func (a *testApp) Voice() *voice.Manager { return a.voice }

func (a *testApp) Scheduler() tickets.Scheduler { return a.scheduler }

func (a *testApp) Stats() BotStats { return fakeStats{} }

func message(channelID, authorID, content string, mentions ...*discordgo.User) *discordgo.Message {
	return &discordgo.Message{
		ID:        "m1",
		GuildID:   "g1",
		ChannelID: channelID,
		Content:   content,
		Author:    &discordgo.User{ID: authorID, Username: authorID},
		Mentions:  mentions,
		Timestamp: time.Now(),
	}
}

func buttonPress(id, channelID, userID, customID string, perms int64) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:        id,
		Type:      discordgo.InteractionMessageComponent,
		GuildID:   "g1",
		ChannelID: channelID,
		Member: &discordgo.Member{
			User:        &discordgo.User{ID: userID, Username: userID},
			Permissions: perms,
		},
		Data: discordgo.MessageComponentInteractionData{CustomID: customID},
	}
}

func contents(msgs []*discordgo.Message) []string {
	var got []string
	for _, m := range msgs {
		got = append(got, m.Content)
	}
	return got
}
