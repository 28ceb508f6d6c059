package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/pkg/messages"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		content string
		cmd     string
		args    []string
		ok      bool
	}{
		{name: "simple", content: ".ping", cmd: "ping", ok: true},
		{name: "uppercase", content: ".PiNg", cmd: "ping", ok: true},
		{name: "args", content: ".ban  <@1>   spamming links", cmd: "ban", args: []string{"<@1>", "spamming", "links"}, ok: true},
		{name: "no prefix", content: "ping", ok: false},
		{name: "prefix only", content: ".   ", ok: false},
		{name: "empty", content: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, ok := parseCommand(".", tt.content)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.cmd, cmd)
			if len(tt.args) > 0 {
				require.Equal(t, tt.args, args)
			} else {
				require.Empty(t, args)
			}
		})
	}
}

func TestHandleMessage_Routing(t *testing.T) {
	a := newTestApp(t)
	ch := a.fake.AddChannel("g1", "general", discordgo.ChannelTypeGuildText, "")

	var got []string
	cmds := map[string]commandProcessor{
		"echo": func(_ context.Context, _ IApp, _ *discordgo.Message, args []string) error {
			got = append(got, args...)
			return nil
		},
	}

	handleMessage(context.Background(), a, cmds, message(ch.ID, "u1", ".echo a b"))
	require.Equal(t, []string{"a", "b"}, got)

	// Bots and unknown commands are ignored.
	bot := message(ch.ID, "u2", ".echo c")
	bot.Author.Bot = true
	handleMessage(context.Background(), a, cmds, bot)
	handleMessage(context.Background(), a, cmds, message(ch.ID, "u1", ".unknown"))

	// Direct messages carry no guild.
	dm := message(ch.ID, "u1", ".echo d")
	dm.GuildID = ""
	handleMessage(context.Background(), a, cmds, dm)

	require.Equal(t, []string{"a", "b"}, got)
	require.Empty(t, a.fake.Messages(ch.ID))
}

func TestHandleMessage_ErrorRepliesGeneric(t *testing.T) {
	a := newTestApp(t)
	ch := a.fake.AddChannel("g1", "general", discordgo.ChannelTypeGuildText, "")

	cmds := map[string]commandProcessor{
		"fail": func(context.Context, IApp, *discordgo.Message, []string) error {
			return errors.New("boom")
		},
		"panic": func(context.Context, IApp, *discordgo.Message, []string) error {
			panic("boom")
		},
	}

	handleMessage(context.Background(), a, cmds, message(ch.ID, "u1", ".fail"))
	require.Equal(t, []string{messages.ErrUserErrorProcessing}, contents(a.fake.Messages(ch.ID)))

	require.NotPanics(t, func() {
		handleMessage(context.Background(), a, cmds, message(ch.ID, "u1", ".panic"))
	})
}

func TestHandleInteraction_Routing(t *testing.T) {
	a := newTestApp(t)

	var subs []string
	btns := map[string]buttonProcessor{
		"key": func(_ context.Context, _ IApp, _ *discordgo.Interaction, sub string) error {
			subs = append(subs, sub)
			return nil
		},
		"fail": func(context.Context, IApp, *discordgo.Interaction, string) error {
			return errors.New("boom")
		},
	}

	handleInteraction(context.Background(), a, btns, buttonPress("i1", "c", "u1", "key:sub", 0))
	handleInteraction(context.Background(), a, btns, buttonPress("i2", "c", "u1", "key", 0))
	handleInteraction(context.Background(), a, btns, buttonPress("i3", "c", "u1", "other:sub", 0))
	require.Equal(t, []string{"sub", ""}, subs)
	require.Empty(t, a.fake.Responses())

	handleInteraction(context.Background(), a, btns, buttonPress("i4", "c", "u1", "fail:x", 0))
	responses := a.fake.Responses()
	require.Len(t, responses, 1)
	require.Equal(t, messages.ErrUserErrorProcessing, responses[0].Response.Data.Content)
	require.Equal(t, discordgo.MessageFlagsEphemeral, responses[0].Response.Data.Flags)
}

func TestHandleInteraction_IgnoresOtherTypes(t *testing.T) {
	a := newTestApp(t)

	called := false
	btns := map[string]buttonProcessor{
		"key": func(context.Context, IApp, *discordgo.Interaction, string) error {
			called = true
			return nil
		},
	}

	i := buttonPress("i1", "c", "u1", "key:sub", 0)
	i.Type = discordgo.InteractionApplicationCommand
	i.Data = discordgo.ApplicationCommandInteractionData{Name: "key"}
	handleInteraction(context.Background(), a, btns, i)
	require.False(t, called)
}

func TestMiddlewareHttp(t *testing.T) {
	a := newTestApp(t)

	h := middlewareHttp(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}, authOptionNone, a)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusAccepted, w.Code)

	panics := middlewareHttp(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}, authOptionNone, a)

	w = httptest.NewRecorder()
	require.NotPanics(t, func() {
		panics.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
