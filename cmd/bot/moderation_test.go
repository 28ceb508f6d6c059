package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/pkg/messages"
	"github.com/Jacobbrewer1/den/pkg/platform/platformtest"
	"github.com/stretchr/testify/require"
)

func TestClear_RejectsInvalidAmounts(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "zero", args: []string{"0"}},
		{name: "over limit", args: []string{"101"}},
		{name: "negative", args: []string{"-5"}},
		{name: "not a number", args: []string{"abc"}},
		{name: "missing", args: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			ch := a.fake.AddChannel("g1", "general", discordgo.ChannelTypeGuildText, "")
			a.fake.SetPermissions("u1", discordgo.PermissionManageMessages)
			a.fake.AddMessages(ch.ID, 10, time.Now())

			err := clearCommand(context.Background(), a, message(ch.ID, "u1", ".clear"), tt.args)
			require.NoError(t, err)

			require.Empty(t, a.fake.Calls(platformtest.OpMemberPermissions))
			require.Empty(t, a.fake.Calls(platformtest.OpChannelMessages))
			require.Empty(t, a.fake.Calls(platformtest.OpBulkDeleteMessages))
			require.Len(t, a.fake.Messages(ch.ID), 11)
			require.Equal(t, messages.ClearInvalid, a.fake.Messages(ch.ID)[10].Content)
		})
	}
}

func TestClear_Maximum(t *testing.T) {
	a := newTestApp(t)
	ch := a.fake.AddChannel("g1", "general", discordgo.ChannelTypeGuildText, "")
	a.fake.SetPermissions("u1", discordgo.PermissionManageMessages)
	a.fake.AddMessages(ch.ID, 120, time.Now())

	err := clearCommand(context.Background(), a, message(ch.ID, "u1", ".clear 100"), []string{"100"})
	require.NoError(t, err)

	batches := a.fake.BulkDeletes(ch.ID)
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 100)

	// 20 old messages plus the notice.
	remaining := a.fake.Messages(ch.ID)
	require.Len(t, remaining, 21)
	require.Equal(t, fmt.Sprintf(messages.ClearDone, 100), remaining[20].Content)

	require.Equal(t, []time.Duration{clearNoticeDelay}, a.scheduler.delays)
	a.scheduler.runAll()
	require.Len(t, a.fake.Messages(ch.ID), 20)
}

func TestClear_SkipsOldMessages(t *testing.T) {
	a := newTestApp(t)
	ch := a.fake.AddChannel("g1", "general", discordgo.ChannelTypeGuildText, "")
	a.fake.SetPermissions("u1", discordgo.PermissionAdministrator)
	a.fake.AddMessages(ch.ID, 5, time.Now().Add(-20*24*time.Hour))
	a.fake.AddMessages(ch.ID, 3, time.Now())

	err := clearCommand(context.Background(), a, message(ch.ID, "u1", ".clear 10"), []string{"10"})
	require.NoError(t, err)

	batches := a.fake.BulkDeletes(ch.ID)
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 3)

	remaining := a.fake.Messages(ch.ID)
	require.Len(t, remaining, 6)
	require.Equal(t, fmt.Sprintf(messages.ClearDone, 3), remaining[5].Content)
}

func TestClear_OnlyOldMessages(t *testing.T) {
	a := newTestApp(t)
	ch := a.fake.AddChannel("g1", "general", discordgo.ChannelTypeGuildText, "")
	a.fake.SetPermissions("u1", discordgo.PermissionManageMessages)
	a.fake.AddMessages(ch.ID, 4, time.Now().Add(-15*24*time.Hour))

	err := clearCommand(context.Background(), a, message(ch.ID, "u1", ".clear 4"), []string{"4"})
	require.NoError(t, err)

	require.Empty(t, a.fake.Calls(platformtest.OpBulkDeleteMessages))
	remaining := a.fake.Messages(ch.ID)
	require.Len(t, remaining, 5)
	require.Equal(t, fmt.Sprintf(messages.ClearDone, 0), remaining[4].Content)
}

func TestClear_NoPermission(t *testing.T) {
	a := newTestApp(t)
	ch := a.fake.AddChannel("g1", "general", discordgo.ChannelTypeGuildText, "")
	a.fake.SetPermissions("u1", discordgo.PermissionSendMessages)
	a.fake.AddMessages(ch.ID, 3, time.Now())

	err := clearCommand(context.Background(), a, message(ch.ID, "u1", ".clear 3"), []string{"3"})
	require.NoError(t, err)

	require.Empty(t, a.fake.Calls(platformtest.OpChannelMessages))
	remaining := a.fake.Messages(ch.ID)
	require.Len(t, remaining, 4)
	require.Equal(t, messages.ErrMissingPermission, remaining[3].Content)
	require.Empty(t, a.scheduler.delays)
}

func TestClear_BulkDeleteFails(t *testing.T) {
	a := newTestApp(t)
	ch := a.fake.AddChannel("g1", "general", discordgo.ChannelTypeGuildText, "")
	a.fake.SetPermissions("u1", discordgo.PermissionManageMessages)
	a.fake.AddMessages(ch.ID, 3, time.Now())
	a.fake.FailOn(platformtest.OpBulkDeleteMessages, errors.New("missing access"))

	err := clearCommand(context.Background(), a, message(ch.ID, "u1", ".clear 3"), []string{"3"})
	require.NoError(t, err)

	remaining := a.fake.Messages(ch.ID)
	require.Len(t, remaining, 4)
	require.Equal(t, messages.ClearFailed, remaining[3].Content)
	require.Empty(t, a.scheduler.delays)
}

func TestParseClearAmount(t *testing.T) {
	tests := []struct {
		args []string
		want int
		ok   bool
	}{
		{args: []string{"1"}, want: 1, ok: true},
		{args: []string{"100"}, want: 100, ok: true},
		{args: []string{"50", "extra"}, want: 50, ok: true},
		{args: []string{"0"}},
		{args: []string{"101"}},
		{args: []string{"1.5"}},
		{args: []string{""}},
		{},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.args), func(t *testing.T) {
			got, ok := parseClearAmount(tt.args)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBan(t *testing.T) {
	target := &discordgo.User{ID: "u9", Username: "spammer"}

	tests := []struct {
		name     string
		perms    int64
		mentions []*discordgo.User
		args     []string
		fail     bool
		want     string
		banned   map[string]string
	}{
		{
			name:     "with reason",
			perms:    discordgo.PermissionBanMembers,
			mentions: []*discordgo.User{target},
			args:     []string{"<@u9>", "posting", "links"},
			want:     fmt.Sprintf(messages.BanDone, "spammer", "posting links"),
			banned:   map[string]string{"u9": "posting links"},
		},
		{
			name:     "default reason",
			perms:    discordgo.PermissionAdministrator,
			mentions: []*discordgo.User{target},
			args:     []string{"<@u9>"},
			want:     fmt.Sprintf(messages.BanDone, "spammer", messages.DefaultReason),
			banned:   map[string]string{"u9": messages.DefaultReason},
		},
		{
			name:   "no mention",
			perms:  discordgo.PermissionBanMembers,
			want:   messages.BanNoMention,
			banned: map[string]string{},
		},
		{
			name:     "no permission",
			perms:    discordgo.PermissionKickMembers,
			mentions: []*discordgo.User{target},
			args:     []string{"<@u9>"},
			want:     messages.ErrMissingPermission,
			banned:   map[string]string{},
		},
		{
			name:     "platform refuses",
			perms:    discordgo.PermissionBanMembers,
			mentions: []*discordgo.User{target},
			args:     []string{"<@u9>"},
			fail:     true,
			want:     messages.BanFailed,
			banned:   map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			ch := a.fake.AddChannel("g1", "general", discordgo.ChannelTypeGuildText, "")
			a.fake.SetPermissions("u1", tt.perms)
			if tt.fail {
				a.fake.FailOn(platformtest.OpBan, errors.New("role hierarchy"))
			}

			err := banCommand(context.Background(), a, message(ch.ID, "u1", ".ban", tt.mentions...), tt.args)
			require.NoError(t, err)

			require.Equal(t, []string{tt.want}, contents(a.fake.Messages(ch.ID)))
			require.Equal(t, tt.banned, a.fake.Bans())
		})
	}
}

func TestKick(t *testing.T) {
	a := newTestApp(t)
	ch := a.fake.AddChannel("g1", "general", discordgo.ChannelTypeGuildText, "")
	a.fake.SetPermissions("u1", discordgo.PermissionKickMembers)
	target := &discordgo.User{ID: "u9", Username: "spammer"}

	err := kickCommand(context.Background(), a, message(ch.ID, "u1", ".kick", target), []string{"<@u9>", "rude"})
	require.NoError(t, err)

	require.Equal(t, map[string]string{"u9": "rude"}, a.fake.Kicks())
	require.Empty(t, a.fake.Bans())
	require.Equal(t, []string{fmt.Sprintf(messages.KickDone, "spammer", "rude")}, contents(a.fake.Messages(ch.ID)))
}

func TestKick_BanPermissionIsNotEnough(t *testing.T) {
	a := newTestApp(t)
	ch := a.fake.AddChannel("g1", "general", discordgo.ChannelTypeGuildText, "")
	a.fake.SetPermissions("u1", discordgo.PermissionBanMembers)
	target := &discordgo.User{ID: "u9", Username: "spammer"}

	err := kickCommand(context.Background(), a, message(ch.ID, "u1", ".kick", target), []string{"<@u9>"})
	require.NoError(t, err)

	require.Empty(t, a.fake.Kicks())
	require.Equal(t, []string{messages.ErrMissingPermission}, contents(a.fake.Messages(ch.ID)))
}

func TestReasonFrom(t *testing.T) {
	require.Equal(t, messages.DefaultReason, reasonFrom(nil))
	require.Equal(t, messages.DefaultReason, reasonFrom([]string{"<@1>"}))
	require.Equal(t, messages.DefaultReason, reasonFrom([]string{"<@1>", " "}))
	require.Equal(t, "a b", reasonFrom([]string{"<@1>", "a", "b"}))
}
