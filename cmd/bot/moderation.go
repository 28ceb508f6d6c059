package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/pkg/logging"
	"github.com/Jacobbrewer1/den/pkg/messages"
)

const (
	// clearMax is the most messages one bulk delete removes.
	clearMax = 100

	// bulkDeleteMaxAge is the age after which the platform refuses to bulk delete a message.
	bulkDeleteMaxAge = 14 * 24 * time.Hour

	// clearNoticeDelay is how long the clear notice stays in the channel.
	clearNoticeDelay = 3 * time.Second
)

// hasPermission reports whether the author of m holds perm in the channel. Administrators hold every permission.
func hasPermission(ctx context.Context, a IApp, m *discordgo.Message, perm int64) (bool, error) {
	perms, err := a.Platform().MemberPermissions(ctx, m.ChannelID, m.Author.ID)
	if err != nil {
		return false, fmt.Errorf("error getting member permissions: %w", err)
	}
	return perms&discordgo.PermissionAdministrator != 0 || perms&perm == perm, nil
}

// reasonFrom joins the arguments after the mention, or returns the default reason.
func reasonFrom(args []string) string {
	if len(args) < 2 {
		return messages.DefaultReason
	}
	if r := strings.TrimSpace(strings.Join(args[1:], " ")); r != "" {
		return r
	}
	return messages.DefaultReason
}

// memberAction runs a single call moderation action against the first mentioned user.
func memberAction(
	ctx context.Context,
	a IApp,
	m *discordgo.Message,
	args []string,
	perm int64,
	noMention, done, failed string,
	action func(ctx context.Context, guildID, userID, reason string) error,
) error {
	ok, err := hasPermission(ctx, a, m, perm)
	if err != nil {
		return err
	}
	if !ok {
		return reply(ctx, a, m, messages.ErrMissingPermission)
	}

	if len(m.Mentions) == 0 {
		return reply(ctx, a, m, noMention)
	}
	target := m.Mentions[0]
	reason := reasonFrom(args)

	if err := action(ctx, m.GuildID, target.ID, reason); err != nil {
		a.Log().Warn("Moderation action failed",
			slog.String(logging.KeyGuildID, m.GuildID),
			slog.String(logging.KeyUserID, target.ID),
			slog.String(logging.KeyError, err.Error()),
		)
		return reply(ctx, a, m, failed)
	}

	_, err = a.Platform().SendMessage(ctx, m.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf(done, target.Username, reason),
	})
	return err
}

func banCommand(ctx context.Context, a IApp, m *discordgo.Message, args []string) error {
	return memberAction(ctx, a, m, args, discordgo.PermissionBanMembers,
		messages.BanNoMention, messages.BanDone, messages.BanFailed, a.Platform().Ban)
}

func kickCommand(ctx context.Context, a IApp, m *discordgo.Message, args []string) error {
	return memberAction(ctx, a, m, args, discordgo.PermissionKickMembers,
		messages.KickNoMention, messages.KickDone, messages.KickFailed, a.Platform().Kick)
}

// parseClearAmount parses the clear argument, which must be an integer between 1 and 100.
func parseClearAmount(args []string) (int, bool) {
	if len(args) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > clearMax {
		return 0, false
	}
	return n, true
}

func clearCommand(ctx context.Context, a IApp, m *discordgo.Message, args []string) error {
	// Validate before anything touches the channel.
	amount, ok := parseClearAmount(args)
	if !ok {
		return reply(ctx, a, m, messages.ClearInvalid)
	}

	allowed, err := hasPermission(ctx, a, m, discordgo.PermissionManageMessages)
	if err != nil {
		return err
	}
	if !allowed {
		return reply(ctx, a, m, messages.ErrMissingPermission)
	}

	msgs, err := a.Platform().ChannelMessages(ctx, m.ChannelID, amount)
	if err != nil {
		return fmt.Errorf("error fetching messages: %w", err)
	}

	ids := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if time.Since(msg.Timestamp) >= bulkDeleteMaxAge {
			continue
		}
		ids = append(ids, msg.ID)
	}

	if len(ids) > 0 {
		if err := a.Platform().BulkDeleteMessages(ctx, m.ChannelID, ids); err != nil {
			a.Log().Warn("Error bulk deleting messages",
				slog.String(logging.KeyChannelID, m.ChannelID),
				slog.String(logging.KeyError, err.Error()),
			)
			_, err := a.Platform().SendMessage(ctx, m.ChannelID, &discordgo.MessageSend{Content: messages.ClearFailed})
			return err
		}
	}

	notice, err := a.Platform().SendMessage(ctx, m.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf(messages.ClearDone, len(ids)),
	})
	if err != nil {
		return fmt.Errorf("error sending clear notice: %w", err)
	}

	channelID, noticeID := notice.ChannelID, notice.ID
	a.Scheduler().AfterFunc(clearNoticeDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		if err := a.Platform().DeleteMessage(ctx, channelID, noticeID); err != nil {
			a.Log().Debug("Error deleting clear notice", slog.String(logging.KeyError, err.Error()))
		}
	})
	return nil
}
