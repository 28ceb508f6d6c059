package main

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/pkg/logging"
	"github.com/Jacobbrewer1/den/pkg/messages"
	"github.com/Jacobbrewer1/den/pkg/platform"
	"github.com/Jacobbrewer1/den/pkg/provision"
)

// setupTimeout bounds a full setup run. Interaction follow-ups stop working after 15 minutes.
const setupTimeout = 14 * time.Minute

// setupCommand shows the destructive confirmation to administrators.
func setupCommand(ctx context.Context, a IApp, m *discordgo.Message, _ []string) error {
	ok, err := hasPermission(ctx, a, m, discordgo.PermissionAdministrator)
	if err != nil {
		return err
	}
	if !ok {
		return reply(ctx, a, m, fmt.Sprintf(messages.ErrNotAdministrator, a.Config().Prefix))
	}

	if _, err := a.Platform().SendMessage(ctx, m.ChannelID, provision.ConfirmationMessage()); err != nil {
		return fmt.Errorf("error sending setup confirmation: %w", err)
	}
	return nil
}

func isAdministrator(i *discordgo.Interaction) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}

func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// setupConfirmButton handles the confirmation buttons. Only administrators may press them.
func setupConfirmButton(ctx context.Context, a IApp, i *discordgo.Interaction, sub string) error {
	if !isAdministrator(i) {
		return respondEphemeral(ctx, a, i, messages.ErrNotAdministratorConfirm)
	}

	switch sub {
	case provision.ConfirmNo:
		return respondUpdate(ctx, a, i, messages.SetupCancelled)
	case provision.ConfirmYes:
	default:
		return fmt.Errorf("unknown setup confirmation %q", sub)
	}

	if err := respondUpdate(ctx, a, i, messages.SetupStarting); err != nil {
		return fmt.Errorf("error acknowledging setup: %w", err)
	}

	// The run outlives the command timeout.
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), setupTimeout)
	defer cancel()

	sink := &interactionSink{l: a.Log(), client: a.Platform(), i: i}
	if err := runSetup(runCtx, a, i, sink); err != nil {
		// Already reported through the sink and logged by the orchestrator.
		a.Log().Debug("Setup run failed", slog.String(logging.KeyError, err.Error()))
	}
	return nil
}

// runSetup runs the provisioner. A panic is reported to the requester as the generic setup failure.
func runSetup(ctx context.Context, a IApp, i *discordgo.Interaction, sink provision.StatusSink) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			a.Log().Error("Panic in setup run",
				slog.String(logging.KeyGuildID, i.GuildID),
				slog.String(logging.KeyError, fmt.Sprint(rec)),
				slog.String("stack", string(debug.Stack())),
			)
			sink.Failed(ctx, messages.SetupFailed)
			err = fmt.Errorf("setup run panicked: %v", rec)
		}
	}()

	_, err = a.Provisioner().Run(ctx, i.GuildID, interactionUserID(i), sink)
	return err
}

// interactionSink reports setup progress as follow-ups to the confirmation interaction.
type interactionSink struct {
	l      *slog.Logger
	client platform.Client
	i      *discordgo.Interaction
}

func (s *interactionSink) followUp(ctx context.Context, params *discordgo.WebhookParams) {
	if _, err := s.client.FollowUp(ctx, s.i, params); err != nil {
		s.l.Debug("Error sending setup follow-up",
			slog.String(logging.KeyGuildID, s.i.GuildID),
			slog.String(logging.KeyError, err.Error()),
		)
	}
}

func (s *interactionSink) Status(ctx context.Context, content string) {
	s.followUp(ctx, &discordgo.WebhookParams{Content: content})
}

func (s *interactionSink) Completed(ctx context.Context, embed *discordgo.MessageEmbed) {
	s.followUp(ctx, &discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{embed}})
}

func (s *interactionSink) Failed(ctx context.Context, content string) {
	s.followUp(ctx, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}
