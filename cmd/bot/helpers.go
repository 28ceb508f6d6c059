package main

import (
	"context"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/pkg/messages"
)

func respondError(ctx context.Context, a IApp, i *discordgo.Interaction) error {
	return respondEphemeral(ctx, a, i, messages.ErrUserErrorProcessing)
}

func respondEphemeral(ctx context.Context, a IApp, i *discordgo.Interaction, content string) error {
	return a.Platform().Respond(ctx, i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// respondUpdate replaces the message the button was pressed on with content.
func respondUpdate(ctx context.Context, a IApp, i *discordgo.Interaction, content string) error {
	return a.Platform().Respond(ctx, i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: []discordgo.MessageComponent{},
			Embeds:     []*discordgo.MessageEmbed{},
		},
	})
}

// reply answers a text command in its channel.
func reply(ctx context.Context, a IApp, m *discordgo.Message, content string) error {
	_, err := a.Platform().SendMessage(ctx, m.ChannelID, &discordgo.MessageSend{
		Content:   content,
		Reference: m.Reference(),
	})
	return err
}

func sendEmbed(ctx context.Context, a IApp, m *discordgo.Message, embed *discordgo.MessageEmbed) error {
	_, err := a.Platform().SendMessage(ctx, m.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	return err
}
