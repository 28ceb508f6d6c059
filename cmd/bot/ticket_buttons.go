package main

import (
	"context"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/pkg/entities"
	"github.com/Jacobbrewer1/den/pkg/messages"
)

func ticketOpenButton(ctx context.Context, a IApp, i *discordgo.Interaction, sub string) error {
	category, err := entities.ParseTicketCategory(sub)
	if err != nil {
		return respondEphemeral(ctx, a, i, messages.ErrUnknownTicketType)
	}

	_, err = a.Tickets().Open(ctx, i, category)
	return err
}

func ticketCloseButton(ctx context.Context, a IApp, i *discordgo.Interaction, _ string) error {
	return a.Tickets().Close(ctx, i)
}
