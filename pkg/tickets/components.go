package tickets

import (
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/pkg/entities"
)

const (
	// OpenKey is the interaction key of the ticket open buttons. The sub key is the ticket category.
	OpenKey = "ticket-open"

	// CloseKey is the interaction key of the ticket close button.
	CloseKey = "ticket-close"

	// CloseSubKey is the only sub key of the close button.
	CloseSubKey = "now"
)

type menuButton struct {
	label string
	emoji string
	style discordgo.ButtonStyle
}

var menuButtons = map[entities.TicketCategory]menuButton{
	entities.TicketCategoryGeneral: {label: "General Support", emoji: "\U0001F6E0", style: discordgo.PrimaryButton},
	entities.TicketCategoryBug:     {label: "Bug Report", emoji: "\U0001F41E", style: discordgo.SecondaryButton},
	entities.TicketCategoryPartner: {label: "Partnership", emoji: "\U0001F91D", style: discordgo.SuccessButton},
}

// OpenButtonID returns the custom ID of the open button for the category.
func OpenButtonID(c entities.TicketCategory) string {
	return OpenKey + ":" + string(c)
}

// CloseButtonID returns the custom ID of the close button.
func CloseButtonID() string {
	return CloseKey + ":" + CloseSubKey
}

// MenuMessage is the ticket menu posted in the ticket create channel.
func MenuMessage() *discordgo.MessageSend {
	buttons := make([]discordgo.MessageComponent, 0, len(menuButtons))
	for _, c := range entities.TicketCategories() {
		b := menuButtons[c]
		buttons = append(buttons, discordgo.Button{
			Label:    b.label,
			Style:    b.style,
			Emoji:    discordgo.ComponentEmoji{Name: b.emoji},
			CustomID: OpenButtonID(c),
		})
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: "Support Tickets",
				Description: "Need help with the bot, found a bug, or want to discuss a partnership?\n\n" +
					"Use the buttons below to create a private ticket. Our Support Team will assist you as soon as possible.",
				Color: 0x5865f2,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: buttons},
		},
	}
}

// greetingMessage is posted in a new ticket channel, tagging the opener.
func greetingMessage(userID string, c entities.TicketCategory) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>", userID),
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: "New Ticket",
				Description: fmt.Sprintf("Hello <@%s>,\n\n", userID) +
					"Please describe your issue in detail (what happened, steps to reproduce, screenshots, etc.).\n" +
					"A member of our Support Team will respond as soon as possible.",
				Color: 0x00b0f4,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "Ticket Type", Value: string(c), Inline: true},
				},
			},
		},
		AllowedMentions: &discordgo.MessageAllowedMentions{Users: []string{userID}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Close Ticket",
						Style:    discordgo.DangerButton,
						Emoji:    discordgo.ComponentEmoji{Name: "✅"},
						CustomID: CloseButtonID(),
					},
				},
			},
		},
	}
}
