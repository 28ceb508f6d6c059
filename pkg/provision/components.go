package provision

import "github.com/Jacobbrewer1/discordgo"

const (
	// ConfirmKey is the custom ID key of the setup confirmation buttons.
	ConfirmKey = "setup-confirm"

	ConfirmYes = "yes"
	ConfirmNo  = "no"
)

// ConfirmationMessage is the destructive two-step confirmation shown by the setup command.
func ConfirmationMessage() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: "Server Setup Confirmation",
				Description: "This will **DELETE** all channels and categories, and all manageable roles.\n" +
					"Then it will create a **new Bot Support Server** structure with channels, roles, and ticket system.\n\n" +
					"Are you sure you want to continue?",
				Color: 0xff5555,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Yes, reset & build",
						Style:    discordgo.DangerButton,
						Emoji:    discordgo.ComponentEmoji{Name: "✅"},
						CustomID: ConfirmKey + ":" + ConfirmYes,
					},
					discordgo.Button{
						Label:    "Cancel",
						Style:    discordgo.SecondaryButton,
						Emoji:    discordgo.ComponentEmoji{Name: "❌"},
						CustomID: ConfirmKey + ":" + ConfirmNo,
					},
				},
			},
		},
	}
}

// CompletionEmbed is the notice sent when a setup run finishes. The voice line reflects whether the bot
// joined its voice channel.
func CompletionEmbed(voiceConnected bool) *discordgo.MessageEmbed {
	voice := "• The bot is connected to its dedicated voice channel (muted & deafened)."
	if !voiceConnected {
		voice = "• The bot could not join its voice channel yet and will retry on its next restart."
	}

	return &discordgo.MessageEmbed{
		Title: "Setup Completed",
		Description: "The Bot Support Server has been successfully created.\n" +
			"• Rules, channels, roles, and ticket system are now ready.\n" +
			voice,
		Color: 0x00ff88,
	}
}
