package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Jacobbrewer1/discordgo"
)

func pingCommand(ctx context.Context, a IApp, m *discordgo.Message, _ []string) error {
	latency := time.Since(m.Timestamp)
	if latency < 0 {
		latency = 0
	}

	return sendEmbed(ctx, a, m, &discordgo.MessageEmbed{
		Title:       "Pong!",
		Description: fmt.Sprintf("Latency: `%dms`", latency.Milliseconds()),
		Color:       0x00ff9d,
	})
}

func statsCommand(ctx context.Context, a IApp, m *discordgo.Message, _ []string) error {
	st := a.Stats()

	return sendEmbed(ctx, a, m, &discordgo.MessageEmbed{
		Title: "Bot Stats",
		Color: 0x00aaff,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Servers", Value: strconv.Itoa(st.GuildCount()), Inline: true},
			{Name: "Users (approx.)", Value: strconv.Itoa(st.UserCount()), Inline: true},
			{Name: "Uptime", Value: formatUptime(st.Uptime()), Inline: true},
		},
	})
}

func helpCommand(ctx context.Context, a IApp, m *discordgo.Message, _ []string) error {
	p := a.Config().Prefix

	return sendEmbed(ctx, a, m, &discordgo.MessageEmbed{
		Title: "Help Menu",
		Description: fmt.Sprintf("Prefix: `%s`\n", p) +
			"This bot is a full **Bot Support Server Builder**, with automatic setup, moderation and tickets.",
		Color: 0x5865f2,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "Setup & Information",
				Value: fmt.Sprintf("`%ssetup` – Reset the server and build the full support structure (Admin only).\n", p) +
					fmt.Sprintf("`%sstats` – Show bot statistics (servers, users, uptime).\n", p) +
					fmt.Sprintf("`%sping` – Check bot latency.\n", p) +
					fmt.Sprintf("`%sabout` – Learn what this bot does.\n", p) +
					fmt.Sprintf("`%sinvite` – Get the bot invite link.", p),
			},
			{
				Name: "Moderation Commands",
				Value: fmt.Sprintf("`%sban @user [reason]` – Ban a member from the server.\n", p) +
					fmt.Sprintf("`%skick @user [reason]` – Kick a member from the server.\n", p) +
					fmt.Sprintf("`%sclear <1-100>` – Bulk delete messages in the current channel.", p),
			},
			{
				Name: "Ticket System",
				Value: "Use the buttons in `#\U0001F3AB-ticket-create` to open support tickets:\n" +
					"- \U0001F6E0 General Support – For normal help about the bot or server.\n" +
					"- \U0001F41E Bug Report – To report bugs or issues.\n" +
					"- \U0001F91D Partnership – For partnership and collaboration requests.\n" +
					"Each ticket creates a **private channel** visible only to you and staff.",
			},
			{
				Name: "Notes",
				Value: fmt.Sprintf("- `%ssetup` will **delete existing channels and roles** (that the bot can manage) and rebuild the server.\n", p) +
					"- The bot creates emoji-rich channels, roles, rules embeds, staff-only areas and log channels.\n" +
					"- A dedicated `\U0001F50A Bot Voice` channel is created and the bot joins it automatically (muted & deafened).",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Bot Support Server Builder"},
	})
}

func aboutCommand(ctx context.Context, a IApp, m *discordgo.Message, _ []string) error {
	return sendEmbed(ctx, a, m, &discordgo.MessageEmbed{
		Title: "About This Bot",
		Description: "This bot is designed to build a **complete Bot Support Server** automatically:\n\n" +
			"- Deletes old channels and roles (safe, within its permissions).\n" +
			"- Creates modern, emoji-rich channels and categories.\n" +
			"- Sets up roles and permissions for staff, support and members.\n" +
			"- Sends rules embeds.\n" +
			"- Installs a full ticket system with buttons and private channels.\n" +
			"- Creates staff-only and logs areas for moderation.\n" +
			"- Connects to a dedicated voice channel for 24/7 presence (muted & deafened).",
		Color:  0x2ecc71,
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Use %ssetup to start a full server build (Admin only).", a.Config().Prefix)},
	})
}

// inviteURL is the OAuth2 URL that adds the bot with the administrator permission.
func inviteURL(clientID string) string {
	return fmt.Sprintf("https://discord.com/oauth2/authorize?client_id=%s&permissions=%d&scope=bot", clientID, discordgo.PermissionAdministrator)
}

func inviteCommand(ctx context.Context, a IApp, m *discordgo.Message, _ []string) error {
	u := a.Stats().BotUser()
	if u == nil {
		return fmt.Errorf("bot user is not known yet")
	}

	return sendEmbed(ctx, a, m, &discordgo.MessageEmbed{
		Title: "Invite Me",
		Description: "Use the link below to invite this bot with Administrator permissions (required for full setup):\n\n" +
			fmt.Sprintf("[Invite Link](%s)", inviteURL(u.ID)),
		Color: 0xf1c40f,
	})
}
