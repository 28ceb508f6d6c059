package topology

import "github.com/Jacobbrewer1/discordgo"

const (
	rulesTitle  = "AUTR-like General Server Rules"
	rulesFooter = "By staying in this server, you agree to follow all rules."
	rulesColor  = 0xffffff

	// RulesFieldsPerEmbed is how many rule sections go into one embed.
	RulesFieldsPerEmbed = 3
)

// maxEmbedFields is the platform limit of fields on a single embed.
const maxEmbedFields = 25

// RuleSection is one titled block of the server rules.
type RuleSection struct {
	Name  string
	Value string
}

// RuleSections is the server rules content in display order.
var RuleSections = []RuleSection{
	{
		Name: "General Respect Rules",
		Value: "- No discrimination, hate speech, harassment, or threats.\n" +
			"- Be respectful and tolerant to all members.\n" +
			"- Use appropriate language in all channels.",
	},
	{
		Name: "Personal Data Security",
		Value: "- Do not share phone numbers, addresses, passwords, or other sensitive data.\n" +
			"- Do not share others’ personal data without their explicit consent.",
	},
	{
		Name: "Profile & Name Policy",
		Value: "- Usernames, nicknames, and profile pictures must be appropriate.\n" +
			"- No NSFW, offensive, or extremely spammy emoji names.\n" +
			"- Links in usernames are not allowed.",
	},
	{
		Name: "Advertisement & Promotion Ban",
		Value: "- No unsolicited advertising or promotions.\n" +
			"- Do not send server invites or ads in DMs without permission.",
	},
	{
		Name: "Religious & Political Topics",
		Value: "- Avoid religious and political debates.\n" +
			"- No provoking, insulting, or inflammatory behavior regarding these topics.",
	},
	{
		Name: "Direct Messages Behavior",
		Value: "- Do not spam or harass users in DMs.\n" +
			"- Do not send unwanted invitations or advertisements in DMs.",
	},
	{
		Name: "Community Order",
		Value: "- Follow staff instructions at all times.\n" +
			"- Do not create drama or disturb the peace of the server.\n" +
			"- Report issues to the Support or Moderation team.",
	},
	{
		Name: "Server Content & Copyright",
		Value: "- Do not share pirated or illegal content.\n" +
			"- Respect copyrights and Discord’s Terms of Service.",
	},
}

// ChunkEmbeds splits the sections into embeds of at most perEmbed fields each.
// The first embed carries the title and the last the footer.
func ChunkEmbeds(sections []RuleSection, perEmbed int, title, footer string, color int) []*discordgo.MessageEmbed {
	if perEmbed <= 0 || perEmbed > maxEmbedFields {
		perEmbed = maxEmbedFields
	}

	var embeds []*discordgo.MessageEmbed
	for start := 0; start < len(sections); start += perEmbed {
		end := start + perEmbed
		if end > len(sections) {
			end = len(sections)
		}

		e := &discordgo.MessageEmbed{Color: color}
		for _, s := range sections[start:end] {
			e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: s.Name, Value: s.Value})
		}
		embeds = append(embeds, e)
	}

	if len(embeds) == 0 {
		return nil
	}
	embeds[0].Title = title
	if footer != "" {
		embeds[len(embeds)-1].Footer = &discordgo.MessageEmbedFooter{Text: footer}
	}
	return embeds
}

// RulesMessage returns the rules message posted in the rules channel.
func RulesMessage() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: ChunkEmbeds(RuleSections, RulesFieldsPerEmbed, rulesTitle, rulesFooter, rulesColor),
	}
}
