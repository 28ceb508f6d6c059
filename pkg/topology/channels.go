package topology

import "github.com/Jacobbrewer1/discordgo"

// Category keys.
const (
	CategoryWelcomeInfo   = "welcomeInfo"
	CategoryCommunity     = "community"
	CategoryBotSupport    = "botSupport"
	CategoryTickets       = "tickets"
	CategoryVoiceHangouts = "voiceHangouts"
	CategoryStaffArea     = "staffArea"
	CategoryLogs          = "logs"
)

// Channel keys.
const (
	ChannelRules           = "rules"
	ChannelAnnouncements   = "announcements"
	ChannelUpdates         = "updates"
	ChannelFAQ             = "faq"
	ChannelWelcomeLogs     = "welcomeLogs"
	ChannelGeneralChat     = "generalChat"
	ChannelOffTopic        = "offTopic"
	ChannelMedia           = "media"
	ChannelBotShowcase     = "botShowcase"
	ChannelSuggestions     = "suggestions"
	ChannelHelp            = "help"
	ChannelPartners        = "partners"
	ChannelGames           = "games"
	ChannelTopSupporters   = "topSupporters"
	ChannelHowToUse        = "howToUse"
	ChannelChangelogs      = "changelogs"
	ChannelIntegrations    = "integrations"
	ChannelBugReports      = "bugReports"
	ChannelFeatureRequests = "featureRequests"
	ChannelBetaTesting     = "betaTesting"
	ChannelTicketCreate    = "ticketCreate"
	ChannelGeneralVoice    = "generalVoice"
	ChannelGaming1         = "gaming1"
	ChannelGaming2         = "gaming2"
	ChannelMeetingRoom     = "meetingRoom"
	ChannelAFK             = "afk"
	ChannelBotVoice        = "botVoice"
	ChannelStaffChat       = "staffChat"
	ChannelModLog          = "modLog"
	ChannelAdminLog        = "adminLog"
	ChannelSecurityAlerts  = "securityAlerts"
	ChannelTicketLog       = "ticketLog"
	ChannelJoinLeaveLog    = "joinLeaveLog"
	ChannelCommandLog      = "commandLog"
	ChannelMessageLog      = "messageLog"
	ChannelWarningLog      = "warningLog"
)

// VoiceMarker is the substring that identifies the always-on voice channel by name.
const VoiceMarker = "Bot Voice"

// ChannelSpec describes a category or channel that setup creates.
type ChannelSpec struct {
	Key  string
	Name string
	Type discordgo.ChannelType

	// Parent is the key of the category the channel is created in.
	Parent string

	// VisibleTo lists the role keys allowed to view a private category. When set, @everyone is denied.
	VisibleTo []string
}

// Private reports whether the category hides itself from @everyone.
func (c ChannelSpec) Private() bool {
	return len(c.VisibleTo) > 0
}

// Categories is the ordered list of categories created by setup.
var Categories = []ChannelSpec{
	{Key: CategoryWelcomeInfo, Name: "\U0001F3E0 WELCOME & INFO", Type: discordgo.ChannelTypeGuildCategory},
	{Key: CategoryCommunity, Name: "\U0001F465 COMMUNITY", Type: discordgo.ChannelTypeGuildCategory},
	{Key: CategoryBotSupport, Name: "\U0001F6E0 BOT SUPPORT", Type: discordgo.ChannelTypeGuildCategory},
	{Key: CategoryTickets, Name: "\U0001F3AB TICKETS", Type: discordgo.ChannelTypeGuildCategory},
	{Key: CategoryVoiceHangouts, Name: "\U0001F50A VOICE & HANGOUTS", Type: discordgo.ChannelTypeGuildCategory},
	{
		Key:       CategoryStaffArea,
		Name:      "\U0001F510 STAFF AREA",
		Type:      discordgo.ChannelTypeGuildCategory,
		VisibleTo: []string{RoleAdmin, RoleHeadAdmin, RoleModerator, RoleSupportTeam},
	},
	{
		Key:       CategoryLogs,
		Name:      "\U0001F4CA LOGS",
		Type:      discordgo.ChannelTypeGuildCategory,
		VisibleTo: []string{RoleAdmin, RoleHeadAdmin, RoleModerator},
	},
}

func text(key, name, parent string) ChannelSpec {
	return ChannelSpec{Key: key, Name: name, Type: discordgo.ChannelTypeGuildText, Parent: parent}
}

func voice(key, name, parent string) ChannelSpec {
	return ChannelSpec{Key: key, Name: name, Type: discordgo.ChannelTypeGuildVoice, Parent: parent}
}

// Channels is the ordered list of text and voice channels created by setup.
var Channels = []ChannelSpec{
	text(ChannelRules, "\U0001F4DC-rules", CategoryWelcomeInfo),
	text(ChannelAnnouncements, "\U0001F4E2-announcements", CategoryWelcomeInfo),
	text(ChannelUpdates, "\U0001F4F0-updates", CategoryWelcomeInfo),
	text(ChannelFAQ, "\U0001F4CC-faq", CategoryWelcomeInfo),
	text(ChannelWelcomeLogs, "\U0001F4E5-welcome-logs", CategoryWelcomeInfo),

	text(ChannelGeneralChat, "\U0001F4AC-general-chat", CategoryCommunity),
	text(ChannelOffTopic, "\U0001F3AE-off-topic", CategoryCommunity),
	text(ChannelMedia, "\U0001F4F7-media", CategoryCommunity),
	text(ChannelBotShowcase, "\U0001F916-bot-showcase", CategoryCommunity),
	text(ChannelSuggestions, "\U0001F9E0-suggestions", CategoryCommunity),
	text(ChannelHelp, "❓-help", CategoryCommunity),
	text(ChannelPartners, "\U0001F91D-partners", CategoryCommunity),
	text(ChannelGames, "\U0001F3B2-games", CategoryCommunity),
	text(ChannelTopSupporters, "\U0001F3C6-top-supporters", CategoryCommunity),

	text(ChannelHowToUse, "\U0001F4D8-how-to-use-the-bot", CategoryBotSupport),
	text(ChannelChangelogs, "\U0001F4C2-bot-changelogs", CategoryBotSupport),
	text(ChannelIntegrations, "\U0001F9E9-integrations", CategoryBotSupport),
	text(ChannelBugReports, "\U0001F41E-bug-reports", CategoryBotSupport),
	text(ChannelFeatureRequests, "✅-feature-requests", CategoryBotSupport),
	text(ChannelBetaTesting, "\U0001F9EA-beta-testing", CategoryBotSupport),

	text(ChannelTicketCreate, "\U0001F3AB-ticket-create", CategoryTickets),

	voice(ChannelGeneralVoice, "\U0001F4AC General Voice", CategoryVoiceHangouts),
	voice(ChannelGaming1, "\U0001F3AE Gaming 1", CategoryVoiceHangouts),
	voice(ChannelGaming2, "\U0001F3AE Gaming 2", CategoryVoiceHangouts),
	voice(ChannelMeetingRoom, "\U0001F399 Meeting Room", CategoryVoiceHangouts),
	voice(ChannelAFK, "\U0001F6CC AFK", CategoryVoiceHangouts),
	voice(ChannelBotVoice, "\U0001F50A "+VoiceMarker, CategoryVoiceHangouts),

	text(ChannelStaffChat, "\U0001F4C1-staff-chat", CategoryStaffArea),
	text(ChannelModLog, "\U0001F6E1-mod-log", CategoryStaffArea),
	text(ChannelAdminLog, "\U0001F4DD-admin-log", CategoryStaffArea),
	text(ChannelSecurityAlerts, "\U0001F6A8-security-alerts", CategoryStaffArea),
	text(ChannelTicketLog, "\U0001F4CA-ticket-log", CategoryStaffArea),

	text(ChannelJoinLeaveLog, "\U0001F464-join-leave-log", CategoryLogs),
	text(ChannelCommandLog, "\U0001F527-command-log", CategoryLogs),
	text(ChannelMessageLog, "\U0001F9F9-message-log", CategoryLogs),
	text(ChannelWarningLog, "⚠️-warning-log", CategoryLogs),
}

// Overwrites returns the permission overwrites of a private category given the created role IDs.
// Role keys without an ID are skipped and returned as missing.
func (c ChannelSpec) Overwrites(guildID string, roleIDs map[string]string) (overwrites []*discordgo.PermissionOverwrite, missing []string) {
	if !c.Private() {
		return nil, nil
	}

	overwrites = append(overwrites, &discordgo.PermissionOverwrite{
		ID:   guildID,
		Type: discordgo.PermissionOverwriteTypeRole,
		Deny: discordgo.PermissionViewChannel,
	})

	for _, key := range c.VisibleTo {
		id, ok := roleIDs[key]
		if !ok || id == "" {
			missing = append(missing, key)
			continue
		}
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    id,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel,
		})
	}
	return overwrites, missing
}
