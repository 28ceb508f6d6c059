package topology

import "github.com/Jacobbrewer1/discordgo"

// Role keys.
const (
	RoleSystem      = "system"
	RoleOwner       = "owner"
	RoleHeadAdmin   = "headAdmin"
	RoleAdmin       = "admin"
	RoleModerator   = "moderator"
	RoleSupportTeam = "supportTeam"
	RoleSecurity    = "security"
	RolePartner     = "partner"
	RoleVIP         = "vip"
	RoleBooster     = "booster"
	RoleVerified    = "verified"
	RoleMember      = "member"
	RoleBot         = "bot"
)

// RoleSpec describes a role that setup creates.
type RoleSpec struct {
	Key         string
	Name        string
	Color       int
	Hoist       bool
	Mentionable bool
	Permissions int64
}

// Params returns the platform parameters that create the role.
func (r RoleSpec) Params() *discordgo.RoleParams {
	hoist := r.Hoist
	mentionable := r.Mentionable
	perms := r.Permissions

	p := &discordgo.RoleParams{
		Name:        r.Name,
		Hoist:       &hoist,
		Mentionable: &mentionable,
		Permissions: &perms,
	}
	if r.Color != 0 {
		color := r.Color
		p.Color = &color
	}
	return p
}

const (
	adminPermissions = discordgo.PermissionManageChannels |
		discordgo.PermissionManageServer |
		discordgo.PermissionKickMembers |
		discordgo.PermissionBanMembers |
		discordgo.PermissionManageMessages

	moderatorPermissions = discordgo.PermissionManageMessages |
		discordgo.PermissionVoiceMuteMembers |
		discordgo.PermissionVoiceDeafenMembers |
		discordgo.PermissionVoiceMoveMembers |
		discordgo.PermissionManageNicknames
)

// Roles is the ordered list of roles created by setup. The order is the resulting display order.
var Roles = []RoleSpec{
	{Key: RoleSystem, Name: "\U0001F916 System", Hoist: true, Permissions: discordgo.PermissionAdministrator},
	{Key: RoleOwner, Name: "\U0001F451 Owner", Hoist: true, Permissions: discordgo.PermissionAdministrator},
	{Key: RoleHeadAdmin, Name: "\U0001F6E1 Head Admin", Hoist: true, Permissions: discordgo.PermissionAdministrator},
	{Key: RoleAdmin, Name: "⚔️ Admin", Hoist: true, Permissions: adminPermissions},
	{Key: RoleModerator, Name: "\U0001F527 Moderator", Hoist: true, Permissions: moderatorPermissions},
	{Key: RoleSupportTeam, Name: "\U0001F3AB Support Team", Hoist: true, Permissions: discordgo.PermissionManageMessages},
	{Key: RoleSecurity, Name: "\U0001F6E1 Security", Hoist: true, Permissions: discordgo.PermissionManageMessages},
	{Key: RolePartner, Name: "\U0001F91D Partner", Color: 0x00ffea},
	{Key: RoleVIP, Name: "\U0001F31F VIP", Color: 0xffd700},
	{Key: RoleBooster, Name: "\U0001F48E Booster", Color: 0xff73fa},
	{Key: RoleVerified, Name: "✅ Verified", Color: 0x00ff87},
	{Key: RoleMember, Name: "\U0001F465 Member", Color: 0xffffff},
	{Key: RoleBot, Name: "\U0001F916 Bot", Color: 0x5865f2},
}
