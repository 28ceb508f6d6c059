package logging

const (
	// KeyApp is the key for the application name.
	KeyApp = "app"

	// KeyError is the key for an error.
	KeyError = "err"

	// KeyDal is the key for the data access layer name.
	KeyDal = "dal"

	// KeyComponent is the key for the component that produced the record.
	KeyComponent = "component"

	// KeyGuildID is the key for a guild ID.
	KeyGuildID = "guild_id"

	// KeyChannelID is the key for a channel ID.
	KeyChannelID = "channel_id"

	// KeyUserID is the key for a user ID.
	KeyUserID = "user_id"

	// KeyRoleID is the key for a role ID.
	KeyRoleID = "role_id"

	// KeyPhase is the key for a provisioning phase.
	KeyPhase = "phase"

	// KeyRunID is the key for a setup run ID.
	KeyRunID = "run_id"
)
