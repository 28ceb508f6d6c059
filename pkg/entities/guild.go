package entities

import "time"

// GuildTopology is the provisioned structure of a guild.
type GuildTopology struct {
	// GuildID is the ID of the guild.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// RunID is the ID of the setup run that built the topology. Empty when discovered.
	RunID string `json:"run_id" bson:"run_id"`

	// VoiceChannelID is the ID of the always-on voice channel.
	VoiceChannelID string `json:"voice_channel_id" bson:"voice_channel_id"`

	// TicketCategoryID is the ID of the category that ticket channels are created in.
	TicketCategoryID string `json:"ticket_category_id" bson:"ticket_category_id"`

	// Roles maps a role key to the created role ID.
	Roles map[string]string `json:"roles" bson:"roles"`

	// Categories maps a category key to the created category ID.
	Categories map[string]string `json:"categories" bson:"categories"`

	// Channels maps a channel key to the created channel ID.
	Channels map[string]string `json:"channels" bson:"channels"`

	// ProvisionedAt is when the topology was committed.
	ProvisionedAt time.Time `json:"provisioned_at" bson:"provisioned_at"`
}

// Role returns the ID of the role with the given key.
func (t *GuildTopology) Role(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	id, ok := t.Roles[key]
	return id, ok && id != ""
}

// Channel returns the ID of the channel or category with the given key.
func (t *GuildTopology) Channel(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	if id, ok := t.Channels[key]; ok && id != "" {
		return id, true
	}
	id, ok := t.Categories[key]
	return id, ok && id != ""
}

// Clone returns a deep copy of the topology.
func (t *GuildTopology) Clone() *GuildTopology {
	if t == nil {
		return nil
	}
	c := *t
	c.Roles = cloneMap(t.Roles)
	c.Categories = cloneMap(t.Categories)
	c.Channels = cloneMap(t.Channels)
	return &c
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
