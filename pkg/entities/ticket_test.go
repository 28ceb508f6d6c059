package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeHandle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "mixed", in: "Jane D. O'Brien!", want: "jane-d-obrien"},
		{name: "already", in: "wolf", want: "wolf"},
		{name: "digits", in: "User_123", want: "user123"},
		{name: "hyphens", in: "--a  -- b--", want: "a-b"},
		{name: "symbols only", in: "✨✨", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeHandle(tt.in)
			require.Equal(t, tt.want, got)
			require.Regexp(t, `^[a-z0-9-]*$`, got)
		})
	}
}

func TestTicketChannelName(t *testing.T) {
	h := NormalizeHandle("Jane D. O'Brien!")
	require.Equal(t, "ticket-jane-d-obrien", TicketChannelName(TicketCategoryGeneral, h))
	require.Equal(t, "bug-jane-d-obrien", TicketChannelName(TicketCategoryBug, h))
	require.Equal(t, "partner-jane-d-obrien", TicketChannelName(TicketCategoryPartner, h))
}

func TestParseTicketCategory(t *testing.T) {
	for _, c := range TicketCategories() {
		got, err := ParseTicketCategory(string(c))
		require.NoError(t, err)
		require.Equal(t, c, got)
	}

	_, err := ParseTicketCategory("refund")
	require.Error(t, err)
}

func TestIsTicketChannelName(t *testing.T) {
	require.True(t, IsTicketChannelName("ticket-wolf"))
	require.True(t, IsTicketChannelName("partner-wolf"))
	require.False(t, IsTicketChannelName("\U0001F3AB-ticket-create"))
	require.False(t, IsTicketChannelName("general"))
}

func TestGuildTopology_Clone(t *testing.T) {
	orig := &GuildTopology{
		GuildID:  "g",
		Roles:    map[string]string{"owner": "1"},
		Channels: map[string]string{"rules": "2"},
	}

	c := orig.Clone()
	c.Roles["owner"] = "changed"

	require.Equal(t, "1", orig.Roles["owner"])
	id, ok := c.Channel("rules")
	require.True(t, ok)
	require.Equal(t, "2", id)

	var nilTopology *GuildTopology
	_, ok = nilTopology.Role("owner")
	require.False(t, ok)
}
