package entities

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TicketState is the lifecycle state of a ticket.
type TicketState string

const (
	// TicketStateOpen is a ticket whose channel exists and accepts messages.
	TicketStateOpen TicketState = "OPEN"

	// TicketStateClosing is a ticket whose channel is scheduled for deletion.
	TicketStateClosing TicketState = "CLOSING"
)

// TicketCategory is the kind of ticket a user opened.
type TicketCategory string

const (
	TicketCategoryGeneral TicketCategory = "general"
	TicketCategoryBug     TicketCategory = "bug"
	TicketCategoryPartner TicketCategory = "partner"
)

var ticketPrefixes = map[TicketCategory]string{
	TicketCategoryGeneral: "ticket",
	TicketCategoryBug:     "bug",
	TicketCategoryPartner: "partner",
}

// TicketCategories returns the categories in menu order.
func TicketCategories() []TicketCategory {
	return []TicketCategory{TicketCategoryGeneral, TicketCategoryBug, TicketCategoryPartner}
}

// ParseTicketCategory parses a category key.
func ParseTicketCategory(s string) (TicketCategory, error) {
	c := TicketCategory(s)
	if _, ok := ticketPrefixes[c]; !ok {
		return "", fmt.Errorf("unknown ticket category %q", s)
	}
	return c, nil
}

// Prefix returns the channel name prefix for the category.
func (c TicketCategory) Prefix() string {
	return ticketPrefixes[c]
}

// Ticket is a private support channel opened by a user.
type Ticket struct {
	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// ChannelID is the ID of the channel that the ticket is in.
	// The channel is the ticket's identity.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// ChannelName is the name the channel was created with.
	ChannelName string `json:"channel_name" bson:"channel_name"`

	// OpenerUserID is the ID of the user that opened the ticket.
	OpenerUserID string `json:"opener_user_id" bson:"opener_user_id"`

	// Category is the kind of ticket.
	Category TicketCategory `json:"category" bson:"category"`

	// State is the lifecycle state.
	State TicketState `json:"state" bson:"state"`

	// OpenedAt is when the ticket channel was created.
	OpenedAt time.Time `json:"opened_at" bson:"opened_at"`
}

var (
	whitespace    = regexp.MustCompile(`\s+`)
	invalidHandle = regexp.MustCompile(`[^a-z0-9-]`)
	hyphens       = regexp.MustCompile(`-{2,}`)
)

// NormalizeHandle lowercases the name and strips everything that is not allowed in a channel name.
// For example, "Jane D. O'Brien!" becomes "jane-d-obrien".
func NormalizeHandle(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespace.ReplaceAllString(s, "-")
	s = invalidHandle.ReplaceAllString(s, "")
	s = hyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// TicketChannelName returns the channel name for a ticket of the category opened by the handle.
func TicketChannelName(c TicketCategory, handle string) string {
	return c.Prefix() + "-" + handle
}

// IsTicketChannelName reports whether the name starts with one of the ticket prefixes.
func IsTicketChannelName(name string) bool {
	for _, p := range ticketPrefixes {
		if strings.HasPrefix(name, p+"-") {
			return true
		}
	}
	return false
}
