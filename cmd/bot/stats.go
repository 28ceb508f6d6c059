package main

import (
	"fmt"
	"time"

	"github.com/Jacobbrewer1/discordgo"
)

// BotStats reports what the informational commands show.
type BotStats interface {
	// BotUser returns the user the bot is logged in as.
	BotUser() *discordgo.User

	// GuildCount returns the number of guilds the bot is in.
	GuildCount() int

	// UserCount returns the approximate number of users across the guilds.
	UserCount() int

	// Uptime returns how long the process has been running.
	Uptime() time.Duration
}

type sessionStats struct {
	s       *discordgo.Session
	started time.Time
}

func newSessionStats(s *discordgo.Session) *sessionStats {
	return &sessionStats{
		s:       s,
		started: time.Now(),
	}
}

func (st *sessionStats) BotUser() *discordgo.User {
	if st.s.State == nil {
		return nil
	}
	st.s.State.RLock()
	defer st.s.State.RUnlock()
	return st.s.State.User
}

func (st *sessionStats) GuildCount() int {
	if st.s.State == nil {
		return 0
	}
	st.s.State.RLock()
	defer st.s.State.RUnlock()
	return len(st.s.State.Guilds)
}

func (st *sessionStats) UserCount() int {
	if st.s.State == nil {
		return 0
	}
	st.s.State.RLock()
	defer st.s.State.RUnlock()

	total := 0
	for _, g := range st.s.State.Guilds {
		total += g.MemberCount
	}
	return total
}

func (st *sessionStats) Uptime() time.Duration {
	return time.Since(st.started)
}

func (st *sessionStats) guildIDs() []string {
	if st.s.State == nil {
		return nil
	}
	st.s.State.RLock()
	defer st.s.State.RUnlock()

	ids := make([]string, 0, len(st.s.State.Guilds))
	for _, g := range st.s.State.Guilds {
		ids = append(ids, g.ID)
	}
	return ids
}

// formatUptime formats d as days, hours and minutes.
func formatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}
