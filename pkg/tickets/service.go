// Package tickets runs the support ticket lifecycle: NONE -> OPEN -> CLOSING -> deleted.
package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/pkg/dataaccess"
	"github.com/Jacobbrewer1/den/pkg/entities"
	"github.com/Jacobbrewer1/den/pkg/logging"
	"github.com/Jacobbrewer1/den/pkg/messages"
	"github.com/Jacobbrewer1/den/pkg/monitoring"
	"github.com/Jacobbrewer1/den/pkg/platform"
	"github.com/Jacobbrewer1/den/pkg/registry"
	"github.com/Jacobbrewer1/den/pkg/topology"
	"golang.org/x/sync/singleflight"
)

const (
	// CloseDelay is how long a closing ticket stays before its channel is deleted.
	CloseDelay = 5 * time.Second

	// deleteTimeout bounds the deferred channel deletion.
	deleteTimeout = 10 * time.Second
)

var (
	// ErrNotTicketChannel is returned when a close is requested outside a ticket channel.
	ErrNotTicketChannel = errors.New("not a ticket channel")

	// ErrNoUser is returned when the interaction carries no user.
	ErrNoUser = errors.New("interaction has no user")
)

// OpenResult is the outcome of a ticket open request.
type OpenResult struct {
	// Ticket is the open ticket of the user.
	Ticket *entities.Ticket

	// Existing is true when the user already had an open ticket and nothing was created for this request.
	Existing bool

	// createdBy is the interaction whose press created the ticket.
	createdBy string
}

// forRequest returns the result as seen by the interaction. Presses collapsed onto another press's
// creation did not create the channel themselves.
func (r *OpenResult) forRequest(interactionID string) *OpenResult {
	res := *r
	if !res.Existing && res.createdBy != interactionID {
		res.Existing = true
	}
	return &res
}

// Service is the Ticket Lifecycle State Machine.
type Service struct {
	l         *slog.Logger
	client    platform.Client
	registry  registry.Registry
	audit     dataaccess.TicketEventDal
	scheduler Scheduler

	// opens collapses concurrent open requests of the same user into one creation.
	opens singleflight.Group

	mu      sync.Mutex
	closing map[string]struct{}

	now func() time.Time
}

// NewService creates a new ticket service.
func NewService(l *slog.Logger, client platform.Client, reg registry.Registry, audit dataaccess.TicketEventDal, scheduler Scheduler) *Service {
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}

	return &Service{
		l:         l.With(slog.String(logging.KeyComponent, "tickets")),
		client:    client,
		registry:  reg,
		audit:     audit,
		scheduler: scheduler,
		closing:   make(map[string]struct{}),
		now:       time.Now,
	}
}

func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// handleFor returns the normalized handle used in ticket channel names, falling back to the user ID.
func handleFor(u *discordgo.User) string {
	if h := entities.NormalizeHandle(u.Username); h != "" {
		return h
	}
	return u.ID
}

// Open opens a ticket of the category for the interaction's user, or points them at the ticket they already have.
func (s *Service) Open(ctx context.Context, i *discordgo.Interaction, category entities.TicketCategory) (*OpenResult, error) {
	user := interactionUser(i)
	if user == nil {
		return nil, ErrNoUser
	}

	v, err, _ := s.opens.Do(i.GuildID+":"+user.ID, func() (any, error) {
		return s.open(ctx, i, user, category)
	})
	if err != nil {
		return nil, err
	}
	res := v.(*OpenResult).forRequest(i.ID)

	content := fmt.Sprintf(messages.TicketCreated, res.Ticket.ChannelID)
	if res.Existing {
		content = fmt.Sprintf(messages.TicketExisting, res.Ticket.ChannelID)
	}
	if err := s.respondEphemeral(ctx, i, content); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Service) open(ctx context.Context, i *discordgo.Interaction, user *discordgo.User, category entities.TicketCategory) (*OpenResult, error) {
	l := s.l.With(
		slog.String(logging.KeyGuildID, i.GuildID),
		slog.String(logging.KeyUserID, user.ID),
	)

	channels, err := s.client.GuildChannels(ctx, i.GuildID)
	if err != nil {
		return nil, fmt.Errorf("error listing channels: %w", err)
	}

	topo, _ := s.registry.Get(i.GuildID)
	categoryID := s.resolveCategory(l, topo, channels, i.ChannelID)
	handle := handleFor(user)

	if existing := s.findOpen(channels, categoryID, handle); existing != nil {
		l.Debug("User already has an open ticket", slog.String(logging.KeyChannelID, existing.ID))
		return &OpenResult{
			Ticket: &entities.Ticket{
				GuildID:      i.GuildID,
				ChannelID:    existing.ID,
				ChannelName:  existing.Name,
				OpenerUserID: user.ID,
				State:        entities.TicketStateOpen,
			},
			Existing: true,
		}, nil
	}

	overwrites := []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:   i.GuildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		// The creator of the ticket can see the ticket.
		{
			ID:    user.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		},
	}
	if roleID, ok := topo.Role(topology.RoleSupportTeam); ok {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    roleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		})
	}

	name := entities.TicketChannelName(category, handle)
	channel, err := s.client.CreateChannel(ctx, i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("%s ticket opened by %s", category, user.Username),
		ParentID:             categoryID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ticket channel: %w", err)
	}

	ticket := &entities.Ticket{
		GuildID:      i.GuildID,
		ChannelID:    channel.ID,
		ChannelName:  channel.Name,
		OpenerUserID: user.ID,
		Category:     category,
		State:        entities.TicketStateOpen,
		OpenedAt:     s.now().UTC(),
	}

	if _, err := s.client.SendMessage(ctx, channel.ID, greetingMessage(user.ID, category)); err != nil {
		l.Warn("Error sending ticket greeting",
			slog.String(logging.KeyChannelID, channel.ID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	monitoring.TicketsOpened.WithLabelValues(string(category)).Inc()
	s.record(ctx, ticket.GuildID, ticket.ChannelID, user.ID, category, entities.TicketStateOpen)

	l.Info("Ticket opened",
		slog.String(logging.KeyChannelID, channel.ID),
		slog.String("category", string(category)),
	)
	return &OpenResult{Ticket: ticket, createdBy: i.ID}, nil
}

// resolveCategory returns the registered ticket category if it still exists, otherwise the parent of the
// channel the interaction came from.
func (s *Service) resolveCategory(l *slog.Logger, topo *entities.GuildTopology, channels []*discordgo.Channel, originID string) string {
	if topo != nil && topo.TicketCategoryID != "" {
		for _, c := range channels {
			if c.ID == topo.TicketCategoryID && c.Type == discordgo.ChannelTypeGuildCategory {
				return c.ID
			}
		}
		l.Warn("Registered ticket category no longer exists, using the origin channel's category",
			slog.String(logging.KeyChannelID, topo.TicketCategoryID),
		)
	}

	for _, c := range channels {
		if c.ID == originID {
			return c.ParentID
		}
	}
	return ""
}

// findOpen returns the user's open ticket channel under the category.
func (s *Service) findOpen(channels []*discordgo.Channel, categoryID, handle string) *discordgo.Channel {
	for _, c := range channels {
		if c.Type != discordgo.ChannelTypeGuildText || c.ParentID != categoryID {
			continue
		}
		if s.isClosing(c.ID) {
			continue
		}
		for _, cat := range entities.TicketCategories() {
			if c.Name == entities.TicketChannelName(cat, handle) {
				return c
			}
		}
	}
	return nil
}

// Close acknowledges a close request from inside a ticket and schedules the channel's deletion.
func (s *Service) Close(ctx context.Context, i *discordgo.Interaction) error {
	channel, err := s.client.Channel(ctx, i.ChannelID)
	if err != nil && !platform.IsNotFound(err) {
		return fmt.Errorf("error getting channel: %w", err)
	}

	if err := checkTicketChannel(channel); err != nil {
		return s.respondEphemeral(ctx, i, messages.ErrNotTicketChannel)
	}

	var userID string
	if u := interactionUser(i); u != nil {
		userID = u.ID
	}

	ackErr := s.respondEphemeral(ctx, i, messages.TicketClosing)
	if ackErr != nil {
		s.l.Warn("Error acknowledging ticket close",
			slog.String(logging.KeyChannelID, channel.ID),
			slog.String(logging.KeyError, ackErr.Error()),
		)
	}

	if !s.markClosing(channel.ID) {
		s.l.Debug("Ticket is already closing", slog.String(logging.KeyChannelID, channel.ID))
		return nil
	}

	s.record(ctx, i.GuildID, channel.ID, userID, "", entities.TicketStateClosing)

	guildID, channelID := i.GuildID, channel.ID
	s.scheduler.AfterFunc(CloseDelay, func() {
		s.delete(guildID, channelID, userID)
	})
	return nil
}

func checkTicketChannel(c *discordgo.Channel) error {
	if c == nil || c.Type != discordgo.ChannelTypeGuildText || !entities.IsTicketChannelName(c.Name) {
		return ErrNotTicketChannel
	}
	return nil
}

func (s *Service) delete(guildID, channelID, userID string) {
	defer s.unmarkClosing(channelID)

	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()

	l := s.l.With(
		slog.String(logging.KeyGuildID, guildID),
		slog.String(logging.KeyChannelID, channelID),
	)

	if err := s.client.DeleteChannel(ctx, channelID); err != nil {
		if platform.IsNotFound(err) {
			l.Debug("Ticket channel already deleted")
		} else {
			l.Warn("Error deleting ticket channel", slog.String(logging.KeyError, err.Error()))
		}
		return
	}

	monitoring.TicketsClosed.Inc()
	l.Info("Ticket closed")
}

// KnownClosing reports whether the channel is scheduled for deletion.
func (s *Service) KnownClosing(channelID string) bool {
	return s.isClosing(channelID)
}

func (s *Service) isClosing(channelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.closing[channelID]
	return ok
}

func (s *Service) markClosing(channelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.closing[channelID]; ok {
		return false
	}
	s.closing[channelID] = struct{}{}
	return true
}

func (s *Service) unmarkClosing(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.closing, channelID)
}

func (s *Service) record(ctx context.Context, guildID, channelID, userID string, category entities.TicketCategory, state entities.TicketState) {
	if s.audit == nil {
		return
	}

	err := s.audit.SaveTicketEvent(ctx, &entities.TicketEvent{
		GuildID:   guildID,
		ChannelID: channelID,
		UserID:    userID,
		Category:  category,
		State:     state,
		At:        s.now().UTC(),
	})
	if err != nil {
		s.l.Warn("Error saving ticket event", slog.String(logging.KeyError, err.Error()))
	}
}

func (s *Service) respondEphemeral(ctx context.Context, i *discordgo.Interaction, content string) error {
	return s.client.Respond(ctx, i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: strings.TrimSpace(content),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
