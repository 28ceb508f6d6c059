package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/den/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/den/pkg/logging"
	"github.com/Jacobbrewer1/den/pkg/messages"
	"github.com/Jacobbrewer1/den/pkg/request"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// commandTimeout bounds a text command or a button interaction. Setup runs use their own timeout.
const commandTimeout = 30 * time.Second

// commandProcessor is the processor for text commands.
type commandProcessor func(ctx context.Context, a IApp, m *discordgo.Message, args []string) error

// buttonProcessor is the processor for button interactions. sub is the part of the custom ID after the key.
type buttonProcessor func(ctx context.Context, a IApp, i *discordgo.Interaction, sub string) error

// authOption is an option for the auth middleware. It indicates the type of authentication required.
type authOption int

const (
	// authOptionNone indicates that no authentication is required.
	authOptionNone authOption = iota
)

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(handler Controller, _ authOption, a IApp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path
			}
		} else {
			path = r.URL.Path
		}

		defer func() {
			// The status code is not available until the request has been handled.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// parseCommand splits a prefixed message into the lowercased command name and its arguments.
func parseCommand(prefix, content string) (string, []string, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}

	fields := strings.Fields(content[len(prefix):])
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// messageCreateHandler is the handler for text commands.
func messageCreateHandler(a IApp, commands map[string]commandProcessor) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		handleMessage(ctx, a, commands, m.Message)
	}
}

func handleMessage(ctx context.Context, a IApp, commands map[string]commandProcessor, m *discordgo.Message) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	name, args, ok := parseCommand(a.Config().Prefix, m.Content)
	if !ok {
		return
	}

	processor, ok := commands[name]
	if !ok {
		return
	}

	l := a.Log().With(
		slog.String("command", name),
		slog.String(logging.KeyGuildID, m.GuildID),
		slog.String(logging.KeyUserID, m.Author.ID),
	)
	l.Debug("Handling command")

	t := prometheus.NewTimer(monitoring.DiscordCommandDuration.WithLabelValues(name))
	defer t.ObserveDuration()

	defer func() {
		if rec := recover(); rec != nil {
			l.Error("Panic in command",
				slog.String(logging.KeyError, fmt.Sprint(rec)),
				slog.String("stack", string(debug.Stack())),
			)
			monitoring.TotalDiscordCommands.WithLabelValues(name, "panic").Inc()
		}
	}()

	if err := processor(ctx, a, m, args); err != nil {
		l.Error("Error processing command", slog.String(logging.KeyError, err.Error()))
		monitoring.TotalDiscordCommands.WithLabelValues(name, "error").Inc()

		if err := reply(ctx, a, m, messages.ErrUserErrorProcessing); err != nil {
			l.Error("Error replying to command", slog.String(logging.KeyError, err.Error()))
		}
		return
	}
	monitoring.TotalDiscordCommands.WithLabelValues(name, "ok").Inc()
}

// interactionHandler is the handler for button interactions. Custom IDs are key:sub pairs.
func interactionHandler(a IApp, buttons map[string]buttonProcessor) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		handleInteraction(ctx, a, buttons, i.Interaction)
	}
}

func handleInteraction(ctx context.Context, a IApp, buttons map[string]buttonProcessor, i *discordgo.Interaction) {
	if i.Type != discordgo.InteractionMessageComponent || i.GuildID == "" {
		return
	}

	key, sub, _ := strings.Cut(i.MessageComponentData().CustomID, ":")

	l := a.Log().With(
		slog.String("button", key),
		slog.String(logging.KeyGuildID, i.GuildID),
	)

	processor, ok := buttons[key]
	if !ok {
		l.Warn("No processor found for button")
		return
	}

	l.Debug("Handling interaction", slog.String("sub", sub))

	t := prometheus.NewTimer(monitoring.DiscordCommandDuration.WithLabelValues(key))
	defer t.ObserveDuration()

	defer func() {
		if rec := recover(); rec != nil {
			l.Error("Panic in interaction",
				slog.String(logging.KeyError, fmt.Sprint(rec)),
				slog.String("stack", string(debug.Stack())),
			)
			monitoring.TotalDiscordCommands.WithLabelValues(key, "panic").Inc()
		}
	}()

	if err := processor(ctx, a, i, sub); err != nil {
		l.Error("Error processing interaction", slog.String(logging.KeyError, err.Error()))
		monitoring.TotalDiscordCommands.WithLabelValues(key, "error").Inc()

		if err := respondError(ctx, a, i); err != nil {
			l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
		return
	}
	monitoring.TotalDiscordCommands.WithLabelValues(key, "ok").Inc()
}
