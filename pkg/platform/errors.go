package platform

import (
	"errors"
	"net/http"

	"github.com/Jacobbrewer1/discordgo"
)

// ErrNotFound is returned when the requested platform object does not exist.
var ErrNotFound = errors.New("not found")

// ErrGatewayClosed is returned when a call needs the gateway connection and it is not open.
var ErrGatewayClosed = errors.New("gateway connection is not open")

// IsNotFound reports whether err means that the object no longer exists on the platform.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}

	restErr := new(discordgo.RESTError)
	if !errors.As(err, &restErr) {
		return false
	}

	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return true
	}

	if restErr.Message == nil {
		return false
	}

	switch restErr.Message.Code {
	case discordgo.ErrCodeUnknownChannel,
		discordgo.ErrCodeUnknownRole,
		discordgo.ErrCodeUnknownMessage,
		discordgo.ErrCodeUnknownMember,
		discordgo.ErrCodeUnknownGuild:
		return true
	}
	return false
}
