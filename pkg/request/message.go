package request

import (
	"errors"
	"fmt"
)

// ErrInternalServer is returned to the client when a handler fails unexpectedly.
var ErrInternalServer = errors.New("internal server error")

// Message is a JSON message response.
type Message struct {
	Message string `json:"Message"`
}

// NewMessage creates a new Message, formatting it when args are given.
func NewMessage(message string, args ...any) *Message {
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	return &Message{
		Message: message,
	}
}
