package chathub

import "ghostnseek/backend/internal/models"

// Client is the interface for any type of connection to the hub. It abstracts
// the underlying transport so the hub can manage client types uniformly.
type Client interface {
	// GetUserID returns the anonymous identifier of the connected user.
	GetUserID() string
	// GetSessionID returns the identifier of the chat session the client is
	// currently in, or "" while unmatched.
	GetSessionID() string
	// SetSessionID assigns the client to a session. Called by the matcher
	// after a successful pairing.
	SetSessionID(string)

	// GetSendChannel returns the channel the hub writes messages intended for
	// this specific client to. It is a send-only channel.
	GetSendChannel() chan<- models.ChatMessage

	// Run starts the client's read and write pumps.
	Run()
	// Close gracefully shuts down the client's connection and channels.
	Close()
}
