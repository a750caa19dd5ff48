// Package command delivers lock and de-vitalize commands to the guard over a
// same-origin broadcast, a mirrored state file, and a remote push/poll channel.
package command

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type is the command carried by a Message.
type Type string

const (
	TypeLock       Type = "LOCK_COMMAND"
	TypeDeVitalize Type = "DE_VITALIZE"
)

// DefaultChannel is the broadcast channel name.
const DefaultChannel = "sovereign:lock"

// Transport names the path a command arrived on.
type Transport string

const (
	TransportBroadcast Transport = "broadcast"
	TransportStorage   Transport = "storage"
	TransportPush      Transport = "push"
	TransportPoll      Transport = "poll"
)

// Message is the wire form shared by every transport.
type Message struct {
	Command   Type      `json:"command"`
	AuthToken string    `json:"auth_token,omitempty"`
	ID        string    `json:"id,omitempty"`
	IssuedAt  time.Time `json:"issued_at,omitzero"`
}

// NewLock builds a lock command with a fresh id.
func NewLock(now time.Time) Message {
	return Message{Command: TypeLock, ID: uuid.NewString(), IssuedAt: now.UTC()}
}

func decode(raw []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return Message{}, fmt.Errorf("decode command: %w", err)
	}
	if m.Command == "" {
		return Message{}, fmt.Errorf("decode command: missing command")
	}
	return m, nil
}

// tokenMatches compares the payload token against the expected static secret
// in constant time. An empty expected token never matches.
func tokenMatches(expected, got string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}

// Event is what subscribers receive.
type Event struct {
	Type      Type
	Transport Transport
	Message   Message
}
