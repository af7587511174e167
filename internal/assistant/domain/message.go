package domain

import (
	"time"

	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one conversation turn. Items carries the books the assistant
// attached to its reply, if any.
type Message struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Items     []catalog.Item `json:"items,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Reply is what the conversational endpoint hands back for one turn.
type Reply struct {
	Text  string         `json:"text"`
	Items []catalog.Item `json:"items"`

	// Fallback is set when the reply was produced locally because the
	// endpoint could not be reached.
	Fallback bool `json:"fallback,omitempty"`
}

// ApologyText is the canned reply used when the endpoint is unavailable.
const ApologyText = "Sorry, I'm having trouble reaching the assistant right now. Please try again in a moment."

func Apology() Reply {
	return Reply{Text: ApologyText, Items: []catalog.Item{}, Fallback: true}
}
