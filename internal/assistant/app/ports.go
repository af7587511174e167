package app

import (
	"context"

	"github.com/dwikikusuma/bookverse/internal/assistant/domain"
	cart "github.com/dwikikusuma/bookverse/internal/cart/domain"
	"github.com/dwikikusuma/bookverse/internal/session"
)

// Client produces the assistant's next turn from the conversation so far
// and the shopper's cart.
type Client interface {
	Converse(ctx context.Context, transcript []domain.Message, cart []cart.Line) (domain.Reply, error)
}

type SessionRepo interface {
	With(ctx context.Context, id string, fn func(*session.Session) error) error
}

// TranscriptStore persists turns to a registered user's record.
type TranscriptStore interface {
	AppendChat(ctx context.Context, username string, msgs ...domain.Message) error
}
