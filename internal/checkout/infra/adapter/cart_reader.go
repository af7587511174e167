package adapter

import (
	"context"

	cart "github.com/dwikikusuma/bookverse/internal/cart/domain"
	"github.com/dwikikusuma/bookverse/internal/session"
)

type SessionCartReader struct {
	sessions *session.Store
}

func NewSessionCartReader(sessions *session.Store) *SessionCartReader {
	return &SessionCartReader{sessions: sessions}
}

func (r *SessionCartReader) GetCart(ctx context.Context, sessionID string) ([]cart.Line, error) {
	var lines []cart.Line
	err := r.sessions.With(ctx, sessionID, func(sess *session.Session) error {
		lines = sess.Cart.Lines()
		return nil
	})
	return lines, err
}
