package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dwikikusuma/bookverse/internal/assistant/domain"
	cart "github.com/dwikikusuma/bookverse/internal/cart/domain"
	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	"github.com/dwikikusuma/bookverse/internal/session"
	"github.com/dwikikusuma/bookverse/pkg/metrics"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUpstreamUnavailable = errors.New("assistant upstream unavailable")
)

const (
	// MaxMessageLen bounds a single user turn, in bytes.
	MaxMessageLen = 2000

	// contextTurns is how much of the transcript is sent upstream.
	contextTurns = 40
)

type Service struct {
	client      Client
	sessions    SessionRepo
	transcripts TranscriptStore
	log         *slog.Logger
	now         func() time.Time
}

func NewService(client Client, sessions SessionRepo, transcripts TranscriptStore, log *slog.Logger) *Service {
	return &Service{
		client:      client,
		sessions:    sessions,
		transcripts: transcripts,
		log:         log.With("component", "assistant"),
		now:         time.Now,
	}
}

// Ask records the user's turn, asks the client for a reply and records that
// too. Client failures never reach the caller: the canned apology is
// returned in place of the reply.
func (s *Service) Ask(ctx context.Context, sessionID, text string) (domain.Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Reply{}, fmt.Errorf("%w: message is empty", ErrInvalidInput)
	}
	if len(text) > MaxMessageLen {
		return domain.Reply{}, fmt.Errorf("%w: message longer than %d bytes", ErrInvalidInput, MaxMessageLen)
	}

	question := domain.Message{Role: domain.RoleUser, Content: text, Timestamp: s.now().UTC()}

	var (
		transcript []domain.Message
		lines      []cart.Line
		username   string
	)
	err := s.sessions.With(ctx, sessionID, func(sess *session.Session) error {
		sess.Transcript = append(sess.Transcript, question)
		transcript = slices.Clone(sess.Transcript[max(0, len(sess.Transcript)-contextTurns):])
		lines = sess.Cart.Lines()
		username = sess.Username
		return nil
	})
	if err != nil {
		return domain.Reply{}, err
	}

	// The session is not held while waiting on the client.
	reply, err := s.client.Converse(ctx, transcript, lines)
	if err != nil {
		metrics.UpstreamFailures.WithLabelValues("chat").Inc()
		s.log.Warn("assistant unavailable, sending apology", slog.String("session_id", sessionID), slog.Any("err", err))
		reply = domain.Apology()
	}
	if reply.Items == nil {
		reply.Items = []catalog.Item{}
	}

	answer := domain.Message{
		Role:      domain.RoleAssistant,
		Content:   reply.Text,
		Items:     reply.Items,
		Timestamp: s.now().UTC(),
	}

	err = s.sessions.With(ctx, sessionID, func(sess *session.Session) error {
		// A logout or user switch while waiting wiped the transcript.
		if sess.Username == username {
			sess.Transcript = append(sess.Transcript, answer)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("session gone before reply was stored", slog.String("session_id", sessionID), slog.Any("err", err))
	}

	if username != "" && s.transcripts != nil {
		if err := s.transcripts.AppendChat(ctx, username, question, answer); err != nil {
			s.log.Error("persist chat transcript failed", slog.String("username", username), slog.Any("err", err))
		}
	}

	return reply, nil
}

// Transcript returns the session's conversation so far.
func (s *Service) Transcript(ctx context.Context, sessionID string) ([]domain.Message, error) {
	var out []domain.Message
	err := s.sessions.With(ctx, sessionID, func(sess *session.Session) error {
		out = slices.Clone(sess.Transcript)
		return nil
	})
	if out == nil {
		out = []domain.Message{}
	}
	return out, err
}
