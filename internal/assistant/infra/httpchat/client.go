// Package httpchat talks to the hosted conversational endpoint.
package httpchat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/dwikikusuma/bookverse/internal/assistant/app"
	"github.com/dwikikusuma/bookverse/internal/assistant/domain"
	cart "github.com/dwikikusuma/bookverse/internal/cart/domain"
	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	"github.com/dwikikusuma/bookverse/internal/catalog/infra/httpsource"
	"github.com/dwikikusuma/bookverse/pkg/breaker"
)

const maxBody = 1 << 20

type Client struct {
	url    string
	client *http.Client
	cb     *gobreaker.CircuitBreaker[domain.Reply]
}

type Options struct {
	URL     string
	Timeout time.Duration
	Breaker breaker.Config
	Client  *http.Client
}

func New(opts Options, log *slog.Logger) *Client {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	bc := opts.Breaker
	if bc.Name == "" {
		bc.Name = "chat"
	}
	return &Client{
		url:    opts.URL,
		client: client,
		cb:     breaker.New[domain.Reply](bc, log),
	}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireCartLine struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type request struct {
	Messages []wireMessage  `json:"messages"`
	Cart     []wireCartLine `json:"cart"`
}

type response struct {
	Response        *string         `json:"response"`
	Recommendations json.RawMessage `json:"recommendations"`
}

func (c *Client) Converse(ctx context.Context, transcript []domain.Message, lines []cart.Line) (domain.Reply, error) {
	reply, err := c.cb.Execute(func() (domain.Reply, error) {
		return c.post(ctx, transcript, lines)
	})
	if err != nil {
		return domain.Reply{}, fmt.Errorf("%w: %v", app.ErrUpstreamUnavailable, err)
	}
	return reply, nil
}

func (c *Client) post(ctx context.Context, transcript []domain.Message, lines []cart.Line) (domain.Reply, error) {
	body := request{
		Messages: make([]wireMessage, 0, len(transcript)),
		Cart:     make([]wireCartLine, 0, len(lines)),
	}
	for _, m := range transcript {
		body.Messages = append(body.Messages, wireMessage{Role: string(m.Role), Content: m.Content})
	}
	for _, l := range lines {
		body.Cart = append(body.Cart, wireCartLine{
			Title:    l.Title,
			Author:   l.Author,
			Price:    l.Price.Decimal(),
			Quantity: l.Quantity,
		})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return domain.Reply{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return domain.Reply{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Reply{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Reply{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&out); err != nil {
		return domain.Reply{}, fmt.Errorf("decode reply: %w", err)
	}
	if out.Response == nil {
		return domain.Reply{}, fmt.Errorf("reply has no response field")
	}

	return domain.Reply{
		Text:  *out.Response,
		Items: recommendations(out.Recommendations),
	}, nil
}

// recommendations is best effort: a malformed list or record never costs the
// reply its text.
func recommendations(raw json.RawMessage) []catalog.Item {
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil
	}
	return httpsource.DecodeItems(records)
}
