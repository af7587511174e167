// Package rules is the offline assistant: a keyword bot over the current
// catalog, used when no conversational endpoint is configured.
package rules

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/dwikikusuma/bookverse/internal/assistant/domain"
	cart "github.com/dwikikusuma/bookverse/internal/cart/domain"
	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
)

const (
	greeting = "Hello! Welcome to BookVerse 📚 How can I help you find your next great read?"
	help     = "I'm here to help you find books! Try asking: 'Recommend science fiction' or 'Find Dune' or 'What's in my cart?'"
)

// Genre keywords are checked in this order; the first hit wins.
var genreKeywords = []struct{ key, genre string }{
	{"science fiction", "Science Fiction"},
	{"scifi", "Science Fiction"},
	{"sci-fi", "Science Fiction"},
	{"fiction", "Fiction"},
	{"self-help", "Self-Help"},
	{"history", "History"},
	{"literary", "Literary Fiction"},
	{"novel", "Fiction"},
}

type Catalog interface {
	Snapshot() []catalog.Item
}

type Bot struct {
	catalog Catalog
}

func New(c Catalog) *Bot {
	return &Bot{catalog: c}
}

// Converse answers the last user turn in transcript.
func (b *Bot) Converse(ctx context.Context, transcript []domain.Message, lines []cart.Line) (domain.Reply, error) {
	if err := ctx.Err(); err != nil {
		return domain.Reply{}, err
	}

	var input string
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role == domain.RoleUser {
			input = strings.ToLower(transcript[i].Content)
			break
		}
	}
	return b.answer(input, lines), nil
}

func (b *Bot) answer(input string, lines []cart.Line) domain.Reply {
	words := tokens(input)
	books := b.catalog.Snapshot()

	if words["hi"] || words["hello"] || words["hey"] || strings.Contains(input, "good morning") {
		return text(greeting)
	}

	if strings.Contains(input, "book called") || words["by"] || words["find"] {
		for _, it := range books {
			if contains(input, it.Title) || contains(input, it.Author) {
				msg := fmt.Sprintf("Found it! ✨\n**%s** by %s\nPrice: %s\nGenre: %s\n\n%s",
					it.Title, it.Author, it.Price, it.Genre, it.Description)
				return domain.Reply{Text: msg, Items: []catalog.Item{it}}
			}
		}
	}

	for _, gk := range genreKeywords {
		if !strings.Contains(input, gk.key) {
			continue
		}
		var picks []catalog.Item
		for _, it := range books {
			if it.Genre == gk.genre {
				picks = append(picks, it)
				if len(picks) == 3 {
					break
				}
			}
		}
		if len(picks) == 0 {
			return text(fmt.Sprintf("Sorry, no %s books in stock right now.", gk.genre))
		}
		return domain.Reply{Text: fmt.Sprintf("Here are some great %s books:\n%s", gk.genre, bullets(picks)), Items: picks}
	}

	if words["cart"] || words["basket"] {
		if len(lines) == 0 {
			return text("Your cart is empty. Want some recommendations?")
		}
		var sb strings.Builder
		total := catalog.USD(0)
		for _, l := range lines {
			fmt.Fprintf(&sb, "• %d × %s (%s)\n", l.Quantity, l.Title, l.Price)
			total = total.Add(l.Subtotal())
		}
		return text(fmt.Sprintf("Your cart has:\n%s\n**Total: %s**", sb.String(), total))
	}

	if strings.Contains(input, "recommend") || strings.Contains(input, "suggest") {
		picks := books[:min(3, len(books))]
		return domain.Reply{Text: "Here are some popular picks right now:\n" + bullets(picks), Items: picks}
	}

	return text(help)
}

func text(s string) domain.Reply {
	return domain.Reply{Text: s, Items: []catalog.Item{}}
}

func bullets(items []catalog.Item) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = fmt.Sprintf("• **%s** by %s - %s", it.Title, it.Author, it.Price)
	}
	return strings.Join(out, "\n")
}

func contains(input, field string) bool {
	field = strings.ToLower(strings.TrimSpace(field))
	return field != "" && strings.Contains(input, field)
}

// tokens splits on anything that is not a letter, digit or apostrophe.
func tokens(s string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	}) {
		out[w] = true
	}
	return out
}
