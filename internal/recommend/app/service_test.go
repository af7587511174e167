package app

import (
	"context"
	"errors"
	"testing"

	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	"github.com/dwikikusuma/bookverse/internal/catalog/infra/sample"
	user "github.com/dwikikusuma/bookverse/internal/user/domain"
	"github.com/dwikikusuma/bookverse/pkg/logger"
)

type fakeUsers struct {
	users map[string]user.User
	err   error
}

func (f fakeUsers) Get(ctx context.Context, username string) (user.User, bool, error) {
	if f.err != nil {
		return user.User{}, false, f.err
	}
	u, ok := f.users[username]
	return u, ok, nil
}

type fakeCatalog struct {
	items []catalog.Item
}

func (f fakeCatalog) Snapshot() []catalog.Item { return f.items }
func (f fakeCatalog) Fallback() []catalog.Item { return sample.Books() }

func TestRecommend(t *testing.T) {
	books := sample.Books()
	users := fakeUsers{users: map[string]user.User{
		"alice": {Username: "alice", Preferences: user.Preferences{FavoriteGenres: []string{books[5].Genre}}},
	}}

	tests := []struct {
		name      string
		users     fakeUsers
		items     []catalog.Item
		username  string
		wantFirst string
	}{
		{name: "anonymous", users: users, items: books, username: "", wantFirst: books[0].ID},
		{name: "unknown user", users: users, items: books, username: "ghost", wantFirst: books[0].ID},
		{name: "lookup error", users: fakeUsers{err: errors.New("disk gone")}, items: books, username: "alice", wantFirst: books[0].ID},
		{name: "personalized", users: users, items: books, username: "alice", wantFirst: firstOfGenre(books, books[5].Genre)},
		{name: "empty catalog uses sample", users: users, items: nil, username: "", wantFirst: books[0].ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.users, fakeCatalog{items: tt.items}, 0, logger.Discard())
			got, err := svc.Recommend(context.Background(), tt.username)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) == 0 {
				t.Fatal("expected recommendations")
			}
			if got[0].ID != tt.wantFirst {
				t.Fatalf("first = %s, want %s", got[0].ID, tt.wantFirst)
			}
		})
	}
}

func TestRecommendLimit(t *testing.T) {
	svc := NewService(fakeUsers{}, fakeCatalog{items: sample.Books()}, 3, logger.Discard())
	got, _ := svc.Recommend(context.Background(), "")
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
}

func TestRecommendCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewService(fakeUsers{}, fakeCatalog{items: sample.Books()}, 0, logger.Discard())
	if _, err := svc.Recommend(ctx, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func firstOfGenre(items []catalog.Item, genre string) string {
	for _, it := range items {
		if it.Genre == genre {
			return it.ID
		}
	}
	return ""
}
