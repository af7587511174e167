package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	assistant "github.com/dwikikusuma/bookverse/internal/assistant/domain"
	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	"github.com/dwikikusuma/bookverse/internal/user/domain"
	"github.com/dwikikusuma/bookverse/pkg/logger"
)

// memRepo is an in-memory UserRepo for service tests.
type memRepo struct {
	mu      sync.Mutex
	users   map[string]domain.User
	failSet error
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]domain.User{}}
}

func (m *memRepo) Create(ctx context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return ErrDuplicateUsername
	}
	for _, other := range m.users {
		if other.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	m.users[u.Username] = u.Clone()
	return nil
}

func (m *memRepo) Get(ctx context.Context, username string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u.Clone(), nil
}

func (m *memRepo) Update(ctx context.Context, username string, fn func(u *domain.User) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return ErrNotFound
	}
	u = u.Clone()
	if err := fn(&u); err != nil {
		return err
	}
	if m.failSet != nil {
		return m.failSet
	}
	m.users[username] = u
	return nil
}

// plainHasher keeps tests fast; bcrypt is covered separately.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (plainHasher) Compare(hash, p string) error {
	if hash != "h:"+p {
		return ErrWrongPassword
	}
	return nil
}

func newTestService() (*Service, *memRepo) {
	repo := newMemRepo()
	return NewService(repo, plainHasher{}, logger.Discard()), repo
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	u, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.PasswordHash == "secret1" || u.PasswordHash == "" {
		t.Fatalf("password must be stored hashed, got %q", u.PasswordHash)
	}
	if len(u.Wishlist) != 0 || len(u.OrderHistory) != 0 || len(u.Preferences.FavoriteGenres) != 0 {
		t.Fatalf("new record should be empty: %+v", u)
	}

	t.Run("same username -> DuplicateUsername", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})
		if !errors.Is(err, ErrDuplicateUsername) {
			t.Fatalf("expected ErrDuplicateUsername, got %v", err)
		}
	})

	t.Run("same email -> DuplicateEmail", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "a@x.com", Password: "secret1"})
		if !errors.Is(err, ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Username: "x", Email: "nope", Password: "1"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Authenticate(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "alice", "nope"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ghost", "secret1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetIsOptional(t *testing.T) {
	svc, _ := newTestService()
	_, ok, err := svc.Get(context.Background(), "ghost")
	if err != nil || ok {
		t.Fatalf("expected (false, nil), got (%v, %v)", ok, err)
	}
}

func TestUpdateMissingUserIsNoop(t *testing.T) {
	svc, repo := newTestService()
	prefs := domain.Preferences{FavoriteGenres: []string{"Fiction"}}
	if err := svc.Update(context.Background(), "ghost", Patch{Preferences: &prefs}); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatal("update must not create records")
	}
}

func TestUpdateMergesOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	_, _ = svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})
	_, _ = svc.AddToWishlist(ctx, "alice", catalog.Item{ID: "bk-1"})

	prefs := domain.Preferences{FavoriteGenres: []string{" Fiction ", "Fiction", "History"}, Notifications: true}
	if err := svc.Update(ctx, "alice", Patch{Preferences: &prefs}); err != nil {
		t.Fatal(err)
	}

	u, _, _ := svc.Get(ctx, "alice")
	if got := strings.Join(u.Preferences.FavoriteGenres, ","); got != "Fiction,History" {
		t.Fatalf("genres not normalized: %q", got)
	}
	if len(u.Wishlist) != 1 {
		t.Fatalf("wishlist should be untouched, got %+v", u.Wishlist)
	}
}

func TestWishlist(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	_, _ = svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})
	item := catalog.Item{ID: "bk-2", Title: "Dune", Genre: "Science Fiction", Price: catalog.USD(2250)}

	t.Run("add twice yields one entry", func(t *testing.T) {
		added, err := svc.AddToWishlist(ctx, "alice", item)
		if err != nil || !added {
			t.Fatalf("first add: added=%v err=%v", added, err)
		}
		added, err = svc.AddToWishlist(ctx, "alice", item)
		if err != nil || added {
			t.Fatalf("second add should be a no-op: added=%v err=%v", added, err)
		}
		list, _ := svc.Wishlist(ctx, "alice")
		if len(list) != 1 || list[0].CatalogID != "bk-2" || list[0].AddedAt.IsZero() {
			t.Fatalf("got %+v", list)
		}
	})

	t.Run("remove absent id is a no-op success", func(t *testing.T) {
		if err := svc.RemoveFromWishlist(ctx, "alice", "nope"); err != nil {
			t.Fatalf("got %v", err)
		}
		list, _ := svc.Wishlist(ctx, "alice")
		if len(list) != 1 {
			t.Fatalf("got %+v", list)
		}
	})

	t.Run("remove present id", func(t *testing.T) {
		if err := svc.RemoveFromWishlist(ctx, "alice", "bk-2"); err != nil {
			t.Fatal(err)
		}
		list, _ := svc.Wishlist(ctx, "alice")
		if len(list) != 0 {
			t.Fatalf("got %+v", list)
		}
	})
}

func TestSetPreferencesValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	_, _ = svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})

	_, err := svc.SetPreferences(ctx, "alice", domain.Preferences{PriceRange: domain.PriceRange{Min: 500, Max: 100}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	_, err = svc.SetPreferences(ctx, "ghost", domain.Preferences{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAppendChatCapsTranscript(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	_, _ = svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})

	for i := 0; i < MaxTranscript+5; i++ {
		if err := svc.AppendChat(ctx, "alice", assistant.Message{Role: assistant.RoleUser, Content: "hi"}); err != nil {
			t.Fatal(err)
		}
	}
	u, _, _ := svc.Get(ctx, "alice")
	if len(u.ChatTranscript) != MaxTranscript {
		t.Fatalf("expected %d turns, got %d", MaxTranscript, len(u.ChatTranscript))
	}
}

func TestUpdateCapsTranscript(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	_, _ = svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})

	msgs := make([]assistant.Message, MaxTranscript+10)
	for i := range msgs {
		msgs[i] = assistant.Message{Role: assistant.RoleUser, Content: fmt.Sprintf("turn %d", i)}
	}
	if err := svc.Update(ctx, "alice", Patch{ChatTranscript: &msgs}); err != nil {
		t.Fatal(err)
	}

	u, _, _ := svc.Get(ctx, "alice")
	if len(u.ChatTranscript) != MaxTranscript {
		t.Fatalf("expected %d turns, got %d", MaxTranscript, len(u.ChatTranscript))
	}
	if got := u.ChatTranscript[0].Content; got != "turn 10" {
		t.Fatalf("oldest turns should be dropped first, first kept is %q", got)
	}
}

func TestPersistenceFailureIsWrapped(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	_, _ = svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})
	repo.failSet = errors.New("disk full")

	_, err := svc.AddToWishlist(ctx, "alice", catalog.Item{ID: "bk-1"})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: 4}
	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Compare(hash, "secret1"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := h.Compare(hash, "other"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}
