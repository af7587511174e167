package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	assistant "github.com/dwikikusuma/bookverse/internal/assistant/domain"
	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	"github.com/dwikikusuma/bookverse/internal/user/domain"
	"github.com/dwikikusuma/bookverse/pkg/validation"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrWrongPassword     = errors.New("wrong password")
	ErrPersistence       = errors.New("user store write failed")
)

// MaxTranscript caps the stored chat transcript; older turns are dropped first.
const MaxTranscript = 200

type RegisterInput struct {
	Username string `validate:"required,min=3,max=32,username"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=6,max=72"`
}

// Patch lists the fields Update may replace. Nil fields are left untouched.
type Patch struct {
	Preferences    *domain.Preferences
	Wishlist       *[]domain.WishlistEntry
	ChatTranscript *[]assistant.Message
}

type Service struct {
	repo   UserRepo
	hasher PasswordHasher
	log    *slog.Logger
	now    func() time.Time
}

func NewService(repo UserRepo, hasher PasswordHasher, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		log:    log.With("component", "users"),
		now:    time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := validation.Struct(in); err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		Username:       in.Username,
		Email:          in.Email,
		PasswordHash:   hash,
		Preferences:    domain.Preferences{FavoriteGenres: []string{}},
		Wishlist:       []domain.WishlistEntry{},
		ChatTranscript: []assistant.Message{},
		CreatedAt:      s.now().UTC(),
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateUsername) || errors.Is(err, ErrDuplicateEmail) {
			return domain.User{}, err
		}
		return domain.User{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.log.Info("user registered", slog.String("username", u.Username))
	return u, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	u, err := s.repo.Get(ctx, strings.TrimSpace(username))
	if err != nil {
		return domain.User{}, err
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, ErrWrongPassword) {
			return domain.User{}, ErrWrongPassword
		}
		return domain.User{}, fmt.Errorf("compare password: %w", err)
	}
	return u, nil
}

// Get returns the record and whether it exists.
func (s *Service) Get(ctx context.Context, username string) (domain.User, bool, error) {
	u, err := s.repo.Get(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return u, true, nil
}

// Update merges p into the stored record. A missing username is a silent
// no-op; callers that need to observe absence must call Get first.
func (s *Service) Update(ctx context.Context, username string, p Patch) error {
	err := s.repo.Update(ctx, username, func(u *domain.User) error {
		if p.Preferences != nil {
			prefs := *p.Preferences
			prefs.FavoriteGenres = domain.NormalizeGenres(prefs.FavoriteGenres)
			u.Preferences = prefs
		}
		if p.Wishlist != nil {
			u.Wishlist = append([]domain.WishlistEntry{}, (*p.Wishlist)...)
		}
		if p.ChatTranscript != nil {
			u.ChatTranscript = capTranscript(append([]assistant.Message{}, (*p.ChatTranscript)...))
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return s.persistErr(err)
}

// SetPreferences replaces the user's preferences, reporting ErrNotFound.
func (s *Service) SetPreferences(ctx context.Context, username string, prefs domain.Preferences) (domain.Preferences, error) {
	if prefs.PriceRange.Min < 0 || prefs.PriceRange.Max < 0 ||
		(prefs.PriceRange.Max > 0 && prefs.PriceRange.Max < prefs.PriceRange.Min) {
		return domain.Preferences{}, fmt.Errorf("%w: bad price range", ErrInvalidInput)
	}
	prefs.FavoriteGenres = domain.NormalizeGenres(prefs.FavoriteGenres)

	err := s.repo.Update(ctx, username, func(u *domain.User) error {
		u.Preferences = prefs
		return nil
	})
	if err != nil {
		return domain.Preferences{}, s.persistErr(err)
	}
	return prefs, nil
}

// AddToWishlist returns false without writing when the item is already there.
func (s *Service) AddToWishlist(ctx context.Context, username string, item catalog.Item) (bool, error) {
	if strings.TrimSpace(item.ID) == "" {
		return false, ErrInvalidInput
	}

	added := false
	err := s.repo.Update(ctx, username, func(u *domain.User) error {
		if u.HasWishlisted(item.ID) {
			return nil
		}
		u.Wishlist = append(u.Wishlist, domain.WishlistEntry{
			CatalogID: item.ID,
			Title:     item.Title,
			Author:    item.Author,
			Price:     item.Price,
			ImageURL:  item.ImageURL,
			Genre:     item.Genre,
			AddedAt:   s.now().UTC(),
		})
		added = true
		return nil
	})
	if err != nil {
		return false, s.persistErr(err)
	}
	return added, nil
}

// RemoveFromWishlist drops every entry for catalogID. Removing an id that is
// not listed succeeds.
func (s *Service) RemoveFromWishlist(ctx context.Context, username, catalogID string) error {
	err := s.repo.Update(ctx, username, func(u *domain.User) error {
		kept := u.Wishlist[:0]
		for _, e := range u.Wishlist {
			if e.CatalogID != catalogID {
				kept = append(kept, e)
			}
		}
		u.Wishlist = kept
		return nil
	})
	return s.persistErr(err)
}

func (s *Service) Wishlist(ctx context.Context, username string) ([]domain.WishlistEntry, error) {
	u, err := s.repo.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return u.Wishlist, nil
}

// AppendChat adds turns to the stored transcript.
func (s *Service) AppendChat(ctx context.Context, username string, msgs ...assistant.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	err := s.repo.Update(ctx, username, func(u *domain.User) error {
		u.ChatTranscript = capTranscript(append(u.ChatTranscript, msgs...))
		return nil
	})
	return s.persistErr(err)
}

func capTranscript(msgs []assistant.Message) []assistant.Message {
	if n := len(msgs); n > MaxTranscript {
		return append([]assistant.Message(nil), msgs[n-MaxTranscript:]...)
	}
	return msgs
}

func (s *Service) persistErr(err error) error {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	s.log.Error("user store write failed", slog.Any("err", err))
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
