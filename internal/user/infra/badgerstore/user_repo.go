package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/dwikikusuma/bookverse/internal/user/app"
	"github.com/dwikikusuma/bookverse/internal/user/domain"
)

const (
	userKeyPrefix  = "user:"
	emailKeyPrefix = "email:"
)

// UserRepo stores one JSON document per user plus an email -> username
// index. Writers are serialized by mu so a read-modify-write never races
// another one into a badger conflict.
type UserRepo struct {
	db *badger.DB
	mu sync.Mutex
}

func NewUserRepo(db *badger.DB) *UserRepo {
	return &UserRepo{db: db}
}

func userKey(username string) []byte { return []byte(userKeyPrefix + username) }
func emailKey(email string) []byte   { return []byte(emailKeyPrefix + email) }

func (r *UserRepo) Create(ctx context.Context, u domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.db.Update(func(txn *badger.Txn) error {
		if exists, err := has(txn, userKey(u.Username)); err != nil {
			return err
		} else if exists {
			return app.ErrDuplicateUsername
		}

		if exists, err := has(txn, emailKey(u.Email)); err != nil {
			return err
		} else if exists {
			return app.ErrDuplicateEmail
		}

		if err := txn.Set(userKey(u.Username), data); err != nil {
			return fmt.Errorf("set user: %w", err)
		}
		if err := txn.Set(emailKey(u.Email), []byte(u.Username)); err != nil {
			return fmt.Errorf("set email index: %w", err)
		}
		return nil
	})
}

func (r *UserRepo) Get(ctx context.Context, username string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	var u domain.User
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		u, err = read(txn, username)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *UserRepo) Update(ctx context.Context, username string, fn func(u *domain.User) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.db.Update(func(txn *badger.Txn) error {
		u, err := read(txn, username)
		if err != nil {
			return err
		}

		if err := fn(&u); err != nil {
			return err
		}
		// The key and the email index are fixed at registration.
		u.Username = username

		data, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		if err := txn.Set(userKey(username), data); err != nil {
			return fmt.Errorf("set user: %w", err)
		}
		return nil
	})
}

func read(txn *badger.Txn, username string) (domain.User, error) {
	item, err := txn.Get(userKey(username))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, app.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}

	var u domain.User
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &u)
	}); err != nil {
		return domain.User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

func has(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
