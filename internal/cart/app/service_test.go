package app

import (
	"context"
	"errors"
	"testing"

	catalogapp "github.com/dwikikusuma/bookverse/internal/catalog/app"
	"github.com/dwikikusuma/bookverse/internal/catalog/infra/sample"
	"github.com/dwikikusuma/bookverse/internal/cart/domain"
	"github.com/dwikikusuma/bookverse/internal/session"
	"github.com/dwikikusuma/bookverse/pkg/logger"
)

func setup() (*Service, string) {
	sessions := session.NewStore()
	svc := NewService(sessions, catalogapp.NewService(nil, sample.Books(), logger.Discard()))
	return svc, sessions.Create()
}

func TestAddItem(t *testing.T) {
	svc, sid := setup()
	ctx := context.Background()

	res, err := svc.AddItem(ctx, sid, "bk-002")
	if err != nil {
		t.Fatal(err)
	}
	if res.Quantity != 1 || res.Message != "Added Dune to cart!" {
		t.Fatalf("got %+v", res)
	}

	res, _ = svc.AddItem(ctx, sid, "bk-002")
	if res.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", res.Quantity)
	}

	if _, err := svc.AddItem(ctx, sid, "nope"); !errors.Is(err, catalogapp.ErrNotFound) {
		t.Fatalf("expected catalog ErrNotFound, got %v", err)
	}
}

func TestQuantityAndRemove(t *testing.T) {
	svc, sid := setup()
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, sid, "bk-002") // 22.50
	_, _ = svc.AddItem(ctx, sid, "bk-009") // 12.99

	if err := svc.SetQuantity(ctx, sid, 0, 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := svc.SetQuantity(ctx, sid, 0, 3); err != nil {
		t.Fatal(err)
	}

	v, _ := svc.View(ctx, sid)
	if v.Total.Amount != 3*2250+1299 || v.Count != 4 {
		t.Fatalf("got %+v", v)
	}

	if err := svc.RemoveLine(ctx, sid, 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.RemoveLine(ctx, sid, 1); !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}

	if err := svc.Clear(ctx, sid); err != nil {
		t.Fatal(err)
	}
	v, _ = svc.View(ctx, sid)
	if len(v.Lines) != 0 || v.Total.Amount != 0 {
		t.Fatalf("expected empty cart, got %+v", v)
	}
}
