package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	"github.com/dwikikusuma/bookverse/internal/order/domain"
)

type fakeRepo struct {
	orders map[string][]domain.Order
	err    error
}

func (f *fakeRepo) AppendOrder(ctx context.Context, username string, o domain.Order) error {
	if f.err != nil {
		return f.err
	}
	if f.orders == nil {
		f.orders = map[string][]domain.Order{}
	}
	f.orders[username] = append(f.orders[username], o)
	return nil
}

func (f *fakeRepo) History(ctx context.Context, username string) ([]domain.Order, error) {
	return f.orders[username], nil
}

func items() []domain.OrderItemRequest {
	return []domain.OrderItemRequest{
		{CatalogID: "bk-2", Title: "Dune", Genre: "Science Fiction", UnitPrice: catalog.USD(2250), Quantity: 2},
		{CatalogID: "bk-4", Title: "Sapiens", Genre: "History", UnitPrice: catalog.USD(1999), Quantity: 1},
	}
}

func TestRecord(t *testing.T) {
	repo := &fakeRepo{}
	rec := NewRecorder(repo)

	order, err := rec.Record(context.Background(), "alice", items())
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.False(t, order.CreatedAt.IsZero())
	assert.Equal(t, int64(2*2250+1999), order.Total.Amount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(4500), order.Items[0].LineTotal.Amount)

	hist, _ := rec.History(context.Background(), "alice")
	require.Len(t, hist, 1)
	assert.Equal(t, order.ID, hist[0].ID)
}

func TestRecordIDsAreUnique(t *testing.T) {
	rec := NewRecorder(&fakeRepo{})
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		o, err := rec.Record(context.Background(), "alice", items())
		require.NoError(t, err)
		require.False(t, seen[o.ID], "duplicate order id %s", o.ID)
		seen[o.ID] = true
	}
}

func TestRecordStoresACopy(t *testing.T) {
	repo := &fakeRepo{}
	order, err := NewRecorder(repo).Record(context.Background(), "alice", items())
	require.NoError(t, err)

	order.Items[0].Quantity = 99
	assert.Equal(t, 2, repo.orders["alice"][0].Items[0].Quantity)
}

func TestRecordValidation(t *testing.T) {
	rec := NewRecorder(&fakeRepo{})
	ctx := context.Background()

	t.Run("no items", func(t *testing.T) {
		_, err := rec.Record(ctx, "alice", nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("zero quantity", func(t *testing.T) {
		bad := items()
		bad[1].Quantity = 0
		_, err := rec.Record(ctx, "alice", bad)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("no user", func(t *testing.T) {
		_, err := rec.Record(ctx, " ", items())
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestRecordPersistenceFailure(t *testing.T) {
	disk := errors.New("disk full")
	_, err := NewRecorder(&fakeRepo{err: disk}).Record(context.Background(), "alice", items())
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, disk)
}
