package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-print-orders/internal/common"
	"photo-print-orders/internal/models"
	"photo-print-orders/internal/store"
)

func openStore(t *testing.T) (*store.SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st, path
}

func item(id, format string, quantity int, createdAt time.Time) models.PhotoOrderItem {
	return models.PhotoOrderItem{
		ID:        id,
		Name:      id + ".jpg",
		Format:    format,
		Quantity:  quantity,
		Content:   []byte("bytes-" + id),
		CreatedAt: createdAt,
	}
}

func TestOpenUnusableDirectory(t *testing.T) {
	_, err := store.Open(filepath.Join(t.TempDir(), "missing", "orders.db"))
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestPutGetRoundtrip(t *testing.T) {
	st, _ := openStore(t)
	ctx := context.Background()

	original := item("p1", "10x15", 2, time.Now())
	require.NoError(t, st.Put(ctx, original))

	got, err := st.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, original.Name, got.Name)
	assert.Equal(t, original.Format, got.Format)
	assert.Equal(t, original.Quantity, got.Quantity)
	assert.Equal(t, original.Content, got.Content)
}

func TestGetMissing(t *testing.T) {
	st, _ := openStore(t)

	_, err := st.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPutIsIdempotentUpsert(t *testing.T) {
	st, _ := openStore(t)
	ctx := context.Background()
	createdAt := time.Now()

	require.NoError(t, st.Put(ctx, item("p1", "10x15", 1, createdAt)))
	require.NoError(t, st.Put(ctx, item("p1", "21x30", 3, createdAt)))

	got, err := st.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "21x30", got.Format)
	assert.Equal(t, 3, got.Quantity)

	all, err := st.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetAllAndClear(t *testing.T) {
	st, _ := openStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, st.Put(ctx, item("p1", "10x15", 1, now)))
	require.NoError(t, st.Put(ctx, item("p2", "13x18", 2, now.Add(time.Second))))

	all, err := st.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, st.Clear(ctx))
	all, err = st.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDelete(t *testing.T) {
	st, _ := openStore(t)
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, item("p1", "10x15", 1, time.Now())))
	require.NoError(t, st.Delete(ctx, "p1"))
	_, err := st.Get(ctx, "p1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Deleting an absent id is not an error.
	assert.NoError(t, st.Delete(ctx, "p1"))
}

func TestReopenKeepsRecords(t *testing.T) {
	st, path := openStore(t)
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, item("p1", "15x21", 4, time.Now())))
	require.NoError(t, st.Close())

	reopened, err := store.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "15x21", got.Format)
	assert.Equal(t, 4, got.Quantity)
	assert.Equal(t, []byte("bytes-p1"), got.Content)
}
