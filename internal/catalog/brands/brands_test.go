package brands

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercato-app/mercato/internal/cache"
	"github.com/mercato-app/mercato/internal/platform/httpx"
)

type fakeRepo struct {
	brands map[int64]Brand
	nextID int64
}

func (f *fakeRepo) List(context.Context, string) ([]Brand, error) { return nil, nil }

func (f *fakeRepo) Get(_ context.Context, id int64) (Brand, error) {
	b, ok := f.brands[id]
	if !ok {
		return Brand{}, httpx.ErrNotFound
	}
	return b, nil
}

func (f *fakeRepo) Create(_ context.Context, b Brand) (Brand, error) {
	f.nextID++
	b.ID = f.nextID
	f.brands[b.ID] = b
	return b, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, b Brand) error {
	if _, ok := f.brands[id]; !ok {
		return httpx.ErrNotFound
	}
	b.ID = id
	f.brands[id] = b
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.brands[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(f.brands, id)
	return nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(nil, &fakeRepo{brands: map[int64]Brand{}}, cache.NewStore(client, nil, nil), nil)
}

func TestCreateSlugsName(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), Brand{Name: "  Café Rouge  "})
	require.NoError(t, err)
	assert.Equal(t, "Café Rouge", created.Name)
	assert.Equal(t, "cafe-rouge", created.Slug)
}

func TestCreateRequiresName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), Brand{Name: "   "})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateMissingBrand(t *testing.T) {
	svc := newTestService(t)

	err := svc.Update(context.Background(), 404, Brand{Name: "Acme"})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
