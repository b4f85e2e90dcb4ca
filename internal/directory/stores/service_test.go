package stores

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercato-app/mercato/internal/cache"
	"github.com/mercato-app/mercato/internal/directory/areas"
	"github.com/mercato-app/mercato/internal/platform/httpx"
)

type fakeRepo struct {
	stores map[int64]Store
	nextID int64
	lists  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stores: map[int64]Store{}}
}

func (f *fakeRepo) ListActive(_ context.Context, areaID *int64) ([]Store, error) {
	f.lists++
	out := []Store{}
	for _, s := range f.stores {
		if s.Status != StatusActive {
			continue
		}
		if areaID != nil && !containsID(s.AreaIDs, *areaID) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRepo) ListAll(context.Context) ([]Store, error) {
	out := []Store{}
	for _, s := range f.stores {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRepo) GetActiveBySlug(_ context.Context, slug string) (Store, error) {
	for _, s := range f.stores {
		if s.Slug == slug && s.Status == StatusActive {
			return s, nil
		}
	}
	return Store{}, httpx.ErrNotFound
}

func (f *fakeRepo) Get(_ context.Context, id int64) (Store, error) {
	s, ok := f.stores[id]
	if !ok {
		return Store{}, httpx.ErrNotFound
	}
	return s, nil
}

func (f *fakeRepo) Create(_ context.Context, s Store) (Store, error) {
	f.nextID++
	s.ID = f.nextID
	f.stores[s.ID] = s
	return s, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, s Store) error {
	if _, ok := f.stores[id]; !ok {
		return httpx.ErrNotFound
	}
	s.ID = id
	f.stores[id] = s
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.stores[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(f.stores, id)
	return nil
}

func (f *fakeRepo) SetAreas(_ context.Context, storeID int64, areaIDs []int64) error {
	s, ok := f.stores[storeID]
	if !ok {
		return httpx.ErrNotFound
	}
	s.AreaIDs = areaIDs
	f.stores[storeID] = s
	return nil
}

func containsID(ids []int64, want int64) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}

type fakeAreas []areas.Area

func (f fakeAreas) List(context.Context) ([]areas.Area, error) { return f, nil }

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := newFakeRepo()
	areaList := fakeAreas{{ID: 1, Name: "Downtown", City: "Springfield", Slug: "springfield-downtown"}}
	return NewService(nil, repo, cache.NewStore(client, nil, nil), areaList, nil), repo
}

func TestGetPublicOnlyResolvesActiveStores(t *testing.T) {
	svc, repo := newTestService(t)
	for _, status := range []Status{StatusPending, StatusSuspended, StatusClosed} {
		_, err := repo.Create(context.Background(), Store{Slug: "shop-" + string(status), Name: "Shop", Status: status})
		require.NoError(t, err)
	}
	_, err := repo.Create(context.Background(), Store{Slug: "shop-open", Name: "Shop", Status: StatusActive})
	require.NoError(t, err)

	_, err = svc.GetPublic(context.Background(), "shop-open")
	require.NoError(t, err)

	for _, slug := range []string{"shop-pending", "shop-suspended", "shop-closed", "shop-missing"} {
		_, err := svc.GetPublic(context.Background(), slug)
		require.ErrorIs(t, err, httpx.ErrNotFound, "slug %s", slug)
	}
}

func TestActiveStoreIDMatchesResolvedStore(t *testing.T) {
	svc, repo := newTestService(t)
	created, err := repo.Create(context.Background(), Store{Slug: "corner-shop", Name: "Corner Shop", Status: StatusActive})
	require.NoError(t, err)

	id, err := svc.ActiveStoreID(context.Background(), "corner-shop")
	require.NoError(t, err)
	assert.Equal(t, created.ID, id)
}

func TestListPublicFiltersByArea(t *testing.T) {
	svc, repo := newTestService(t)
	_, err := repo.Create(context.Background(), Store{Slug: "in-area", Name: "In", Status: StatusActive, AreaIDs: []int64{1}})
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), Store{Slug: "elsewhere", Name: "Out", Status: StatusActive, AreaIDs: []int64{2}})
	require.NoError(t, err)

	areaID := int64(1)
	stores, err := svc.ListPublic(context.Background(), &areaID)
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "in-area", stores[0].Slug)

	stores, err = svc.ListPublic(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, stores, 2)
}

func TestListPublicCachesPerArea(t *testing.T) {
	svc, repo := newTestService(t)
	_, err := repo.Create(context.Background(), Store{Slug: "shop", Name: "Shop", Status: StatusActive})
	require.NoError(t, err)

	_, err = svc.ListPublic(context.Background(), nil)
	require.NoError(t, err)
	_, err = svc.ListPublic(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lists, "unfiltered listing cached")

	areaID := int64(1)
	_, err = svc.ListPublic(context.Background(), &areaID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lists, "area filter resolves its own cache entry")
}

func TestStoreMutationBustsDirectoryCaches(t *testing.T) {
	svc, repo := newTestService(t)
	created, err := repo.Create(context.Background(), Store{Slug: "shop", Name: "Shop", Status: StatusActive})
	require.NoError(t, err)

	stores, err := svc.ListPublic(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, stores, 1)

	err = svc.Update(context.Background(), created.ID, Store{Slug: "shop", Name: "Shop", Status: StatusSuspended})
	require.NoError(t, err)

	stores, err = svc.ListPublic(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, stores, "suspension is visible immediately")

	_, err = svc.GetPublic(context.Background(), "shop")
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestHomeComposesAreasAndStores(t *testing.T) {
	svc, repo := newTestService(t)
	_, err := repo.Create(context.Background(), Store{Slug: "shop", Name: "Shop", Status: StatusActive})
	require.NoError(t, err)

	home, err := svc.Home(context.Background())
	require.NoError(t, err)
	require.Len(t, home.Areas, 1)
	require.Len(t, home.Stores, 1)
	assert.Equal(t, "springfield-downtown", home.Areas[0].Slug)
}

func TestCreateValidatesStatusAndTerms(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), Store{Name: "Shop", Status: "archived"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), Store{Name: "Shop", DeliveryFee: -1})
	require.ErrorIs(t, err, httpx.ErrValidation)

	created, err := svc.Create(context.Background(), Store{Name: "Corner Shop"})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status, "new stores default to pending")
	assert.Equal(t, "corner-shop", created.Slug)
}
