package categories

import (
	"context"
	"strconv"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercato-app/mercato/internal/cache"
	"github.com/mercato-app/mercato/internal/platform/httpx"
)

// fakeRepo mirrors the storage contract in memory, including path
// materialization and the children/products RESTRICT behavior.
type fakeRepo struct {
	nodes  map[int64]Category
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nodes: map[int64]Category{}}
}

func (f *fakeRepo) List(_ context.Context, _ ListFilters) ([]Category, int, error) {
	out := make([]Category, 0, len(f.nodes))
	for _, c := range f.nodes {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (Category, error) {
	c, ok := f.nodes[id]
	if !ok {
		return Category{}, httpx.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) Create(_ context.Context, c Category) (Category, error) {
	f.nextID++
	c.ID = f.nextID
	c.Path = materializePath(c.Path, c.ID)
	f.nodes[c.ID] = c
	return c, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, c Category) error {
	if _, ok := f.nodes[id]; !ok {
		return httpx.ErrNotFound
	}
	c.ID = id
	c.Path = materializePath(c.Path, id)
	f.nodes[id] = c
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.nodes[id]; !ok {
		return httpx.ErrNotFound
	}
	for _, c := range f.nodes {
		if c.ParentID != nil && *c.ParentID == id {
			return httpx.ErrConflict
		}
	}
	delete(f.nodes, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := newFakeRepo()
	return NewService(nil, repo, cache.NewStore(client, nil, nil), nil), repo, mr
}

func TestCreateDerivesRootPosition(t *testing.T) {
	svc, _, _ := newTestService(t)

	root, err := svc.Create(context.Background(), Category{Name: "Groceries"})
	require.NoError(t, err)

	assert.Equal(t, 0, root.Depth)
	assert.Equal(t, strconv.FormatInt(root.ID, 10), root.Path)
	assert.Equal(t, "groceries", root.Slug)
}

func TestCreateDerivesChildPosition(t *testing.T) {
	svc, _, _ := newTestService(t)

	root, err := svc.Create(context.Background(), Category{Name: "Groceries"})
	require.NoError(t, err)
	child, err := svc.Create(context.Background(), Category{Name: "Dairy", ParentID: &root.ID})
	require.NoError(t, err)
	grandchild, err := svc.Create(context.Background(), Category{Name: "Milk", ParentID: &child.ID})
	require.NoError(t, err)

	assert.Equal(t, 1, child.Depth)
	assert.Equal(t, root.Path+"/"+strconv.FormatInt(child.ID, 10), child.Path)
	assert.Equal(t, 2, grandchild.Depth)
	assert.Equal(t, child.Path+"/"+strconv.FormatInt(grandchild.ID, 10), grandchild.Path)
}

func TestCreateRejectsMissingParent(t *testing.T) {
	svc, _, _ := newTestService(t)

	missing := int64(404)
	_, err := svc.Create(context.Background(), Category{Name: "Dairy", ParentID: &missing})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestUpdateRejectsCycles(t *testing.T) {
	svc, _, _ := newTestService(t)

	root, err := svc.Create(context.Background(), Category{Name: "Groceries"})
	require.NoError(t, err)
	child, err := svc.Create(context.Background(), Category{Name: "Dairy", ParentID: &root.ID})
	require.NoError(t, err)

	err = svc.Update(context.Background(), root.ID, Category{Name: "Groceries", ParentID: &root.ID})
	require.ErrorIs(t, err, httpx.ErrValidation, "self parent")

	err = svc.Update(context.Background(), root.ID, Category{Name: "Groceries", ParentID: &child.ID})
	require.ErrorIs(t, err, httpx.ErrValidation, "moving under own descendant")
}

func TestDeleteWithChildrenConflicts(t *testing.T) {
	svc, _, _ := newTestService(t)

	root, err := svc.Create(context.Background(), Category{Name: "Groceries"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), Category{Name: "Dairy", ParentID: &root.ID})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), root.ID)
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestMutationsInvalidateProductPages(t *testing.T) {
	svc, _, mr := newTestService(t)

	// Seed something under the products tag the way the cache layer does.
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := cache.NewStore(client, nil, nil)
	var out string
	err := store.Fetch(context.Background(), cache.ClassProducts, "any-key", "/api/stores/x/products", &out, func(context.Context) (any, error) {
		return "cached-page", nil
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), Category{Name: "Groceries"})
	require.NoError(t, err)

	calls := 0
	err = store.Fetch(context.Background(), cache.ClassProducts, "any-key", "/api/stores/x/products", &out, func(context.Context) (any, error) {
		calls++
		return "fresh-page", nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "category change drops cached product pages")
	assert.Equal(t, "fresh-page", out)
}
