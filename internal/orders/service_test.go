package orders

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
	orders map[int64]Order
}

func (f *fakeRepo) List(_ context.Context, filters ListFilters) ([]Order, int, error) {
	out := []Order{}
	for _, o := range f.orders {
		if filters.StoreID != nil && o.StoreID != *filters.StoreID {
			continue
		}
		if filters.Status != nil && o.Status != *filters.Status {
			continue
		}
		out = append(out, o)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return Order{}, httpx.ErrNotFound
	}
	return o, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status Status) error {
	o, ok := f.orders[id]
	if !ok {
		return httpx.ErrNotFound
	}
	o.Status = status
	f.orders[id] = o
	return nil
}

func newTestService(t *testing.T, seed ...Order) (*Service, *fakeRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := &fakeRepo{orders: map[int64]Order{}}
	for _, o := range seed {
		repo.orders[o.ID] = o
	}
	return NewService(nil, repo, cache.NewStore(client, nil, nil), nil), repo
}

func TestStatusTransitionMatrix(t *testing.T) {
	allowed := map[Status][]Status{
		StatusNew:        {StatusAccepted, StatusCancelled},
		StatusAccepted:   {StatusDelivering, StatusCancelled},
		StatusDelivering: {StatusCompleted, StatusCancelled},
		StatusCompleted:  {},
		StatusCancelled:  {},
	}
	all := []Status{StatusNew, StatusAccepted, StatusDelivering, StatusCompleted, StatusCancelled}

	for from, nexts := range allowed {
		ok := map[Status]bool{}
		for _, n := range nexts {
			ok[n] = true
		}
		for _, to := range all {
			assert.Equal(t, ok[to], from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestPatchStatusAdvancesLifecycle(t *testing.T) {
	svc, repo := newTestService(t, Order{ID: 1, StoreID: 2, Status: StatusNew})

	for _, next := range []Status{StatusAccepted, StatusDelivering, StatusCompleted} {
		order, err := svc.PatchStatus(context.Background(), 1, next)
		require.NoError(t, err)
		assert.Equal(t, next, order.Status)
	}
	assert.Equal(t, StatusCompleted, repo.orders[1].Status)
}

func TestPatchStatusRejectsIllegalSteps(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
	}{
		{StatusNew, StatusDelivering},
		{StatusNew, StatusCompleted},
		{StatusAccepted, StatusCompleted},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusAccepted},
		{StatusDelivering, StatusNew},
	}
	for _, tc := range cases {
		svc, repo := newTestService(t, Order{ID: 1, Status: tc.from})
		_, err := svc.PatchStatus(context.Background(), 1, tc.to)
		require.ErrorIs(t, err, httpx.ErrValidation, "%s -> %s", tc.from, tc.to)
		assert.Equal(t, tc.from, repo.orders[1].Status, "status untouched on rejection")
	}
}

func TestPatchStatusUnknownValues(t *testing.T) {
	svc, _ := newTestService(t, Order{ID: 1, Status: StatusNew})

	_, err := svc.PatchStatus(context.Background(), 1, "refunded")
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.PatchStatus(context.Background(), 404, StatusAccepted)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestListValidatesStatusFilter(t *testing.T) {
	svc, _ := newTestService(t)

	bad := Status("refunded")
	_, _, err := svc.List(context.Background(), ListFilters{Status: &bad})
	require.ErrorIs(t, err, httpx.ErrValidation)
}
