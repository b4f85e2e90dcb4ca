package products

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercato-app/mercato/internal/observability"
)

type failingRepo struct {
	fakeRepo
}

func (f *failingRepo) ListEffective(context.Context, PageQuery) ([]EffectiveProduct, int, error) {
	return nil, 0, errors.New("connection refused")
}

func newStorefrontServer(t *testing.T, repo Repository) *httptest.Server {
	t.Helper()
	svc, _ := newTestService(t, &fakeRepo{})
	svc.repo = repo
	handler := NewHandler(nil, svc, observability.NewMetrics())

	r := chi.NewRouter()
	r.Route("/api/stores/{slug}", handler.MountPublic)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func getPage(t *testing.T, url string) (*http.Response, Page) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var page Page
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	}
	return resp, page
}

func TestStorefrontEndpointServesPage(t *testing.T) {
	repo := &fakeRepo{rows: []EffectiveProduct{row(1, "Flour", 100, false)}}
	srv := newStorefrontServer(t, repo)

	resp, page := getPage(t, srv.URL+"/api/stores/corner-shop/products")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Flour", page.Items[0].Name)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "stale-while-revalidate")
}

func TestStorefrontEndpointValidation(t *testing.T) {
	srv := newStorefrontServer(t, &fakeRepo{})

	cases := []string{
		"?cursor=abc",
		"?limit=abc",
		"?limit=0",
		"?limit=999",
		"?cursor=-1",
		"?categoryId=abc",
		"?inStockOnly=maybe",
		"?sort=cheapest",
	}
	for _, qs := range cases {
		resp, _ := getPage(t, srv.URL+"/api/stores/corner-shop/products"+qs)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "query %q", qs)
	}
}

func TestStorefrontEndpointUnknownStore(t *testing.T) {
	srv := newStorefrontServer(t, &fakeRepo{})

	resp, _ := getPage(t, srv.URL+"/api/stores/nowhere/products")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStorefrontEndpointDegradesOnStorageFailure(t *testing.T) {
	srv := newStorefrontServer(t, &failingRepo{})

	resp, page := getPage(t, srv.URL+"/api/stores/corner-shop/products")
	require.Equal(t, http.StatusOK, resp.StatusCode, "storage failures stay invisible to shoppers")
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
}
