package cache

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "topsecret"

func newTestHandler(t *testing.T) (*Handler, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewStore(client, nil, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, store, testSecret), store
}

func postRevalidate(h *Handler, secret, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(SecretHeader, secret)
	}
	res := httptest.NewRecorder()
	h.Revalidate(res, req)
	return res
}

func TestRevalidateMissingSecret(t *testing.T) {
	h, _ := newTestHandler(t)
	res := postRevalidate(h, "", `{"type":"tag","tag":"products"}`)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRevalidateWrongSecret(t *testing.T) {
	h, _ := newTestHandler(t)
	res := postRevalidate(h, "nope", `{"type":"tag","tag":"products"}`)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRevalidateUnconfiguredSecret(t *testing.T) {
	_, store := newTestHandler(t)
	h := NewHandler(nil, store, "")
	res := postRevalidate(h, "anything", `{"type":"tag","tag":"products"}`)
	assert.Equal(t, http.StatusInternalServerError, res.Code)
}

func TestRevalidateMalformedBody(t *testing.T) {
	h, _ := newTestHandler(t)
	res := postRevalidate(h, testSecret, `{not json`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestRevalidateUnknownType(t *testing.T) {
	h, _ := newTestHandler(t)
	res := postRevalidate(h, testSecret, `{"type":"everything"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestRevalidateBadTag(t *testing.T) {
	h, _ := newTestHandler(t)
	res := postRevalidate(h, testSecret, `{"type":"tag","tag":"FLUSH ALL"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestRevalidateBadPath(t *testing.T) {
	h, _ := newTestHandler(t)
	res := postRevalidate(h, testSecret, `{"type":"path","path":"no-slash"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestRevalidateTagDiscardsEntries(t *testing.T) {
	h, store := newTestHandler(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	var got int
	require.NoError(t, store.Fetch(ctx, ClassProducts, "s9:p0", "", &got, loader))

	res := postRevalidate(h, testSecret, `{"type":"tag","tag":"products"}`)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"revalidated":true`)

	require.NoError(t, store.Fetch(ctx, ClassProducts, "s9:p0", "", &got, loader))
	assert.Equal(t, 2, calls, "entry must be recomputed after revalidation")
}

func TestControlHeaders(t *testing.T) {
	res := httptest.NewRecorder()
	ControlHeaders(res, ClassProducts)
	assert.Equal(t, "public, max-age=300, stale-while-revalidate=300", res.Header().Get("Cache-Control"))
}
