package geocode

import (
	"bouquet-tour-service/internal/adapters/cache"
	"bouquet-tour-service/internal/adapters/repositories"
	"bouquet-tour-service/internal/platform/db"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) *cache.SQLPostalCodeCache {
	t.Helper()
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(conn, db.SQLite))
	return cache.NewSQLPostalCodeCache(conn, db.SQLite)
}

func TestORSResolverGeocodesAndCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("Authorization"))
		assert.Equal(t, "FR", r.URL.Query().Get("boundary.country"))

		switch r.URL.Query().Get("text") {
		case "8 rue Oberkampf Paris":
			fmt.Fprint(w, `{"features":[{"properties":{"postalcode":"75011"}}]}`)
		default:
			fmt.Fprint(w, `{"features":[]}`)
		}
	}))
	defer srv.Close()

	r, err := NewORSPostalCodeResolver("secret", newCache(t), WithBaseURL(srv.URL), WithBackoff(time.Millisecond))
	require.NoError(t, err)

	ctx := context.Background()
	got, err := r.ResolvePostalCodes(ctx, []string{"8  rue Oberkampf Paris", "nowhere", ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"8  rue Oberkampf Paris": "75011"}, got)
	assert.EqualValues(t, 2, calls.Load())

	// Second lookup is served by the cache.
	got, err = r.ResolvePostalCodes(ctx, []string{"8 rue Oberkampf Paris"})
	require.NoError(t, err)
	assert.Equal(t, "75011", got["8 rue Oberkampf Paris"])
	assert.EqualValues(t, 2, calls.Load())
}

func TestORSResolverRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"features":[{"properties":{"postalcode":"92200"}}]}`)
	}))
	defer srv.Close()

	r, err := NewORSPostalCodeResolver("secret", nil, WithBaseURL(srv.URL), WithBackoff(time.Millisecond))
	require.NoError(t, err)

	got, err := r.ResolvePostalCodes(context.Background(), []string{"3 av. Foch Neuilly"})
	require.NoError(t, err)
	assert.Equal(t, "92200", got["3 av. Foch Neuilly"])
	assert.EqualValues(t, 3, calls.Load())
}

func TestORSResolverDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer srv.Close()

	r, err := NewORSPostalCodeResolver("secret", nil, WithBaseURL(srv.URL), WithBackoff(time.Millisecond))
	require.NoError(t, err)

	_, err = r.ResolvePostalCodes(context.Background(), []string{"somewhere"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.EqualValues(t, 1, calls.Load())
}

func TestORSResolverKeepsResolvedCodesOnFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Query().Get("text") {
		case "8 rue Oberkampf Paris":
			fmt.Fprint(w, `{"features":[{"properties":{"postalcode":"75011"}}]}`)
		case "3 av. Foch Neuilly":
			fmt.Fprint(w, `{"features":[{"properties":{"postalcode":"92200"}}]}`)
		default:
			http.Error(w, "invalid text", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	r, err := NewORSPostalCodeResolver("secret", newCache(t), WithBaseURL(srv.URL), WithBackoff(time.Millisecond))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = r.ResolvePostalCodes(ctx, []string{"8 rue Oberkampf Paris"})
	require.NoError(t, err)
	require.EqualValues(t, 1, calls.Load())

	got, err := r.ResolvePostalCodes(ctx, []string{"8 rue Oberkampf Paris", "%%%", "3 av. Foch Neuilly"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRejected)
	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "%%%", lookupErr.Address)
	assert.Equal(t, http.StatusBadRequest, lookupErr.Status)

	assert.Equal(t, map[string]string{
		"8 rue Oberkampf Paris": "75011",
		"3 av. Foch Neuilly":    "92200",
	}, got, "cache hits and fresh codes survive a failed lookup")
	assert.EqualValues(t, 3, calls.Load(), "rejected addresses are not retried")
}

func TestORSResolverStopsWhenThrottled(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r, err := NewORSPostalCodeResolver("secret", nil, WithBaseURL(srv.URL), WithBackoff(time.Millisecond))
	require.NoError(t, err)

	got, err := r.ResolvePostalCodes(context.Background(), []string{"a", "b", "c"})
	assert.ErrorIs(t, err, ErrThrottled)
	assert.Empty(t, got)
	assert.EqualValues(t, maxAttempts, calls.Load(), "one address retried, the rest skipped")
}

func TestNewORSResolverRequiresKey(t *testing.T) {
	_, err := NewORSPostalCodeResolver("", nil)
	assert.Error(t, err)
}

func TestStaticResolver(t *testing.T) {
	r := NewStaticResolver(map[string]string{"1 place  Vendome, Paris": "75001"})

	got, err := r.ResolvePostalCodes(context.Background(), []string{"1 place Vendome, Paris", "unknown"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1 place Vendome, Paris": "75001"}, got)
}
