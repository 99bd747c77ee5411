package resolve

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	base    string
	readErr error
	saved   []string
}

func (m *memStore) Endpoint() (string, error) { return m.base, m.readErr }

func (m *memStore) SetEndpoint(base string) error {
	m.base = base
	m.saved = append(m.saved, base)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func healthyServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func failingServer(t *testing.T, code int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func hungServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	return srv
}

// deadURL returns the address of a server that has already shut down.
func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func TestCandidates_DefaultOrder(t *testing.T) {
	r := New(Config{Host: "box.lan", Port: 9000}, nil, quietLogger())
	assert.Equal(t, []string{
		"http://box.lan:9000",
		"http://127.0.0.1:9000",
		"http://localhost:9000",
		"http://[::1]:9000",
	}, r.Candidates())
}

func TestCandidates_DeduplicatesHost(t *testing.T) {
	r := New(Config{Host: "localhost"}, nil, quietLogger())
	assert.Equal(t, []string{
		"http://localhost:8787",
		"http://127.0.0.1:8787",
		"http://[::1]:8787",
	}, r.Candidates())
}

func TestResolve_FirstLiveCandidateWinsAndIsPersisted(t *testing.T) {
	good := healthyServer(t)
	store := &memStore{}
	r := New(Config{
		Candidates:   []string{deadURL(t), failingServer(t, http.StatusInternalServerError).URL, good.URL},
		ProbeTimeout: time.Second,
	}, store, quietLogger())

	base, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, good.URL, base)
	assert.Equal(t, []string{good.URL}, store.saved)
}

func TestResolve_ListOrderBeatsResponseTime(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(slow.Close)
	fast := healthyServer(t)

	r := New(Config{Candidates: []string{slow.URL, fast.URL}, ProbeTimeout: time.Second}, nil, quietLogger())
	base, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, slow.URL, base)
}

func TestResolve_HungCandidateIsBoundedByProbeTimeout(t *testing.T) {
	hung := hungServer(t)
	good := healthyServer(t)

	r := New(Config{Candidates: []string{hung.URL, good.URL}, ProbeTimeout: 200 * time.Millisecond}, nil, quietLogger())

	start := time.Now()
	base, err := r.Resolve(context.Background())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, good.URL, base)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestResolve_PersistedEndpointSkipsDiscovery(t *testing.T) {
	persisted := healthyServer(t)
	candidateHits := 0
	candidate := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		candidateHits++
	}))
	t.Cleanup(candidate.Close)

	store := &memStore{base: persisted.URL}
	r := New(Config{Candidates: []string{candidate.URL}}, store, quietLogger())

	base, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, persisted.URL, base)
	assert.Zero(t, candidateHits)
	assert.Empty(t, store.saved, "a live persisted endpoint is not rewritten")
}

func TestResolve_StalePersistedEndpointFallsThrough(t *testing.T) {
	good := healthyServer(t)
	store := &memStore{base: deadURL(t)}
	r := New(Config{Candidates: []string{good.URL}}, store, quietLogger())

	base, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, good.URL, base)
	assert.Equal(t, good.URL, store.base)
}

func TestResolve_StoreReadErrorFallsThrough(t *testing.T) {
	good := healthyServer(t)
	store := &memStore{readErr: errors.New("disk on fire")}
	r := New(Config{Candidates: []string{good.URL}}, store, quietLogger())

	base, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, good.URL, base)
}

func TestResolve_OverrideBeatsPersisted(t *testing.T) {
	override := healthyServer(t)
	persisted := healthyServer(t)
	store := &memStore{base: persisted.URL}
	r := New(Config{Override: override.URL, Candidates: []string{deadURL(t)}}, store, quietLogger())

	base, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, override.URL, base)
	assert.Equal(t, override.URL, store.base)
}

func TestResolve_Unreachable(t *testing.T) {
	store := &memStore{}
	r := New(Config{
		Override:     deadURL(t),
		Candidates:   []string{deadURL(t), failingServer(t, http.StatusServiceUnavailable).URL},
		ProbeTimeout: 300 * time.Millisecond,
	}, store, quietLogger())

	base, err := r.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.Empty(t, base)
	assert.Empty(t, store.saved)
}

func TestResolve_CancelledContext(t *testing.T) {
	good := healthyServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(Config{Candidates: []string{good.URL}}, nil, quietLogger())
	_, err := r.Resolve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
