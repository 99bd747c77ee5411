// Package resolve discovers a reachable topology backend.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dm/sysmap-go/internal/client"
)

// ErrUnreachable means no override and no candidate answered a health probe.
var ErrUnreachable = errors.New("backend not reachable")

// EndpointStore persists the winning base URL across sessions.
type EndpointStore interface {
	Endpoint() (string, error)
	SetEndpoint(base string) error
}

// Config controls discovery.
type Config struct {
	// Override is tried before anything else, ahead of the persisted endpoint.
	Override string
	// Host is the first candidate host. Empty means os.Hostname().
	Host string
	Port int
	// Candidates replaces the built-in candidate list when non-empty.
	Candidates   []string
	ProbeTimeout time.Duration
	Insecure     bool
}

// Resolver finds the first backend that answers GET /api/health.
type Resolver struct {
	cfg    Config
	store  EndpointStore
	logger *slog.Logger
}

// New returns a Resolver. store may be nil, in which case nothing is
// remembered between sessions.
func New(cfg Config, store EndpointStore, logger *slog.Logger) *Resolver {
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 1500 * time.Millisecond
	}
	if cfg.Port <= 0 {
		cfg.Port = 8787
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{cfg: cfg, store: store, logger: logger}
}

// Candidates returns the well-known base URLs in preference order:
// the configured host, IPv4 loopback, localhost, IPv6 loopback.
func (r *Resolver) Candidates() []string {
	if len(r.cfg.Candidates) > 0 {
		return r.cfg.Candidates
	}
	host := r.cfg.Host
	if host == "" {
		host, _ = os.Hostname()
	}
	port := strconv.Itoa(r.cfg.Port)

	var out []string
	seen := make(map[string]bool)
	for _, h := range []string{host, "127.0.0.1", "localhost", "::1"} {
		if h == "" {
			continue
		}
		base := "http://" + net.JoinHostPort(h, port)
		if !seen[base] {
			seen[base] = true
			out = append(out, base)
		}
	}
	return out
}

// Resolve returns a live base URL. It tries the explicit override, then the
// persisted endpoint, then every candidate. Candidates are probed at once but
// ranked by list order, so a slow early candidate still beats a fast late one
// while the whole scan stays within one probe timeout. The winning candidate
// is persisted. Returns ErrUnreachable when nothing answers.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if base := r.cfg.Override; base != "" {
		if r.Probe(ctx, base) {
			r.remember(base)
			return base, nil
		}
		r.logger.Warn("endpoint override not reachable", "base", base)
	}

	if r.store != nil {
		persisted, err := r.store.Endpoint()
		if err != nil {
			r.logger.Warn("read persisted endpoint", "error", err)
		}
		if persisted != "" && persisted != r.cfg.Override && r.Probe(ctx, persisted) {
			r.logger.Info("using persisted endpoint", "base", persisted)
			return persisted, nil
		}
	}

	cands := r.Candidates()
	live := make([]bool, len(cands))
	g, gctx := errgroup.WithContext(ctx)
	for i, base := range cands {
		g.Go(func() error {
			live[i] = r.Probe(gctx, base)
			return nil
		})
	}
	_ = g.Wait()

	for i, base := range cands {
		if live[i] {
			r.logger.Info("resolved endpoint", "base", base)
			r.remember(base)
			return base, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("resolve: %w", err)
	}
	return "", ErrUnreachable
}

// Probe reports whether base answers /api/health with a 2xx within the probe
// timeout. A probe that times out counts as unreachable.
func (r *Resolver) Probe(ctx context.Context, base string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, r.cfg.ProbeTimeout)
	defer cancel()

	c, err := client.NewDefaultClient(client.ClientConfig{
		BaseURL:            base,
		InsecureSkipVerify: r.cfg.Insecure,
		RequestTimeout:     r.cfg.ProbeTimeout,
	})
	if err != nil {
		return false
	}
	if _, err := c.Health(probeCtx); err != nil {
		r.logger.Debug("probe failed", "base", base, "error", err)
		return false
	}
	return true
}

func (r *Resolver) remember(base string) {
	if r.store == nil {
		return
	}
	if err := r.store.SetEndpoint(base); err != nil {
		r.logger.Warn("persist endpoint", "base", base, "error", err)
	}
}
