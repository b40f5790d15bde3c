package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/axellelanca/shortlinks/internal/clock"
	"github.com/axellelanca/shortlinks/internal/repository"
)

// ExpiryMonitor periodically scans stored links and reports the ones whose
// validity window has closed since the previous scan. It never modifies links.
type ExpiryMonitor struct {
	linkRepo    repository.LinkRepository
	clock       clock.Clock
	interval    time.Duration
	log         *slog.Logger
	knownStates map[string]bool // shortcode -> active at last scan
	mu          sync.Mutex
}

// Transition describes a link whose state changed between two scans.
type Transition struct {
	Shortcode string
	LongURL   string
	Active    bool
}

// NewExpiryMonitor creates and returns a new instance of ExpiryMonitor.
func NewExpiryMonitor(linkRepo repository.LinkRepository, clk clock.Clock, interval time.Duration, log *slog.Logger) *ExpiryMonitor {
	return &ExpiryMonitor{
		linkRepo:    linkRepo,
		clock:       clk,
		interval:    interval,
		log:         log,
		knownStates: make(map[string]bool),
	}
}

// Start runs a scan immediately, then every interval until ctx is cancelled.
func (m *ExpiryMonitor) Start(ctx context.Context) {
	m.log.Info("[MONITOR] starting expiry monitor", "interval", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Scan(ctx)

	for {
		select {
		case <-ctx.Done():
			m.log.Info("[MONITOR] expiry monitor stopped")
			return
		case <-ticker.C:
			m.Scan(ctx)
		}
	}
}

// Scan compares every link's current state with the previous scan and returns
// the links that changed. Links seen for the first time are recorded only.
func (m *ExpiryMonitor) Scan(ctx context.Context) []Transition {
	now := m.clock.Now()
	links := m.linkRepo.ListAll(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	var changed []Transition
	for _, link := range links {
		active := !link.IsExpired(now)
		previous, seen := m.knownStates[link.Shortcode]
		m.knownStates[link.Shortcode] = active

		if !seen {
			m.log.Debug("[MONITOR] initial state", "shortcode", link.Shortcode, "state", formatState(active))
			continue
		}
		if active != previous {
			m.log.Info("[NOTIFICATION] link state changed",
				"shortcode", link.Shortcode,
				"long_url", link.LongURL,
				"from", formatState(previous),
				"to", formatState(active))
			changed = append(changed, Transition{Shortcode: link.Shortcode, LongURL: link.LongURL, Active: active})
		}
	}
	return changed
}

func formatState(active bool) string {
	if active {
		return "ACTIVE"
	}
	return "EXPIRED"
}
