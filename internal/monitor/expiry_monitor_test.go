package monitor_test

import (
	"context"
	"testing"
	"time"

	"github.com/axellelanca/shortlinks/internal/clock"
	"github.com/axellelanca/shortlinks/internal/logger"
	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/axellelanca/shortlinks/internal/monitor"
	"github.com/axellelanca/shortlinks/internal/repository"
	"github.com/axellelanca/shortlinks/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*monitor.ExpiryMonitor, *repository.KVLinkRepository, *clock.Mock) {
	t.Helper()
	repo := repository.NewLinkRepository(storage.NewMemoryBackend(), "shortUrls", logger.Discard())
	clk := clock.NewMock(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	return monitor.NewExpiryMonitor(repo, clk, time.Minute, logger.Discard()), repo, clk
}

func insert(t *testing.T, repo *repository.KVLinkRepository, code string, created time.Time, validity time.Duration) {
	t.Helper()
	require.NoError(t, repo.Insert(context.Background(), &models.LinkRecord{
		Shortcode:  code,
		LongURL:    "https://example.com/" + code,
		CreatedAt:  created,
		ExpiryDate: created.Add(validity),
	}))
}

func TestScan_ReportsExpiryTransition(t *testing.T) {
	m, repo, clk := setup(t)
	ctx := context.Background()
	insert(t, repo, "short", clk.Now(), 5*time.Minute)
	insert(t, repo, "long", clk.Now(), time.Hour)

	assert.Empty(t, m.Scan(ctx), "first scan only records state")

	clk.Advance(10 * time.Minute)
	changed := m.Scan(ctx)

	require.Len(t, changed, 1)
	assert.Equal(t, "short", changed[0].Shortcode)
	assert.False(t, changed[0].Active)

	assert.Empty(t, m.Scan(ctx), "no change reported twice")
}

func TestScan_ReactivatedLink(t *testing.T) {
	m, repo, clk := setup(t)
	ctx := context.Background()
	insert(t, repo, "abc", clk.Now(), time.Minute)

	clk.Advance(time.Hour)
	m.Scan(ctx)

	newExpiry := clk.Now().Add(time.Hour)
	repo.Update(ctx, "abc", models.LinkUpdate{ExpiryDate: &newExpiry})
	changed := m.Scan(ctx)

	require.Len(t, changed, 1)
	assert.True(t, changed[0].Active)
}

func TestStart_StopsOnCancel(t *testing.T) {
	m, _, _ := setup(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}
