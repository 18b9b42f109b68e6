package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailbeacon/core/internal/geo"
	"github.com/trailbeacon/core/internal/ingest"
	"github.com/trailbeacon/core/internal/queue"
	"github.com/trailbeacon/core/internal/stats"
	"github.com/trailbeacon/core/internal/statshandler"
)

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	q := queue.New(15, time.Hour, func(_ context.Context, _ []queue.Event) error { return nil })
	ih := &ingest.Handler{
		Queue:      q,
		GeoClient:  geo.NewClient("http://127.0.0.1:1", 10*time.Millisecond),
		GeoTimeout: 10 * time.Millisecond,
	}
	sh := &statshandler.Handler{Reader: stats.NewReader(db)}

	srv := New(ih, sh, 30*time.Second, nil)
	return srv.app
}

func TestTrackRouteMounted(t *testing.T) {
	app := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/track", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestStatsRouteMountedRejectsMissingSiteID(t *testing.T) {
	app := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/stats/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
