package statshandler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailbeacon/core/internal/stats"
)

func newTestApp(h *Handler) *fiber.App {
	app := fiber.New()
	app.Post("/stats/", h.Query)
	return app
}

func TestQueryReturnsBucketedRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"occured_at", "event", "cnt"}).
		AddRow(uint32(20260101), "/", uint64(15))
	mock.ExpectQuery("SELECT occured_at, event, count\\(\\) AS cnt").
		WithArgs("acme", uint32(20260101), uint32(20260101)).
		WillReturnRows(rows)

	h := &Handler{Reader: stats.NewReader(db)}
	app := newTestApp(h)

	body := `{"site_id":"acme","start":20260101,"end":20260101,"what":"pv"}`
	req := httptest.NewRequest(http.MethodPost, "/stats/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestQueryMissingSiteIDIsBadRequest(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := &Handler{Reader: stats.NewReader(db)}
	app := newTestApp(h)

	body := `{"start":20260101,"end":20260101}`
	req := httptest.NewRequest(http.MethodPost, "/stats/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestQueryStorageFailureIs500(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT occured_at, event, count\\(\\) AS cnt").
		WillReturnError(assert.AnError)

	h := &Handler{Reader: stats.NewReader(db)}
	app := newTestApp(h)

	body := `{"site_id":"acme","start":20260101,"end":20260101}`
	req := httptest.NewRequest(http.MethodPost, "/stats/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
