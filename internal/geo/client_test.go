package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLookupSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "203.0.113.9", r.URL.Query().Get("ip"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"country":"US","country_iso":"US","region_name":"California","region_code":"CA","city":"Mountain View","latitude":37.4,"longitude":-122.1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	loc := c.Lookup(context.Background(), "203.0.113.9")

	assert.Equal(t, "US", loc.Country)
	assert.Equal(t, "California", loc.Region)
}

func TestLookupNon2xxIsSoftFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	loc := c.Lookup(context.Background(), "203.0.113.9")

	assert.Equal(t, Location{}, loc)
}

func TestLookupMalformedBodyIsSoftFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	loc := c.Lookup(context.Background(), "203.0.113.9")

	assert.Equal(t, Location{}, loc)
}

func TestLookupUnreachableOracleIsSoftFailure(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	loc := c.Lookup(context.Background(), "203.0.113.9")

	assert.Equal(t, Location{}, loc)
}

func TestLookupTimeoutIsSoftFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(`{"country":"US","region_name":"California"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Millisecond)
	loc := c.Lookup(context.Background(), "203.0.113.9")

	assert.Equal(t, Location{}, loc)
}
