package openweather

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", nil, nil)
	c.BaseURL = srv.URL
	return c
}

func TestCurrent(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/2.5/weather" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("appid"); got != "test-key" {
			t.Errorf("appid = %q", got)
		}
		// 289.05 K is the Paris-scenario 15.9 C.
		fmt.Fprint(w, `{"main":{"temp":289.05},"weather":[{"main":"Clear","description":"clear sky"}]}`)
	})

	obs, err := c.Current(context.Background(), 48.8566, 2.3522)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if math.Abs(obs.TempC-15.9) > 1e-9 {
		t.Errorf("TempC = %v, want 15.9", obs.TempC)
	}
	if obs.Condition != "Clear" {
		t.Errorf("Condition = %q, want Clear", obs.Condition)
	}
}

func TestCurrentErrors(t *testing.T) {
	t.Run("no API key", func(t *testing.T) {
		c := NewClient("", nil, nil)
		if _, err := c.Current(context.Background(), 0, 0); err == nil {
			t.Error("expected error without API key")
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
		if _, err := c.Current(context.Background(), 0, 0); err == nil {
			t.Error("expected error for 401")
		}
	})

	t.Run("missing condition", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"main":{"temp":300.15},"weather":[]}`)
		})
		if _, err := c.Current(context.Background(), 0, 0); err == nil {
			t.Error("expected error for empty weather array")
		}
	})
}
