package stormglass

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// testClient points a Client at a fake Stormglass with a fixed wall clock.
func testClient(t *testing.T, now time.Time, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New("test-key")
	c.BaseURL = srv.URL
	c.now = func() time.Time { return now }
	return c
}

func TestSeaLevelRequest(t *testing.T) {
	now := time.Date(2021, time.June, 5, 13, 30, 0, 0, time.UTC)
	var gotPath, gotAuth string
	var gotQuery map[string][]string

	c := testClient(t, now, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"data": [
			{"time": "2021-06-05T13:00:00+00:00", "sg": 0.23},
			{"time": "2021-06-05T14:00:00+00:00", "sg": 0.25},
			{"time": "2021-06-05T15:00:00+00:00", "sg": 0.21}
		]}`)
	})

	series, err := c.SeaLevel(55.66, 12.56, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/sea-level/point" {
		t.Errorf("requested path %q", gotPath)
	}
	if gotAuth != "test-key" {
		t.Errorf("Authorization header %q", gotAuth)
	}
	wantQuery := map[string][]string{
		"lat":   {"55.66"},
		"lng":   {"12.56"},
		"start": {"2021-06-05T13"},
		"end":   {"2021-06-05T15"},
	}
	if diff := cmp.Diff(wantQuery, gotQuery); diff != "" {
		t.Errorf("wrong query (-want,+got):\n%s", diff)
	}

	// The provider returned three rows but only two were asked for.
	want := SeaLevelSeries{
		Time:     []string{"2021-06-05T13:00:00+00:00", "2021-06-05T14:00:00+00:00"},
		SeaLevel: []float64{0.23, 0.25},
	}
	if diff := cmp.Diff(want, series); diff != "" {
		t.Errorf("wrong series (-want,+got):\n%s", diff)
	}
}

func TestSeaLevelBounds(t *testing.T) {
	c := New("test-key")
	// Requests that fail the precondition must never reach the network;
	// a nil transport makes any attempt panic loudly.
	c.HTTPClient = nil

	for _, hours := range []int{-1, 0, 241} {
		if _, err := c.SeaLevel(55.66, 12.56, hours); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("hours=%d: got %v, want ErrInvalidArgument", hours, err)
		}
	}
}

func TestSeaLevelMaxWindow(t *testing.T) {
	now := time.Date(2021, time.June, 5, 13, 30, 0, 0, time.UTC)
	c := testClient(t, now, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	})
	series, err := c.SeaLevel(55.66, 12.56, 240)
	if err != nil {
		t.Fatalf("hours=240 should be in bounds: %v", err)
	}
	if series.Len() != 240 {
		t.Errorf("got %d samples, want 240", series.Len())
	}
}

func TestSeaLevelQuotaFallback(t *testing.T) {
	now := time.Date(2021, time.June, 5, 13, 30, 0, 0, time.UTC)
	c := testClient(t, now, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	})

	series, err := c.SeaLevel(55.66, 12.56, 24)
	if err != nil {
		t.Fatalf("402 must not surface as an error, got %v", err)
	}
	if series.Len() != 24 {
		t.Fatalf("got %d samples, want 24", series.Len())
	}

	want := SynthesizeWave(24, now)
	for i := range want.SeaLevel {
		if math.Abs(series.SeaLevel[i]-want.SeaLevel[i]) > 1e-9 {
			t.Errorf("sample %d: got %v, want %v", i, series.SeaLevel[i], want.SeaLevel[i])
		}
		if series.Time[i] != want.Time[i] {
			t.Errorf("sample %d at %s, want %s", i, series.Time[i], want.Time[i])
		}
	}
}

func TestSeaLevelRemoteError(t *testing.T) {
	now := time.Date(2021, time.June, 5, 13, 30, 0, 0, time.UTC)
	c := testClient(t, now, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	series, err := c.SeaLevel(55.66, 12.56, 24)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("got %v, want RemoteError", err)
	}
	if remote.StatusCode != http.StatusInternalServerError {
		t.Errorf("got status %d, want 500", remote.StatusCode)
	}
	if series.Len() != 0 {
		t.Errorf("got %d samples alongside the error", series.Len())
	}
}

func TestExtremesRequest(t *testing.T) {
	now := time.Date(2021, time.June, 5, 13, 30, 0, 0, time.UTC)
	var gotPath string
	var gotQuery map[string][]string

	c := testClient(t, now, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"data": [
			{"time": "2021-06-05T17:00:00+00:00", "height": 0.91, "type": "high"},
			{"time": "2021-06-05T23:00:00+00:00", "height": -0.88, "type": "low"}
		]}`)
	})

	extremes, err := c.Extremes(55.66, 12.56, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/extremes" {
		t.Errorf("requested path %q", gotPath)
	}
	wantQuery := map[string][]string{
		"lat":   {"55.66"},
		"lng":   {"12.56"},
		"start": {"2021-06-05"},
		"end":   {"2021-06-08"},
	}
	if diff := cmp.Diff(wantQuery, gotQuery); diff != "" {
		t.Errorf("wrong query (-want,+got):\n%s", diff)
	}

	want := []Extreme{
		{Time: "2021-06-05T17:00:00+00:00", Height: 0.91, Kind: HighTide},
		{Time: "2021-06-05T23:00:00+00:00", Height: -0.88, Kind: LowTide},
	}
	if diff := cmp.Diff(want, extremes); diff != "" {
		t.Errorf("wrong extremes (-want,+got):\n%s", diff)
	}
}

func TestExtremesBounds(t *testing.T) {
	c := New("test-key")
	c.HTTPClient = nil
	for _, days := range []int{0, 11} {
		if _, err := c.Extremes(55.66, 12.56, days); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("days=%d: got %v, want ErrInvalidArgument", days, err)
		}
	}
}

func TestExtremesQuotaFallback(t *testing.T) {
	now := time.Date(2021, time.June, 5, 13, 30, 0, 0, time.UTC)
	c := testClient(t, now, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	})

	extremes, err := c.Extremes(55.66, 12.56, 1)
	if err != nil {
		t.Fatalf("402 must not surface as an error, got %v", err)
	}
	if len(extremes) == 0 {
		t.Fatal("no synthetic extremes in a full day")
	}

	// Events must fall strictly inside the scanned day; the two boundary
	// samples of the 25-sample scan are excluded.
	for _, ex := range extremes {
		at, err := ex.T()
		if err != nil {
			t.Fatalf("bad event time %q: %v", ex.Time, err)
		}
		if !at.After(now) || !at.Before(now.Add(24*time.Hour)) {
			t.Errorf("event at %s outside (now, now+24h)", at)
		}
	}
}

func TestExtremesRemoteError(t *testing.T) {
	now := time.Date(2021, time.June, 5, 13, 30, 0, 0, time.UTC)
	c := testClient(t, now, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	extremes, err := c.Extremes(55.66, 12.56, 3)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("got %v, want RemoteError", err)
	}
	if extremes != nil {
		t.Errorf("got %d extremes alongside the error", len(extremes))
	}
}
