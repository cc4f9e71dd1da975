package openmeteo

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New()
	c.BaseURL = srv.URL
	return c
}

func TestWind(t *testing.T) {
	var gotQuery map[string][]string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"hourly": {
			"time": ["2021-06-05T13:00", "2021-06-05T14:00", "2021-06-05T15:00"],
			"windspeed_10m": [12.1, 14.9, 17.2],
			"winddirection_10m": [270, 265, 250]
		}}`)
	})

	forecast, err := c.Wind(55.66, 12.56, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantQuery := map[string][]string{
		"latitude":  {"55.66"},
		"longitude": {"12.56"},
		"hourly":    {"windspeed_10m,winddirection_10m"},
		"timezone":  {"auto"},
	}
	if diff := cmp.Diff(wantQuery, gotQuery); diff != "" {
		t.Errorf("wrong query (-want,+got):\n%s", diff)
	}

	want := WindForecast{
		Time:          []string{"2021-06-05T13:00", "2021-06-05T14:00"},
		WindSpeed10m:  []float64{12.1, 14.9},
		WindDirection: []float64{270, 265},
	}
	if diff := cmp.Diff(want, forecast); diff != "" {
		t.Errorf("wrong forecast (-want,+got):\n%s", diff)
	}
}

func TestWindBounds(t *testing.T) {
	c := New()
	c.HTTPClient = nil
	for _, hours := range []int{0, 169} {
		if _, err := c.Wind(55.66, 12.56, hours); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("hours=%d: got %v, want ErrInvalidArgument", hours, err)
		}
	}
}

func TestWindRemoteError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Wind(55.66, 12.56, 24)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("got %v, want RemoteError", err)
	}
	if remote.StatusCode != http.StatusBadGateway {
		t.Errorf("got status %d, want 502", remote.StatusCode)
	}
}
