// Package handlers wires the provider tools and the agent onto the HTTP
// API. Provider-backed endpoints cache their responses briefly so a page of
// riders refreshing does not burn the Stormglass quota.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/windwizard/windwizard/pkg/agent"
	"github.com/windwizard/windwizard/pkg/cache"
	"github.com/windwizard/windwizard/pkg/openmeteo"
	"github.com/windwizard/windwizard/pkg/profile"
	"github.com/windwizard/windwizard/pkg/spots"
	"github.com/windwizard/windwizard/pkg/stormglass"
	"github.com/windwizard/windwizard/pkg/sunset"
	"github.com/windwizard/windwizard/pkg/visualize"
)

const (
	cacheTTL = 30 * time.Minute

	defaultSeaLevelHours = 48
	defaultWindHours     = 48
	defaultExtremeDays   = 3
	defaultStokeHours    = 6
	defaultSpotRangeKm   = 150
)

// Deps carries the collaborators the handlers call. Storage and clients
// are passed in explicitly rather than constructed here.
type Deps struct {
	Tides    *stormglass.Client
	Wind     *openmeteo.Client
	DB       *gorm.DB
	Profiles *profile.Store
	Planner  *agent.Planner
}

func Register(r *mux.Router, d Deps) {
	r.Handle("/", makeIndexHandler())
	r.Handle("/api/v1/sealevel", withSession(makeSeaLevel(d.Tides))).Methods(http.MethodGet)
	r.Handle("/api/v1/extremes", withSession(makeExtremes(d.Tides))).Methods(http.MethodGet)
	r.Handle("/api/v1/wind", withSession(makeWind(d.Wind))).Methods(http.MethodGet)
	r.Handle("/api/v1/spots", withSession(makeSpots(d.DB))).Methods(http.MethodGet)
	r.Handle("/api/v1/profile/{id}", withSession(makeGetProfile(d.Profiles))).Methods(http.MethodGet)
	r.Handle("/api/v1/profile/{id}", withSession(makeSetProfile(d.Profiles))).Methods(http.MethodPost)
	r.Handle("/api/v1/stoke", withSession(makeStoke(d.Planner))).Methods(http.MethodGet)
	r.Handle("/api/v1/tidechart", withSession(makeTideChart(d.Tides))).Methods(http.MethodGet)
}

func makeIndexHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "windwizard\n")
	})
}

// makeSeaLevel serves hourly sea level for a coordinate.
func makeSeaLevel(tides *stormglass.Client) http.Handler {
	timeCache := cache.NewTimed(cacheTTL)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lat, lon, err := coordinate(r)
		if err != nil {
			badRequest(w, err)
			return
		}
		hours, err := intParam(r, "hours", defaultSeaLevelHours)
		if err != nil {
			badRequest(w, err)
			return
		}

		serveCachedJSON(w, r, timeCache, func() (interface{}, error) {
			return tides.SeaLevel(lat, lon, hours)
		})
	})
}

// makeExtremes serves the high/low tide events for a coordinate.
func makeExtremes(tides *stormglass.Client) http.Handler {
	timeCache := cache.NewTimed(cacheTTL)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lat, lon, err := coordinate(r)
		if err != nil {
			badRequest(w, err)
			return
		}
		days, err := intParam(r, "days", defaultExtremeDays)
		if err != nil {
			badRequest(w, err)
			return
		}

		serveCachedJSON(w, r, timeCache, func() (interface{}, error) {
			return tides.Extremes(lat, lon, days)
		})
	})
}

// makeWind serves the hourly wind forecast for a coordinate.
func makeWind(wind *openmeteo.Client) http.Handler {
	timeCache := cache.NewTimed(cacheTTL)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lat, lon, err := coordinate(r)
		if err != nil {
			badRequest(w, err)
			return
		}
		hours, err := intParam(r, "hours", defaultWindHours)
		if err != nil {
			badRequest(w, err)
			return
		}

		serveCachedJSON(w, r, timeCache, func() (interface{}, error) {
			return wind.Wind(lat, lon, hours)
		})
	})
}

// makeSpots serves the kite spots near a coordinate.
func makeSpots(db *gorm.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lat, lon, err := coordinate(r)
		if err != nil {
			badRequest(w, err)
			return
		}
		maxKm, err := intParam(r, "max_km", defaultSpotRangeKm)
		if err != nil {
			badRequest(w, err)
			return
		}

		near, err := spots.Near(db, lat, lon, float64(maxKm))
		if err != nil {
			serveError(w, err)
			return
		}
		serveJSON(w, near)
	})
}

func makeGetProfile(store *profile.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		serveJSON(w, store.Get(id))
	})
}

func makeSetProfile(store *profile.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		var p profile.Profile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			badRequest(w, fmt.Errorf("bad profile body: %w", err))
			return
		}
		if err := store.Set(id, p); err != nil {
			serveError(w, err)
			return
		}
		rememberUser(w, r, id)
		serveJSON(w, map[string]string{"status": "ok"})
	})
}

// makeStoke runs the agent's full tool sequence.
func makeStoke(planner *agent.Planner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lat, lon, err := coordinate(r)
		if err != nil {
			badRequest(w, err)
			return
		}
		hours, err := intParam(r, "hours", defaultStokeHours)
		if err != nil {
			badRequest(w, err)
			return
		}
		user := r.FormValue("user")
		alert := r.FormValue("alert") == "true"

		rec, err := planner.Compute(user, lat, lon, hours, alert)
		if err != nil {
			serveError(w, err)
			return
		}
		serveJSON(w, rec)
	})
}

// makeTideChart renders the coming days of tide as an SVG.
func makeTideChart(tides *stormglass.Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lat, lon, err := coordinate(r)
		if err != nil {
			badRequest(w, err)
			return
		}
		days, err := intParam(r, "days", defaultExtremeDays)
		if err != nil {
			badRequest(w, err)
			return
		}

		extremes, err := tides.Extremes(lat, lon, days)
		if err != nil {
			serveError(w, err)
			return
		}
		now := time.Now()
		sunEvents := sunset.GetSunEvents(now, time.Duration(days)*24*time.Hour, sunset.PlaceAt(lat, lon))

		img := visualize.NewTidal(extremes, sunEvents)
		img.SetDate(now)

		w.Header().Add("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		if _, err := img.Encode(w); err != nil {
			log.Printf("Failed to encode tide chart: %v", err)
		}
	})
}

// serveCachedJSON serves a cached response if any, otherwise fetches,
// serves, and caches. The cache key encapsulates the query.
func serveCachedJSON(w http.ResponseWriter, r *http.Request, timeCache *cache.Timed, fetch func() (interface{}, error)) {
	key := fmt.Sprintf("%s %s", r.Method, r.URL)

	if cached, ok := timeCache.Get(key); ok {
		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(cached)
		return
	}

	result, err := fetch()
	if err != nil {
		serveError(w, err)
		return
	}

	// duplicate the http response onto a buffer for the cache
	var toCache bytes.Buffer
	mw := io.MultiWriter(w, &toCache)

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(mw).Encode(result); err != nil {
		log.Printf("Failed to encode JSON result: %+v", err)
		return
	}
	timeCache.Set(key, toCache.Bytes())
}

func serveJSON(w http.ResponseWriter, result interface{}) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("Failed to encode JSON result: %+v", err)
	}
}

func badRequest(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, "Bad request: %v", err)
}

// serveError maps the error taxonomy onto status codes: invalid arguments
// are the caller's fault, provider failures are a bad gateway, the rest is
// on us.
func serveError(w http.ResponseWriter, err error) {
	log.Printf("Failed to get data: %+v", err)

	var sgRemote *stormglass.RemoteError
	var omRemote *openmeteo.RemoteError
	switch {
	case errors.Is(err, stormglass.ErrInvalidArgument) || errors.Is(err, openmeteo.ErrInvalidArgument):
		w.WriteHeader(http.StatusBadRequest)
	case errors.As(err, &sgRemote) || errors.As(err, &omRemote):
		w.WriteHeader(http.StatusBadGateway)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	fmt.Fprintf(w, "Failed to get data: %+v", err)
}

// coordinate reads the lat/lon query pair. No range validation; out of
// range values pass through to the providers.
func coordinate(r *http.Request) (lat, lon float64, err error) {
	lat, err = floatParam(r, "lat")
	if err != nil {
		return 0, 0, err
	}
	lon, err = floatParam(r, "lon")
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func floatParam(r *http.Request, name string) (float64, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return 0, fmt.Errorf("missing parameter %q", name)
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %w", name, err)
	}
	return val, nil
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return fallback, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %w", name, err)
	}
	return val, nil
}
