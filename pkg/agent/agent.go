// Package agent sequences the provider tools into one kitesurf
// recommendation: profile, then wind, then tide, combined into a stoke
// score with a kite size suggestion and an optional SMS alert.
package agent

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/windwizard/windwizard/pkg/metrics"
	"github.com/windwizard/windwizard/pkg/notify"
	"github.com/windwizard/windwizard/pkg/openmeteo"
	"github.com/windwizard/windwizard/pkg/profile"
	"github.com/windwizard/windwizard/pkg/stormglass"
	"github.com/windwizard/windwizard/pkg/sunset"
)

const (
	// Scores at or above this fire an alert when asked for.
	AlertThreshold = 60

	clockFmt = "3:04 PM"
)

// Conditions is the set of data a recommendation is computed from.
type Conditions struct {
	At        time.Time
	Wind      openmeteo.WindForecast
	Tide      stormglass.SeaLevelSeries
	Profile   profile.Profile
	SunEvents sunset.SunEvents
}

// Recommendation is the agent's verdict for one rider at one spot.
type Recommendation struct {
	Profile profile.Profile `json:"profile"`
	Score   int             `json:"stoke"`
	Kite    string          `json:"kite"`
	Message string          `json:"message"`
}

// Stoke scores a set of Conditions from 0 to 100 and picks a kite.
func Stoke(c Conditions) Recommendation {
	avgWind := mean(c.Wind.WindSpeed10m)
	avgTide := mean(c.Tide.SeaLevel)

	score := int(avgWind*4 + avgTide*10)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	kite := kiteFor(avgWind)
	msg := fmt.Sprintf("Avg wind %.1f kt, tide %.2f m. Stoke %d/100. Use %s.",
		avgWind, avgTide, score, kite)
	if _, set, ok := sunset.DaylightAt(c.At, c.SunEvents); ok {
		msg += fmt.Sprintf(" Daylight until %s.", set.Time.Format(clockFmt))
	}

	return Recommendation{
		Profile: c.Profile,
		Score:   score,
		Kite:    kite,
		Message: msg,
	}
}

// kiteFor picks a kite size for an average wind speed.
func kiteFor(avgWind float64) string {
	switch {
	case avgWind < 10:
		return "Too little wind"
	case avgWind < 15:
		return "12m kite"
	case avgWind < 20:
		return "9m kite"
	default:
		return "7m kite"
	}
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	m := sum / float64(len(vals))
	if math.IsNaN(m) {
		return 0
	}
	return m
}

// Planner owns the tool clients the agent calls, in call order.
type Planner struct {
	Tides    *stormglass.Client
	Wind     *openmeteo.Client
	Profiles *profile.Store
	Notifier *notify.Client
}

// Compute runs the full tool sequence for one rider at one spot and
// optionally texts them when the score clears AlertThreshold.
func (p *Planner) Compute(userID string, lat, lon float64, hours int, alert bool) (Recommendation, error) {
	prof := p.Profiles.Get(userID).WithDefaults()

	wind, err := p.Wind.Wind(lat, lon, hours)
	if err != nil {
		return Recommendation{}, fmt.Errorf("wind forecast: %w", err)
	}

	tide, err := p.Tides.SeaLevel(lat, lon, hours)
	if err != nil {
		return Recommendation{}, fmt.Errorf("sea level: %w", err)
	}

	now := time.Now()
	sun := sunset.GetSunEvents(now, time.Duration(hours)*time.Hour, sunset.PlaceAt(lat, lon))

	rec := Stoke(Conditions{
		At:        now,
		Wind:      wind,
		Tide:      tide,
		Profile:   prof,
		SunEvents: sun,
	})

	if alert && rec.Score >= AlertThreshold && prof.Phone != "" {
		if _, err := p.Notifier.SendSMS(prof.Phone, rec.Message); err != nil {
			// A failed alert should not fail the recommendation.
			log.Printf("Failed to send stoke alert to %q: %v", userID, err)
		} else {
			metrics.ObserveAlertSent()
		}
	}

	return rec, nil
}
