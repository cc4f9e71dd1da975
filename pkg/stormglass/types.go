package stormglass

import (
	"encoding/json"
	"fmt"
	"time"
)

// SeaLevelSeries is an hourly time series of sea level. Time and SeaLevel
// run in parallel, one entry per hour, times in ISO-8601 and heights in
// meters.
type SeaLevelSeries struct {
	Time     []string  `json:"time"`
	SeaLevel []float64 `json:"sea_level"`
}

// Len returns the number of samples in the series.
func (s SeaLevelSeries) Len() int {
	return len(s.Time)
}

// Extreme is a single high or low tide event.
type Extreme struct {
	// ISO-8601 time of the event
	Time string `json:"time"`
	// Height in meters
	Height float64 `json:"height"`
	// High or Low tide, "high" or "low" when encoded
	Kind Tide `json:"type"`
}

// T parses the event time. Events generated locally always parse; provider
// rows are passed through as-is and may fail.
func (e Extreme) T() (time.Time, error) {
	return time.Parse(time.RFC3339, e.Time)
}

func (e Extreme) String() string {
	return fmt.Sprintf("{time: %s, height: %f, type: %s}", e.Time, e.Height, e.Kind)
}

// Verify the custom type round-trips through JSON
var _ json.Unmarshaler = new(Tide)
var _ json.Marshaler = HighTide

// Tide encodes whether an extreme is a high or low tide.
type Tide uint

const (
	HighTide Tide = iota
	LowTide
)

func (t Tide) Valid() bool {
	return t == HighTide || t == LowTide
}

func (t *Tide) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("tide type %q not a string: %w", buf, err)
	}
	switch s {
	case "high":
		*t = HighTide
	case "low":
		*t = LowTide
	default:
		return fmt.Errorf("invalid tide type %q", s)
	}
	return nil
}

func (t Tide) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tide type %d", t)
	}
	return json.Marshal(t.String())
}

func (t Tide) String() string {
	switch t {
	case HighTide:
		return "high"
	case LowTide:
		return "low"
	default:
		return "invalid"
	}
}
