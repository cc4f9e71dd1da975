package stormglass

import (
	"math"
	"time"
)

// The semidiurnal lunar tidal period, 12.42 hours in seconds.
const tidePeriod = 12.42 * 60 * 60

// SynthesizeWave generates hours consecutive hourly samples of a unit
// semidiurnal sine wave starting at start. The phase is anchored to the
// Unix epoch rather than to start, so two calls whose windows overlap in
// absolute time agree exactly on the overlap. Location plays no part.
// Heights are in meters on an arbitrary ±1 scale.
func SynthesizeWave(hours int, start time.Time) SeaLevelSeries {
	series := SeaLevelSeries{
		Time:     make([]string, hours),
		SeaLevel: make([]float64, hours),
	}
	for h := 0; h < hours; h++ {
		t := start.Add(time.Duration(h) * time.Hour).UTC()
		seconds := float64(t.Unix())
		series.Time[h] = t.Format(time.RFC3339)
		series.SeaLevel[h] = math.Sin(2 * math.Pi * seconds / tidePeriod)
	}
	return series
}

// FindSyntheticExtremes samples the synthetic wave hourly over days of
// lookahead and returns its local extremes in chronological order. The
// sampling window is days*24+1 hours so the scan can see one sample past
// the last full day; a peak right on the boundary is still detected. The
// first and last samples have no two-sided neighborhood and never produce
// events.
func FindSyntheticExtremes(days int, start time.Time) []Extreme {
	hours := days * 24
	wave := SynthesizeWave(hours+1, start)
	return scanExtremes(wave)
}

// scanExtremes walks the interior samples of a series and emits every local
// maximum as a high tide and every local minimum as a low. A flat sample
// passes both tests; the high test runs first, so plateaus classify as high
// tide.
func scanExtremes(wave SeaLevelSeries) []Extreme {
	levels := wave.SeaLevel
	var extremes []Extreme
	for i := 1; i < len(levels)-1; i++ {
		if levels[i] >= levels[i-1] && levels[i] >= levels[i+1] {
			extremes = append(extremes, Extreme{Time: wave.Time[i], Height: levels[i], Kind: HighTide})
		} else if levels[i] <= levels[i-1] && levels[i] <= levels[i+1] {
			extremes = append(extremes, Extreme{Time: wave.Time[i], Height: levels[i], Kind: LowTide})
		}
	}
	return extremes
}
