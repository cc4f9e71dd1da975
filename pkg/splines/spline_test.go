package splines

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/windwizard/windwizard/pkg/stormglass"
)

func ExampleDiscrete() {
	tstart := time.Date(2021, time.April, 3, 10, 30, 0, 0, time.UTC)
	extremes := []stormglass.Extreme{{
		Time:   tstart.Format(time.RFC3339),
		Height: 10,
		Kind:   stormglass.HighTide,
	}, {
		Time:   tstart.Add(1000 * time.Hour).Format(time.RFC3339),
		Height: 1,
		Kind:   stormglass.LowTide,
	}}
	discrete := Discrete(CurvesBetween(extremes), 10)
	for i := range discrete {
		fmt.Println(math.Round(discrete[i]))
	}
	// Output:
	// 10
	// 10
	// 9
	// 8
	// 6
	// 5
	// 3
	// 2
	// 1
	// 1
}

func TestCurveEndpoints(t *testing.T) {
	tstart := time.Date(2021, time.June, 5, 13, 0, 0, 0, time.UTC)
	extremes := []stormglass.Extreme{{
		Time:   tstart.Format(time.RFC3339),
		Height: 0.9,
		Kind:   stormglass.HighTide,
	}, {
		Time:   tstart.Add(6 * time.Hour).Format(time.RFC3339),
		Height: -0.9,
		Kind:   stormglass.LowTide,
	}}

	spline := CurvesBetween(extremes)
	if len(spline) != 1 {
		t.Fatalf("got %d curves, want 1", len(spline))
	}

	if got := spline.Eval(tstart); math.Abs(got-0.9) > 1e-6 {
		t.Errorf("height at start = %v, want 0.9", got)
	}
	if got := spline.Eval(tstart.Add(6 * time.Hour)); math.Abs(got+0.9) > 1e-6 {
		t.Errorf("height at end = %v, want -0.9", got)
	}
	// Halfway through, the smooth link crosses the midpoint.
	if got := spline.Eval(tstart.Add(3 * time.Hour)); math.Abs(got) > 1e-6 {
		t.Errorf("height at midpoint = %v, want 0", got)
	}

	if got := spline.Eval(tstart.Add(-time.Hour)); !math.IsNaN(got) {
		t.Errorf("height before the window = %v, want NaN", got)
	}
}

func TestCurvesBetweenSkipsBadTimes(t *testing.T) {
	tstart := time.Date(2021, time.June, 5, 13, 0, 0, 0, time.UTC)
	extremes := []stormglass.Extreme{{
		Time:   tstart.Format(time.RFC3339),
		Height: 1,
	}, {
		Time:   "not a time",
		Height: 5,
	}, {
		Time:   tstart.Add(6 * time.Hour).Format(time.RFC3339),
		Height: -1,
	}}

	if got := CurvesBetween(extremes); len(got) != 1 {
		t.Errorf("got %d curves, want 1 after skipping the bad row", len(got))
	}
}
