// Package visualize renders a day of tide as an inline SVG: a smooth curve
// through the high/low events with daylight and night bands behind it.
package visualize

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/windwizard/windwizard/pkg/splines"
	"github.com/windwizard/windwizard/pkg/stormglass"
	"github.com/windwizard/windwizard/pkg/sunset"
	"github.com/windwizard/windwizard/pkg/timetricks"
)

const (
	width  = 1200
	height = 300

	// The vertical scale covers ±1.5 m, enough for the synthetic ±1 m wave
	// and most real extremes.
	maxAbsHeight = 1.5
)

type tidePoint struct {
	t time.Time
	h float64
}

type Tidal struct {
	date      time.Time
	extremes  []stormglass.Extreme
	points    []tidePoint
	sunEvents sunset.SunEvents
}

// NewTidal prepares a chart over a list of tide extremes. Events whose times
// do not parse are dropped.
func NewTidal(extremes []stormglass.Extreme, sunEvents sunset.SunEvents) *Tidal {
	img := &Tidal{
		sunEvents: sunEvents,
	}
	// extremes and points stay aligned index for index.
	for _, ex := range extremes {
		at, err := ex.T()
		if err != nil {
			continue
		}
		img.extremes = append(img.extremes, ex)
		img.points = append(img.points, tidePoint{at, ex.Height})
	}
	return img
}

func (img *Tidal) SetDate(t time.Time) {
	img.date = timetricks.TrimClock(t)
}

func (img *Tidal) Encode(w io.Writer) (int, error) {
	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil {
			err = nexterr
		}
	}

	io(fmt.Fprintf(w, `<svg viewBox="0 0 %d %d" onclick="" xmlns="http://www.w3.org/2000/svg">`, width, height))

	// Calculate dawn/dusk and draw the sunshine.
	sunupIndex, ok := img.sunup(img.date)
	if !ok || sunupIndex+1 > len(img.sunEvents) {
		return n, fmt.Errorf("Not enough sun data")
	}
	sunup := img.sunEvents[sunupIndex]
	sundown := img.sunEvents[sunupIndex+1]
	risex := img.timeToX(sunup.Time)
	setx := img.timeToX(sundown.Time)
	io(fmt.Fprintf(w, `<rect class="daytime" fill="lightyellow" x="%d" y="%d" width="%d" height="%d"/>`,
		risex, 0,
		setx-risex, height))

	// Draw markers for tide levels.
	io(fmt.Fprintf(w, `<rect class="high_band" fill="#e76f51" x="%d" y="%d" width="%d" height="%d"/>`,
		0, tideHeightToY(1),
		width, tideHeightToY(0.5)-tideHeightToY(1)+1))
	io(fmt.Fprintf(w, `<rect class="mid_band" fill="#f4a261" x="%d" y="%d" width="%d" height="%d"/>`,
		0, tideHeightToY(0.5),
		width, tideHeightToY(0)-tideHeightToY(0.5)+1))
	io(fmt.Fprintf(w, `<rect class="low_band" fill="#e9c46a" x="%d" y="%d" width="%d" height="%d"/>`,
		0, tideHeightToY(0),
		width, tideHeightToY(-maxAbsHeight)-tideHeightToY(0)+1))

	// Choose the first tide event to start from. Should be off screen; if
	// not, just start at the beginning.
	i, ok := img.indexPointPreceding(img.date)
	if !ok {
		i = 0
	}
	startI, endI := i, i

	for ; i+1 < len(img.points); i += 1 {
		x1 := img.timeToX(img.points[i].t)
		y1 := tideHeightToY(img.points[i].h)
		if int(x1) > width {
			break
		}
		endI = i + 1
		io(fmt.Fprintf(w, `<path class="tide" fill="skyblue" d="M %d,%d `, x1, y1))

		x2 := img.timeToX(img.points[i+1].t) + 1 // +1 to create overlap
		y2 := tideHeightToY(img.points[i+1].h)

		cx1, cy1 := (x1+x2)/2, y1
		cx2, cy2 := cx1, y2

		io(fmt.Fprintf(w, `C %d,%d %d,%d %d,%d `,
			cx1, cy1,
			cx2, cy2,
			x2, y2))

		io(fmt.Fprintf(w, `L %d,%d L %d,%d z"/>`, x2, height, x1, height))
	}

	// Draw the night time shadows.
	io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
		0, 0,
		risex, height))
	io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
		setx, 0,
		width-setx, height))

	// Insert spline data as JSON.
	var spline splines.Spline
	if endI+1 <= len(img.extremes) {
		spline = splines.CurvesBetween(img.extremes[startI : endI+1])
	}
	io(fmt.Fprintf(w, `<text class="spline" visibility="hidden">`))
	json.NewEncoder(w).Encode(spline)
	io(fmt.Fprintf(w, `</text>`))

	// Insert date of this graph as unix.
	io(fmt.Fprintf(w, `<text class="unixtime" visibility="hidden">%d</text>`, img.date.Unix()))

	io(fmt.Fprintf(w, `</svg>`))

	return n, err
}

func (img *Tidal) indexPointPreceding(t time.Time) (int, bool) {
	left, right := 0, len(img.points)
	for right-left > 1 {
		mid := (left + right) / 2
		midt := img.points[mid].t
		if midt.Before(t) {
			left = mid
		} else if midt.After(t) {
			right = mid
		} else if midt.Equal(t) {
			return mid, true
		}
	}
	ok := left < len(img.points)
	return left, ok
}

func (img *Tidal) sunup(t time.Time) (int, bool) {
	for i := 0; i < len(img.sunEvents); i++ {
		if img.sunEvents[i].Time.After(t) {
			return i, true
		}
	}
	return 0, false
}

func tideHeightToY(h float64) int {
	// Scaling ratio of img height to 2*maxAbsHeight meters of tide variance.
	return height/2 - int(h*(height/(2*maxAbsHeight)))
}

func (img *Tidal) timeToX(t time.Time) int {
	return int(t.Unix()-img.date.Unix()) * width / (60 * 60 * 24)
}
