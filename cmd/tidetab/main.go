// Command tidetab prints a tide table for a coordinate: hourly sea level
// for the next day plus the high/low events for the next few days. Without
// a STORMGLASS_API_KEY it is effectively a viewer for the synthetic wave.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/windwizard/windwizard/pkg/stormglass"
)

func main() {
	lat := flag.Float64("lat", 55.66, "latitude in decimal degrees")
	lon := flag.Float64("lon", 12.56, "longitude in decimal degrees")
	hours := flag.Int("hours", 24, "hours of sea level to print")
	days := flag.Int("days", 3, "days of extremes to print")
	flag.Parse()

	tides := stormglass.New(os.Getenv("STORMGLASS_API_KEY"))

	series, err := tides.SeaLevel(*lat, *lon, *hours)
	if err != nil {
		fmt.Printf("failed to fetch sea level: %v\n", err)
		return
	}
	for i := range series.Time {
		fmt.Printf("%s  % .3f m\n", series.Time[i], series.SeaLevel[i])
	}

	extremes, err := tides.Extremes(*lat, *lon, *days)
	if err != nil {
		fmt.Printf("failed to fetch extremes: %v\n", err)
		return
	}
	fmt.Println()
	for _, ex := range extremes {
		fmt.Printf("%s  % .3f m  %s tide\n", ex.Time, ex.Height, ex.Kind)
	}
}
