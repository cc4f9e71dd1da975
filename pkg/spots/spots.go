// Package spots looks up kite spots near a coordinate from Postgres.
package spots

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const earthRadiusKm = 6371

// Spot is a rideable location.
type Spot struct {
	gorm.Model
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// DistanceKm is filled in by Near relative to the queried coordinate.
	// Not stored.
	DistanceKm float64 `json:"distance_km" gorm:"-"`
}

func PostgresFromEnvOrDie() *gorm.DB {
	pw := os.Getenv("PGPASSWORD")
	host := os.Getenv("PGHOST")
	port := os.Getenv("PGPORT")
	dsn := fmt.Sprintf("host=%s user=postgres password=%s dbname=windwizard port=%s sslmode=disable TimeZone=UTC",
		host,
		pw,
		port)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect to database")
	}
	db.AutoMigrate(&Spot{})
	return db
}

// Near returns the spots within maxKm of a coordinate, closest first, with
// DistanceKm filled in.
func Near(db *gorm.DB, lat, lon float64, maxKm float64) ([]Spot, error) {
	var all []Spot
	if r := db.Find(&all); r.Error != nil {
		return nil, r.Error
	}

	near := []Spot{}
	for _, s := range all {
		s.DistanceKm = haversineKm(lat, lon, s.Latitude, s.Longitude)
		if s.DistanceKm <= maxKm {
			near = append(near, s)
		}
	}
	sort.Slice(near, func(i, j int) bool {
		return near[i].DistanceKm < near[j].DistanceKm
	})
	return near, nil
}

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
