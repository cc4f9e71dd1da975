// Package openmeteo queries the Open-Meteo forecast API for hourly wind at
// a lat/lon coordinate. Open-Meteo needs no API key.
package openmeteo
