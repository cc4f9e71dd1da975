// Package stormglass queries the Stormglass v2 tide API for hourly sea
// level and for high/low tide extremes at a lat/lon coordinate. When
// Stormglass answers HTTP 402 (the paid quota is spent), both queries
// recover locally with a synthetic semidiurnal wave, so callers always get
// a series of the requested shape. Any other upstream failure is returned
// to the caller as a RemoteError.
package stormglass
