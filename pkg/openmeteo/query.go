package openmeteo

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	BaseURL = "https://api.open-meteo.com/v1/forecast"

	// Open-Meteo serves 7 days of hourly forecast.
	MaxHours = 168

	requestTimeout = 10 * time.Second
)

// ErrInvalidArgument reports a request window outside the documented bounds.
var ErrInvalidArgument = errors.New("invalid argument")

// RemoteError is any non-2xx answer from Open-Meteo.
type RemoteError struct {
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("open-meteo returned status %d", e.StatusCode)
}

// WindForecast is an hourly wind time series. The three arrays run in
// parallel, times in ISO-8601, speeds in the provider's default unit and
// directions in degrees.
type WindForecast struct {
	Time          []string  `json:"time"`
	WindSpeed10m  []float64 `json:"windspeed_10m"`
	WindDirection []float64 `json:"winddirection_10m"`
}

// Len returns the number of samples in the forecast.
func (f WindForecast) Len() int {
	return len(f.Time)
}

type forecastResult struct {
	Hourly struct {
		Time          []string  `json:"time"`
		WindSpeed10m  []float64 `json:"windspeed_10m"`
		WindDirection []float64 `json:"winddirection_10m"`
	} `json:"hourly"`
}

// Client queries Open-Meteo. Construct with New.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New() *Client {
	return &Client{
		BaseURL:    BaseURL,
		HTTPClient: &http.Client{Timeout: requestTimeout},
	}
}

// Wind returns the wind forecast for the next hours (at most MaxHours) at a
// coordinate, truncated to exactly hours samples.
func (c *Client) Wind(lat, lon float64, hours int) (WindForecast, error) {
	if hours < 1 || hours > MaxHours {
		return WindForecast{}, fmt.Errorf("%w: hours must be in [1, %d], got %d", ErrInvalidArgument, MaxHours, hours)
	}

	addr, err := url.Parse(c.BaseURL)
	if err != nil {
		return WindForecast{}, err
	}
	vals := make(url.Values)
	vals.Add("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	vals.Add("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	vals.Add("hourly", "windspeed_10m,winddirection_10m")
	vals.Add("timezone", "auto")
	addr.RawQuery = vals.Encode()

	resp, err := c.HTTPClient.Get(addr.String())
	if err != nil {
		return WindForecast{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return WindForecast{}, &RemoteError{StatusCode: resp.StatusCode}
	}

	var result forecastResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return WindForecast{}, err
	}

	forecast := WindForecast{
		Time:          result.Hourly.Time,
		WindSpeed10m:  result.Hourly.WindSpeed10m,
		WindDirection: result.Hourly.WindDirection,
	}
	if forecast.Len() > hours {
		forecast.Time = forecast.Time[:hours]
		forecast.WindSpeed10m = forecast.WindSpeed10m[:hours]
		forecast.WindDirection = forecast.WindDirection[:hours]
	}
	return forecast, nil
}
