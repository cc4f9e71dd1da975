package stormglass

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
	BaseURL = "https://api.stormglass.io/v2/tide"

	hourFmt = "2006-01-02T15"
	dateFmt = "2006-01-02"

	// Upper bounds on the request windows, 10 days either way.
	MaxHours = 240
	MaxDays  = 10

	requestTimeout = 10 * time.Second
)

// ErrInvalidArgument reports a request window outside the documented bounds.
// It is returned before any network access.
var ErrInvalidArgument = errors.New("invalid argument")

// errQuotaExceeded tags the one recoverable upstream condition, HTTP 402.
// It never escapes this package; both queries recover by synthesizing.
var errQuotaExceeded = errors.New("quota exceeded")

// RemoteError is any Stormglass failure other than 402. It is not recovered.
type RemoteError struct {
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("stormglass returned status %d", e.StatusCode)
}

// Client queries Stormglass. The zero value is not usable; construct with
// New.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	// now is factored out of the wall clock for testing.
	now func() time.Time
}

// New creates a Client with the production endpoint and a 10 second request
// timeout.
func New(apiKey string) *Client {
	return &Client{
		BaseURL:    BaseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: requestTimeout},
		now:        time.Now,
	}
}

type seaLevelResult struct {
	Data []struct {
		Time string `json:"time"`
		// sg is the Stormglass composite of its sources.
		SG float64 `json:"sg"`
	} `json:"data"`
}

type extremesResult struct {
	Data []Extreme `json:"data"`
}

// SeaLevel returns hourly sea level in meters for the next hours (at most
// MaxHours) at a coordinate. On quota exhaustion the series is synthesized
// locally; the result is shaped identically either way.
func (c *Client) SeaLevel(lat, lon float64, hours int) (SeaLevelSeries, error) {
	if hours < 1 || hours > MaxHours {
		return SeaLevelSeries{}, fmt.Errorf("%w: hours must be in [1, %d], got %d", ErrInvalidArgument, MaxHours, hours)
	}

	now := c.now().UTC()
	end := now.Add(time.Duration(hours) * time.Hour)
	vals := make(url.Values)
	vals.Add("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	vals.Add("lng", strconv.FormatFloat(lon, 'f', -1, 64))
	vals.Add("start", now.Format(hourFmt))
	vals.Add("end", end.Format(hourFmt))

	var result seaLevelResult
	if err := c.get("sea-level/point", vals, &result); err != nil {
		if errors.Is(err, errQuotaExceeded) {
			return SynthesizeWave(hours, now), nil
		}
		return SeaLevelSeries{}, err
	}

	series := SeaLevelSeries{}
	for i, row := range result.Data {
		if i >= hours {
			break
		}
		series.Time = append(series.Time, row.Time)
		series.SeaLevel = append(series.SeaLevel, row.SG)
	}
	return series, nil
}

// Extremes returns the high and low tides for the next days (at most
// MaxDays) at a coordinate. The window has calendar-date granularity.
// Provider rows are passed through unmodified; on quota exhaustion the
// events come from the synthetic wave instead.
func (c *Client) Extremes(lat, lon float64, days int) ([]Extreme, error) {
	if days < 1 || days > MaxDays {
		return nil, fmt.Errorf("%w: days must be in [1, %d], got %d", ErrInvalidArgument, MaxDays, days)
	}

	now := c.now().UTC()
	vals := make(url.Values)
	vals.Add("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	vals.Add("lng", strconv.FormatFloat(lon, 'f', -1, 64))
	vals.Add("start", now.Format(dateFmt))
	vals.Add("end", now.AddDate(0, 0, days).Format(dateFmt))

	var result extremesResult
	if err := c.get("extremes", vals, &result); err != nil {
		if errors.Is(err, errQuotaExceeded) {
			return FindSyntheticExtremes(days, now), nil
		}
		return nil, err
	}
	return result.Data, nil
}

// get makes one request against the Stormglass API and decodes the JSON
// body into result.
func (c *Client) get(endpoint string, vals url.Values, result interface{}) error {
	addr, err := url.Parse(c.BaseURL + "/" + endpoint)
	if err != nil {
		return err
	}
	addr.RawQuery = vals.Encode()

	req, err := http.NewRequest(http.MethodGet, addr.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPaymentRequired {
		return errQuotaExceeded
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &RemoteError{StatusCode: resp.StatusCode}
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
