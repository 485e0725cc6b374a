// Package aviationstack is a client for the AviationStack flights API
// (https://aviationstack.com/documentation). Only the real-time flights
// endpoint is used; the free tier serves the current day only.
package aviationstack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkordes/flight-dashboard/internal/domain"
)

// DefaultBaseURL is the API root used when none is configured.
const DefaultBaseURL = "http://api.aviationstack.com/v1"

const defaultTimeout = 10 * time.Second

// Errors reported by the API in its error envelope. Both wrap domain.ErrUpstream.
var (
	ErrInvalidAccessKey = fmt.Errorf("%w: invalid access key", domain.ErrUpstream)
	ErrUsageLimit       = fmt.Errorf("%w: usage limit reached", domain.ErrUpstream)
)

// Client fetches flights for a departure airport.
type Client struct {
	baseURL   string
	accessKey string
	http      *http.Client
	now       func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client, which has a 10 second timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock overrides time.Now. It supplies the date for flights that
// come back without one.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient returns a client for the API at baseURL. An empty baseURL means
// DefaultBaseURL.
func NewClient(baseURL, accessKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		http:      &http.Client{Timeout: defaultTimeout},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// response is the subset of the /flights envelope we read. Data is a
// pointer so a missing field can be told apart from an empty list.
type response struct {
	Data  *[]flightItem `json:"data"`
	Error *apiError     `json:"error"`
}

type flightItem struct {
	FlightDate   string   `json:"flight_date"`
	FlightStatus string   `json:"flight_status"`
	Departure    endpoint `json:"departure"`
	Arrival      endpoint `json:"arrival"`
	Airline      struct {
		Name string `json:"name"`
	} `json:"airline"`
	Flight struct {
		Number string `json:"number"`
	} `json:"flight"`
}

type endpoint struct {
	IATA      string `json:"iata"`
	Scheduled string `json:"scheduled"`
}

type apiError struct {
	Code    json.RawMessage `json:"code"`
	Type    string          `json:"type"`
	Message string          `json:"message"`
}

// err maps the envelope's error code to a sentinel. Codes arrive as numbers
// (101) or strings ("101"), depending on the API version.
func (e *apiError) err() error {
	code := string(bytes.Trim(e.Code, `"`))
	switch {
	case code == "101" || e.Type == "invalid_access_key":
		return ErrInvalidAccessKey
	case code == "104" || e.Type == "usage_limit_reached":
		return ErrUsageLimit
	default:
		return fmt.Errorf("%w: code %s: %s", domain.ErrUpstream, code, e.Message)
	}
}

// Flights returns today's flights departing q.Origin, narrowed to
// q.Destination when it is set. q.Start is not sent: the API only serves the
// current day on the free tier.
func (c *Client) Flights(ctx context.Context, q domain.Query) ([]domain.Flight, error) {
	params := url.Values{}
	params.Set("access_key", c.accessKey)
	params.Set("dep_iata", q.Origin)
	if q.Destination != "" {
		params.Set("arr_iata", q.Destination)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/flights?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("aviationstack.Client.Flights: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aviationstack.Client.Flights: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	var body response
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	// The API reports key and quota problems with a 4xx status and an error
	// envelope; prefer the envelope when there is one.
	if decodeErr == nil && body.Error != nil {
		return nil, fmt.Errorf("aviationstack.Client.Flights: %w", body.Error.err())
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("aviationstack.Client.Flights: %w: status %d", domain.ErrUpstream, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("aviationstack.Client.Flights: %w: decode: %w", domain.ErrUpstream, decodeErr)
	}
	if body.Data == nil {
		return nil, fmt.Errorf("aviationstack.Client.Flights: %w: response has no data field", domain.ErrUpstream)
	}

	today := c.now().UTC().Format(domain.DateLayout)
	flights := make([]domain.Flight, 0, len(*body.Data))
	for _, item := range *body.Data {
		flights = append(flights, item.toFlight(today))
	}
	return flights, nil
}

func (it flightItem) toFlight(today string) domain.Flight {
	date := it.FlightDate
	if date == "" {
		date = today
	}
	return domain.Flight{
		Route:         it.Departure.IATA + "-" + it.Arrival.IATA,
		DateTime:      date,
		Airline:       it.Airline.Name,
		FlightNumber:  it.Flight.Number,
		Status:        it.FlightStatus,
		DepartureTime: it.Departure.Scheduled,
		ArrivalTime:   it.Arrival.Scheduled,
	}
}
