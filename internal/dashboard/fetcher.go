package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkordes/flight-dashboard/internal/domain"
)

// Fetcher loads insights for a selection.
type Fetcher interface {
	Fetch(ctx context.Context, sel domain.Selection) (domain.Insights, error)
}

// HTTPFetcher reads insights from an insights API over HTTP
// (GET {baseURL}/api/data).
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher returns a fetcher for the API rooted at baseURL.
// A nil client means a plain http.Client: no timeout beyond the transport's own.
func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPFetcher{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// URL returns the request URL for sel. Values are interpolated verbatim,
// without percent-encoding: a value containing '&', '#' or spaces produces a
// different (or invalid) query.
func (f *HTTPFetcher) URL(sel domain.Selection) string {
	return fmt.Sprintf("%s/api/data?origin=%s&destination=%s&start=%s",
		f.baseURL, sel.Origin, sel.Destination, sel.Date)
}

// Fetch issues the request and decodes the JSON body.
// The HTTP status is not inspected: any response whose body decodes as a
// JSON object is a success, even a 4xx or 5xx. A body holding anything after
// that object, or the literal null, is malformed.
func (f *HTTPFetcher) Fetch(ctx context.Context, sel domain.Selection) (domain.Insights, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(sel), nil)
	if err != nil {
		return domain.Insights{}, fmt.Errorf("dashboard.HTTPFetcher.Fetch: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.Insights{}, fmt.Errorf("dashboard.HTTPFetcher.Fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Insights{}, fmt.Errorf("dashboard.HTTPFetcher.Fetch: read: %w", err)
	}
	out, err := decodeInsights(body)
	if err != nil {
		return domain.Insights{}, fmt.Errorf("dashboard.HTTPFetcher.Fetch: decode: %w", err)
	}
	return out, nil
}

var errNullBody = errors.New("null body")

// wireInsights is the payload as a third-party backend may send it. Table
// cells are taken as text whatever their JSON type, so a numeric status is
// simply not a known status.
type wireInsights struct {
	TopRoutes   []domain.Point `json:"top_routes"`
	PriceTrends []domain.Point `json:"price_trends"`
	TableData   []wireFlight   `json:"table_data"`
}

type wireFlight struct {
	Route         text            `json:"route"`
	DateTime      text            `json:"date_time"`
	Airline       text            `json:"airline"`
	FlightNumber  text            `json:"flight_number"`
	Status        text            `json:"status"`
	DepartureTime text            `json:"departure_time"`
	ArrivalTime   text            `json:"arrival_time"`
	Price         json.RawMessage `json:"price"`
}

// text decodes any JSON scalar as its text: strings as themselves, numbers
// and booleans in literal form. null, objects and arrays become "".
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	switch {
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
	case bytes.Equal(b, []byte("null")), len(b) > 0 && (b[0] == '{' || b[0] == '['):
		*t = ""
	default:
		*t = text(b)
	}
	return nil
}

func decodeInsights(body []byte) (domain.Insights, error) {
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return domain.Insights{}, errNullBody
	}
	// Unmarshal, unlike a Decoder, rejects trailing data.
	var w wireInsights
	if err := json.Unmarshal(body, &w); err != nil {
		return domain.Insights{}, err
	}

	out := domain.Insights{TopRoutes: w.TopRoutes, PriceTrends: w.PriceTrends}
	if w.TableData != nil {
		out.TableData = make([]domain.Flight, 0, len(w.TableData))
	}
	for _, f := range w.TableData {
		row := domain.Flight{
			Route:         string(f.Route),
			DateTime:      string(f.DateTime),
			Airline:       string(f.Airline),
			FlightNumber:  string(f.FlightNumber),
			Status:        string(f.Status),
			DepartureTime: string(f.DepartureTime),
			ArrivalTime:   string(f.ArrivalTime),
		}
		var price float64
		if len(f.Price) > 0 && !bytes.Equal(f.Price, []byte("null")) && json.Unmarshal(f.Price, &price) == nil {
			row.Price = &price
		}
		out.TableData = append(out.TableData, row)
	}
	return out, nil
}
