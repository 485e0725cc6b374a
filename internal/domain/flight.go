// Package domain contains the core data types for the flight insights dashboard.
// This package has no dependencies on other internal packages and is imported
// by every one of them (sources, analysis, repo, service, handler, dashboard).
package domain

// Flight is a single flight record as reported by a flight source.
// It doubles as a row of the dashboard table: the table_data field of the
// insights payload is a list of Flights, and the dashboard renders route,
// date/time, airline, flight number and status from it.
//
// Every string field may be empty; sources fill in what they know.
type Flight struct {
	Route         string `json:"route" csv:"route"`
	DateTime      string `json:"date_time" csv:"date_time"`
	Airline       string `json:"airline" csv:"airline"`
	FlightNumber  string `json:"flight_number" csv:"flight_number"`
	Status        string `json:"status" csv:"status"`
	DepartureTime string `json:"departure_time,omitempty" csv:"departure_time"`
	ArrivalTime   string `json:"arrival_time,omitempty" csv:"arrival_time"`

	// Price is nil when the source does not publish fares (AviationStack never does).
	Price *float64 `json:"price,omitempty" csv:"price,omitempty"`
}

// Known flight statuses. Anything else is displayed as "Unknown" by the dashboard.
const (
	StatusScheduled = "scheduled"
	StatusDelayed   = "delayed"
	StatusCancelled = "cancelled"
)
