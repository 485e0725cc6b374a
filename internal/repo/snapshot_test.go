package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/flight-dashboard/internal/domain"
	"github.com/pkordes/flight-dashboard/internal/repo"
	"github.com/pkordes/flight-dashboard/testutil"
)

// newTestRepo returns a SnapshotRepo running inside a transaction that is
// rolled back when the test finishes.
func newTestRepo(t *testing.T) repo.SnapshotRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewSnapshotRepo(tx)
}

func queryFixture() domain.Query {
	return domain.Query{
		Origin:      "SYD",
		Destination: "MEL",
		Start:       time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}
}

func flightsFixture() []domain.Flight {
	price := 149.0
	return []domain.Flight{
		{Route: "SYD-MEL", DateTime: "2025-06-02", Airline: "Qantas", FlightNumber: "401", Status: "scheduled",
			DepartureTime: "2025-06-02T06:00:00+00:00", ArrivalTime: "2025-06-02T07:35:00+00:00"},
		{Route: "SYD-MEL", DateTime: "2025-06-02", Airline: "Jetstar", FlightNumber: "502", Status: "delayed", Price: &price},
	}
}

func TestSnapshotRepo_Save(t *testing.T) {
	r := newTestRepo(t)

	got, err := r.Save(context.Background(), queryFixture(), "aviationstack", flightsFixture())

	require.NoError(t, err)
	assert.NotEqual(t, [16]byte{}, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, "SYD", got.Query.Origin)
	assert.Equal(t, "MEL", got.Query.Destination)
	assert.True(t, got.Query.Start.Equal(queryFixture().Start), "search date mismatch")
	assert.Equal(t, "aviationstack", got.Source)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
	assert.Len(t, got.Flights, 2)
}

func TestSnapshotRepo_Latest_RoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	saved, err := r.Save(ctx, queryFixture(), "aviationstack", flightsFixture())
	require.NoError(t, err)

	got, err := r.Latest(ctx, queryFixture())

	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, flightsFixture(), got.Flights, "flights keep their order and nullable price")
}

func TestSnapshotRepo_Latest_CaseInsensitiveCodes(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.Save(ctx, queryFixture(), "scraper", flightsFixture())
	require.NoError(t, err)

	q := queryFixture()
	q.Origin, q.Destination = "syd", "mel"
	got, err := r.Latest(ctx, q)

	require.NoError(t, err)
	assert.Equal(t, "scraper", got.Source)
}

func TestSnapshotRepo_Latest_EmptyFlights(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.Save(ctx, queryFixture(), "aviationstack", nil)
	require.NoError(t, err)

	got, err := r.Latest(ctx, queryFixture())

	require.NoError(t, err)
	assert.NotNil(t, got.Flights)
	assert.Empty(t, got.Flights)
}

func TestSnapshotRepo_Latest_NotFound(t *testing.T) {
	r := newTestRepo(t)

	q := queryFixture()
	q.Start = q.Start.AddDate(0, 0, 1)
	_, err := r.Latest(context.Background(), q)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotRepo_Latest_OtherDestinationDoesNotMatch(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.Save(ctx, queryFixture(), "aviationstack", flightsFixture())
	require.NoError(t, err)

	q := queryFixture()
	q.Destination = ""
	_, err = r.Latest(ctx, q)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
