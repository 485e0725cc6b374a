// Package repo contains all database access logic for the flight insights
// service. No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/flight-dashboard/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SnapshotRepo persists the flights fetched for each search.
type SnapshotRepo interface {
	// Save stores flights as a new search for q and returns the stored
	// snapshot with its DB-generated id and created_at.
	Save(ctx context.Context, q domain.Query, source string, flights []domain.Flight) (domain.Snapshot, error)

	// Latest returns the most recent snapshot for the same origin,
	// destination and day as q. Airport codes compare case-insensitively.
	// Returns domain.ErrNotFound if there is none.
	Latest(ctx context.Context, q domain.Query) (domain.Snapshot, error)
}

type pgSnapshotRepo struct {
	db db
}

// NewSnapshotRepo constructs a SnapshotRepo backed by the provided db connection.
func NewSnapshotRepo(db db) SnapshotRepo {
	return &pgSnapshotRepo{db: db}
}

var flightColumns = []string{
	"search_id", "position", "route", "date_time", "airline", "flight_number",
	"status", "price", "departure_time", "arrival_time",
}

// Save inserts the search row and copies the flights in one transaction.
func (r *pgSnapshotRepo) Save(ctx context.Context, q domain.Query, source string, flights []domain.Flight) (domain.Snapshot, error) {
	const insertSearch = `
		INSERT INTO searches (origin, destination, search_date, source)
		VALUES (@origin, @destination, @search_date, @source)
		RETURNING id, origin, destination, search_date, source, created_at`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("repo.SnapshotRepo.Save: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	args := pgx.NamedArgs{
		"origin":      q.Origin,
		"destination": q.Destination,
		"search_date": q.Start,
		"source":      source,
	}
	snap, err := scanSearch(tx.QueryRow(ctx, insertSearch, args))
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("repo.SnapshotRepo.Save: %w", err)
	}

	rows := make([][]any, 0, len(flights))
	for i, f := range flights {
		rows = append(rows, []any{
			snap.ID, i, f.Route, f.DateTime, f.Airline, f.FlightNumber,
			f.Status, f.Price, f.DepartureTime, f.ArrivalTime,
		})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"flights"}, flightColumns, pgx.CopyFromRows(rows)); err != nil {
		return domain.Snapshot{}, fmt.Errorf("repo.SnapshotRepo.Save: copy flights: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Snapshot{}, fmt.Errorf("repo.SnapshotRepo.Save: commit: %w", err)
	}

	snap.Flights = append([]domain.Flight{}, flights...)
	return snap, nil
}

// Latest finds the newest matching search and loads its flights in the
// order they were saved.
func (r *pgSnapshotRepo) Latest(ctx context.Context, q domain.Query) (domain.Snapshot, error) {
	const findSearch = `
		SELECT id, origin, destination, search_date, source, created_at
		FROM searches
		WHERE upper(origin) = upper(@origin)
		  AND upper(destination) = upper(@destination)
		  AND search_date = @search_date
		ORDER BY created_at DESC
		LIMIT 1`

	const listFlights = `
		SELECT route, date_time, airline, flight_number, status, price, departure_time, arrival_time
		FROM flights
		WHERE search_id = @search_id
		ORDER BY position`

	args := pgx.NamedArgs{
		"origin":      q.Origin,
		"destination": q.Destination,
		"search_date": q.Start,
	}
	snap, err := scanSearch(r.db.QueryRow(ctx, findSearch, args))
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("repo.SnapshotRepo.Latest: %w", err)
	}

	rows, err := r.db.Query(ctx, listFlights, pgx.NamedArgs{"search_id": snap.ID})
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("repo.SnapshotRepo.Latest: %w", err)
	}
	defer rows.Close()

	snap.Flights = []domain.Flight{}
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(&f.Route, &f.DateTime, &f.Airline, &f.FlightNumber,
			&f.Status, &f.Price, &f.DepartureTime, &f.ArrivalTime); err != nil {
			return domain.Snapshot{}, fmt.Errorf("repo.SnapshotRepo.Latest: scan: %w", err)
		}
		snap.Flights = append(snap.Flights, f)
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("repo.SnapshotRepo.Latest: rows: %w", err)
	}

	return snap, nil
}

// scanSearch maps a searches row into a domain.Snapshot without flights.
func scanSearch(row pgx.Row) (domain.Snapshot, error) {
	var (
		s   domain.Snapshot
		id  pgtype.UUID
		day pgtype.Date
	)

	err := row.Scan(&id, &s.Query.Origin, &s.Query.Destination, &day, &s.Source, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Snapshot{}, domain.ErrNotFound
		}
		return domain.Snapshot{}, err
	}

	s.ID = uuid.UUID(id.Bytes)
	s.Query.Start = day.Time
	return s, nil
}
