package domain

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is a stored copy of the flights one source returned for a query.
// Snapshots let the service answer from the last good fetch when every
// live source is down.
type Snapshot struct {
	ID        uuid.UUID
	Query     Query
	Source    string
	CreatedAt time.Time
	Flights   []Flight
}
