package dashboard

import (
	"html/template"
	"maps"
	"sync"

	"github.com/pkordes/flight-dashboard/internal/domain"
)

// Board is the server-side model of one dashboard page: the two search
// inputs plus every render target (two charts, the table body and the
// optional "no data" message).
//
// Board implements SelectionSource, Notice, ChartRenderer and TableTarget,
// so a Controller can draw on it directly. Every mutation bumps the version
// and is published to subscribers.
type Board struct {
	mu sync.Mutex

	origin      string
	destination string

	figures   map[string]Figure
	tableBody template.HTML
	notice    *NoticeState // nil until the first Show

	version uint64
	subs    map[chan Snapshot]struct{}
}

// Snapshot is an immutable copy of a Board, suitable for templates and for
// pushing to the browser as JSON.
type Snapshot struct {
	Version     uint64            `json:"version"`
	Origin      string            `json:"origin"`
	Destination string            `json:"destination"`
	Charts      map[string]Figure `json:"charts"`
	Table       template.HTML     `json:"table"`
	Notice      *NoticeState      `json:"notice,omitempty"`
}

// NewBoard returns a blank board. Charts and table are empty until the first
// render; the notice does not exist yet.
func NewBoard() *Board {
	return &Board{
		figures: make(map[string]Figure),
		subs:    make(map[chan Snapshot]struct{}),
	}
}

// Targets returns the board as the render targets of a Controller.
func (b *Board) Targets() Targets {
	return Targets{Inputs: b, Notice: b, Charts: b, Table: b}
}

// SetInputs stores the values of the origin and destination fields.
func (b *Board) SetInputs(origin, destination string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.origin, b.destination = origin, destination
	b.changed()
}

// Inputs implements SelectionSource.
func (b *Board) Inputs() (origin, destination string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.origin, b.destination
}

// RenderSeries implements ChartRenderer by storing a Plotly figure for the container.
func (b *Board) RenderSeries(containerID string, points []domain.Point, style SeriesStyle) {
	fig := NewFigure(points, style)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.figures[containerID] = fig
	b.changed()
}

// SetTableBody implements TableTarget.
func (b *Board) SetTableBody(body template.HTML) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tableBody = body
	b.changed()
}

// Show implements Notice. The message node is created once and reused.
func (b *Board) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.notice == nil {
		b.notice = &NoticeState{ID: NoticeID, HTML: noticeHTML}
	}
	b.notice.Visible = true
	b.changed()
}

// Hide implements Notice.
func (b *Board) Hide() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.notice == nil {
		return
	}
	b.notice.Visible = false
	b.changed()
}

// Snapshot returns a copy of the current board state.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

// Subscribe returns a channel that receives the latest snapshot after every
// change. Slow readers only see the most recent state: older undelivered
// snapshots are dropped. Call the returned func to unsubscribe.
func (b *Board) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}
}

// changed must be called with mu held.
func (b *Board) changed() {
	b.version++
	if len(b.subs) == 0 {
		return
	}
	snap := b.snapshot()
	for ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// snapshot must be called with mu held.
func (b *Board) snapshot() Snapshot {
	s := Snapshot{
		Version:     b.version,
		Origin:      b.origin,
		Destination: b.destination,
		Charts:      maps.Clone(b.figures),
		Table:       b.tableBody,
	}
	if b.notice != nil {
		n := *b.notice
		s.Notice = &n
	}
	return s
}
