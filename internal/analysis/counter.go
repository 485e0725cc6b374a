package analysis

import (
	"cmp"
	"slices"

	"github.com/pkordes/flight-dashboard/internal/domain"
)

// counter counts occurrences of labels and remembers the order in which
// each label was first seen.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(label string) {
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

// top returns at most n labels by descending count, first-seen first on ties.
func (c *counter) top(n int) []domain.Point {
	out := c.points()
	slices.SortStableFunc(out, func(a, b domain.Point) int { return cmp.Compare(b.Value, a.Value) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// byLabel returns every label with its count, ordered by label.
func (c *counter) byLabel() []domain.Point {
	out := c.points()
	slices.SortFunc(out, func(a, b domain.Point) int { return cmp.Compare(a.Label, b.Label) })
	return out
}

func (c *counter) points() []domain.Point {
	out := make([]domain.Point, 0, len(c.order))
	for _, label := range c.order {
		out = append(out, domain.Point{Label: label, Value: float64(c.counts[label])})
	}
	return out
}
