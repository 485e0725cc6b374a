package dashboard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/flight-dashboard/internal/dashboard"
	"github.com/pkordes/flight-dashboard/internal/domain"
)

func TestBoard_HideBeforeShowDoesNothing(t *testing.T) {
	b := dashboard.NewBoard()
	before := b.Snapshot()

	b.Hide()

	after := b.Snapshot()
	assert.Nil(t, after.Notice)
	assert.Equal(t, before.Version, after.Version)
}

func TestBoard_ShowIsIdempotent(t *testing.T) {
	b := dashboard.NewBoard()

	b.Show()
	b.Show()

	n := b.Snapshot().Notice
	require.NotNil(t, n)
	assert.True(t, n.Visible)
	assert.Equal(t, dashboard.NoticeID, n.ID)
	assert.Contains(t, string(n.HTML), "No flight data found for your selection")
}

func TestBoard_HideKeepsNode(t *testing.T) {
	b := dashboard.NewBoard()
	b.Show()

	b.Hide()
	b.Hide()

	n := b.Snapshot().Notice
	require.NotNil(t, n, "node is reused, not removed")
	assert.False(t, n.Visible)
}

func TestBoard_SnapshotIsACopy(t *testing.T) {
	b := dashboard.NewBoard()
	b.Show()
	b.RenderSeries(dashboard.BarChartID, nil, dashboard.SeriesStyle{Type: "bar"})

	snap := b.Snapshot()
	snap.Notice.Visible = false
	delete(snap.Charts, dashboard.BarChartID)

	again := b.Snapshot()
	assert.True(t, again.Notice.Visible)
	assert.Contains(t, again.Charts, dashboard.BarChartID)
}

func TestBoard_SetInputs(t *testing.T) {
	b := dashboard.NewBoard()

	b.SetInputs("SYD", "MEL")

	origin, destination := b.Inputs()
	assert.Equal(t, "SYD", origin)
	assert.Equal(t, "MEL", destination)
	snap := b.Snapshot()
	assert.Equal(t, "SYD", snap.Origin)
	assert.Equal(t, "MEL", snap.Destination)
}

func TestBoard_SubscribeDeliversLatest(t *testing.T) {
	b := dashboard.NewBoard()
	ch, unsubscribe := b.Subscribe()
	defer unsubscribe()

	b.SetInputs("SYD", "")
	b.SetInputs("SYD", "MEL")
	dashboard.RenderBarChart(b, []domain.Point{{Label: "SYD-MEL", Value: 3}})

	select {
	case snap := <-ch:
		assert.Equal(t, uint64(3), snap.Version)
		assert.Equal(t, "MEL", snap.Destination)
		assert.Equal(t, []string{"SYD-MEL"}, snap.Charts[dashboard.BarChartID].Data[0].X)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestBoard_UnsubscribeClosesChannel(t *testing.T) {
	b := dashboard.NewBoard()
	ch, unsubscribe := b.Subscribe()

	unsubscribe()
	unsubscribe() // second call is a no-op
	b.SetInputs("SYD", "")

	_, ok := <-ch
	assert.False(t, ok)
}
