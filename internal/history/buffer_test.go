package history

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cptspacemanspiff/battery-tracker/internal/collector"
	"github.com/cptspacemanspiff/battery-tracker/internal/storage"
)

func TestBuffer_ReplaceIsWholesale(t *testing.T) {
	b := NewBuffer()
	assert.Empty(t, b.Snapshot().Points)
	assert.Nil(t, b.Snapshot().Info)

	b.Replace(&storage.Result{Points: []storage.Point{{X: 1, Y: 10}, {X: 2, Y: 20}}, Info: &storage.DeviceInfo{Model: "A"}})
	b.Replace(&storage.Result{Points: []storage.Point{{X: 3, Y: 30}}, Info: &storage.DeviceInfo{Model: "B"}})

	snap := b.Snapshot()
	assert.Equal(t, []storage.Point{{X: 3, Y: 30}}, snap.Points)
	assert.Equal(t, "B", snap.Info.Model)
}

func TestBuffer_AppendDoesNotDisturbEarlierSnapshots(t *testing.T) {
	b := NewBuffer()
	b.Replace(&storage.Result{Points: []storage.Point{{X: 8, Y: 50}}})
	before := b.Snapshot()

	ts := time.Date(2024, time.March, 9, 9, 30, 0, 0, time.Local)
	require.NoError(t, b.Append(collector.Sample{Timestamp: ts, Percentage: 55, Model: "M", State: collector.StateCharging}))

	after := b.Snapshot()
	assert.Len(t, before.Points, 1)
	assert.Equal(t, []storage.Point{{X: 8, Y: 50}, {X: 9.5, Y: 55}}, after.Points)
	require.NotNil(t, after.Info)
	assert.Equal(t, collector.StateCharging, after.Info.State)
	assert.Equal(t, "2024-3-9 9:30:0", after.Info.Timestamp)
}

func TestBuffer_ConcurrentReadersAndWriter(t *testing.T) {
	b := NewBuffer()
	ts := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.Local)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := b.Snapshot()
				for k := 1; k < len(snap.Points); k++ {
					if snap.Points[k].X < snap.Points[k-1].X {
						t.Errorf("snapshot out of order at %d", k)
						return
					}
				}
			}
		}()
	}
	for i := 0; i < 200; i++ {
		_ = b.Append(collector.Sample{Timestamp: ts.Add(time.Duration(i) * time.Minute), Percentage: 50})
	}
	wg.Wait()

	assert.Len(t, b.Snapshot().Points, 200)
}
