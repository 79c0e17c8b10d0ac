// Package history holds the time series shown by the GUI and keeps it fresh
// by reloading the record log in the background.
package history

import (
	"sync"

	"github.com/cptspacemanspiff/battery-tracker/internal/collector"
	"github.com/cptspacemanspiff/battery-tracker/internal/storage"
)

// Snapshot is an immutable view of the buffer. Callers must not modify
// Points.
type Snapshot struct {
	Points []storage.Point
	Info   *storage.DeviceInfo
}

// Buffer is the single shared series. Writers build a complete new value and
// swap it in; the lock is never held across I/O.
type Buffer struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Snapshot returns the current contents.
func (b *Buffer) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}

// Replace swaps in the outcome of a full log load.
func (b *Buffer) Replace(res *storage.Result) {
	snap := Snapshot{Points: res.Points, Info: res.Info}

	b.mu.Lock()
	b.snap = snap
	b.mu.Unlock()
}

// Append adds one sample without touching the log, so the buffer can serve
// as an in-memory sink when the log is unwritable.
func (b *Buffer) Append(s collector.Sample) error {
	info := storage.InfoFromSample(s)
	pt := storage.PointFromSample(s)

	b.mu.Lock()
	defer b.mu.Unlock()
	points := make([]storage.Point, len(b.snap.Points), len(b.snap.Points)+1)
	copy(points, b.snap.Points)
	b.snap = Snapshot{Points: append(points, pt), Info: &info}
	return nil
}
