package session

import (
	"time"

	"rf2dash/pkg/model"
)

// Entry is a buffered sample stamped with its capture time.
type Entry struct {
	CapturedAt time.Time
	Sample     model.TelemetrySample
}

// Buffer is the ordered list of samples captured while collecting.
type Buffer struct {
	entries []Entry
}

func (b *Buffer) Append(e Entry) {
	b.entries = append(b.entries, e)
}

func (b *Buffer) Len() int {
	return len(b.entries)
}

// Entries returns a copy of the buffered entries.
func (b *Buffer) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

func (b *Buffer) clear() {
	b.entries = nil
}

// Collector buffers complete samples once collection has been started.
type Collector struct {
	active bool
	buffer Buffer
}

func NewCollector() *Collector {
	return &Collector{}
}

// Start clears the buffer and activates collection. It does nothing when
// collection is already active.
func (c *Collector) Start() bool {
	if c.active {
		return false
	}
	c.buffer.clear()
	c.active = true
	return true
}

// Reset deactivates collection; the next Start clears the buffer again.
func (c *Collector) Reset() {
	c.active = false
}

func (c *Collector) Active() bool {
	return c.active
}

// Offer appends the sample when collection is active and the sample is
// complete. It reports whether the sample was kept.
func (c *Collector) Offer(s model.TelemetrySample, at time.Time) bool {
	if !c.active || !s.Complete() {
		return false
	}
	c.buffer.Append(Entry{CapturedAt: at, Sample: s})
	return true
}

func (c *Collector) Buffer() *Buffer {
	return &c.buffer
}

// Clean filters entries down to complete samples and returns them as data
// points along with the number of entries dropped.
func Clean(entries []Entry) ([]model.DataPoint, int) {
	points := make([]model.DataPoint, 0, len(entries))
	for _, e := range entries {
		if !e.Sample.Complete() {
			continue
		}
		points = append(points, e.Sample.DataPoint(e.CapturedAt))
	}
	return points, len(entries) - len(points)
}
