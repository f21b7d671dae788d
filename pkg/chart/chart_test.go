package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesTrimsTrailingWindow(t *testing.T) {
	feed := NewFeed(10 * time.Second)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	feed.now = func() time.Time { return clock }

	feed.PushBrake(10)
	clock = base.Add(5 * time.Second)
	feed.PushBrake(20)
	clock = base.Add(12 * time.Second)
	feed.PushBrake(30)

	points := feed.Brake.Points()
	require.Len(t, points, 2)
	assert.Equal(t, 20.0, points[0].Value)
	assert.Equal(t, 30.0, points[1].Value)
	assert.Empty(t, feed.Throttle.Points(), "series are independent")
}

func TestFeedSeriesLookup(t *testing.T) {
	feed := NewFeed(time.Second)
	s, ok := feed.Series(SeriesThrottle)
	require.True(t, ok)
	assert.Equal(t, SeriesThrottle, s.Name())

	_, ok = feed.Series("clutch")
	assert.False(t, ok)
}

func TestRenderPNG(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewFeed(20 * time.Second).Brake

	var empty bytes.Buffer
	require.NoError(t, s.RenderPNG(&empty, now, 400, 150))
	assert.Equal(t, "\x89PNG", empty.String()[:4])

	s.Append(now.Add(-3*time.Second), 40)
	s.Append(now.Add(-time.Second), 80)
	var buf bytes.Buffer
	require.NoError(t, s.RenderPNG(&buf, now, 400, 150))
	assert.Equal(t, "\x89PNG", buf.String()[:4])
}
