package chart

import (
	"io"
	"sync"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"rf2dash/pkg/queues"
)

const (
	SeriesBrake    = "brake"
	SeriesThrottle = "throttle"
)

type Point struct {
	At    time.Time `json:"at"`
	Value float64   `json:"value"`
}

// Series is a rolling time series trimmed to a trailing window.
type Series struct {
	mu     sync.Mutex
	name   string
	window time.Duration
	points *queues.Queue[Point]
	color  drawing.Color
}

func NewSeries(name string, window time.Duration, color drawing.Color) *Series {
	return &Series{
		name:   name,
		window: window,
		points: queues.NewQueue[Point](),
		color:  color,
	}
}

func (s *Series) Append(at time.Time, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.points.Push(Point{At: at, Value: value})
	cutoff := at.Add(-s.window)
	s.points.DropWhile(func(p Point) bool {
		return p.At.Before(cutoff)
	})
}

func (s *Series) Points() []Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points.Items()
}

func (s *Series) Name() string {
	return s.name
}

// Feed holds the brake and throttle series fed by the display updater.
type Feed struct {
	Brake    *Series
	Throttle *Series
	now      func() time.Time
}

func NewFeed(window time.Duration) *Feed {
	return &Feed{
		Brake:    NewSeries(SeriesBrake, window, drawing.Color{R: 239, G: 68, B: 68, A: 255}),
		Throttle: NewSeries(SeriesThrottle, window, drawing.Color{R: 16, G: 185, B: 129, A: 255}),
		now:      time.Now,
	}
}

func (f *Feed) PushBrake(pct float64) {
	f.Brake.Append(f.now(), pct)
}

func (f *Feed) PushThrottle(pct float64) {
	f.Throttle.Append(f.now(), pct)
}

// Series returns the series with the given name.
func (f *Feed) Series(name string) (*Series, bool) {
	switch name {
	case SeriesBrake:
		return f.Brake, true
	case SeriesThrottle:
		return f.Throttle, true
	}
	return nil, false
}

// RenderPNG draws the trailing window of a series ending at now.
func (s *Series) RenderPNG(w io.Writer, now time.Time, width, height int) error {
	points := s.Points()
	xs := make([]time.Time, 0, len(points)+2)
	ys := make([]float64, 0, len(points)+2)
	// go-chart needs at least two points to compute a range
	if len(points) == 0 || points[0].At.After(now.Add(-s.window)) {
		xs = append(xs, now.Add(-s.window))
		ys = append(ys, firstValue(points))
	}
	for _, p := range points {
		xs = append(xs, p.At)
		ys = append(ys, p.Value)
	}
	if len(xs) < 2 || xs[len(xs)-1].Before(now) {
		xs = append(xs, now)
		ys = append(ys, ys[len(ys)-1])
	}

	fill := s.color
	fill.A = 51
	graph := gochart.Chart{
		Width:  width,
		Height: height,
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat("15:04:05"),
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    s.name,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: s.color,
					FillColor:   fill,
					StrokeWidth: 3,
				},
			},
		},
	}
	return graph.Render(gochart.PNG, w)
}

func firstValue(points []Point) float64 {
	if len(points) == 0 {
		return 0
	}
	return points[0].Value
}
