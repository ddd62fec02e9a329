// Package svg renders the dashboard charts as inline SVG.
package svg

// BarOpts customises the bar chart renderer.
type BarOpts struct {
	Title       string
	Description string
	SeriesLabel string
	// Colors overrides the per-bar fill. Missing entries fall back to ColorFor(label).
	Colors     []string
	AxisColor  string
	GridColor  string
	Padding    float64
	LabelSpace float64
	TickCount  int
}

// RadarOpts customises the radar chart renderer.
type RadarOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
	LegendWidth float64
}

// Dataset is one polygon on a radar chart. Values line up with the axes.
type Dataset struct {
	Label  string
	Values []float64
	Color  string
}

// Defaults for the dashboard charts.
const (
	DefaultWidth       = 720
	DefaultHeight      = 320
	DefaultRadarSize   = 420
	DefaultPadding     = 28.0
	DefaultLabelSpace  = 72.0
	DefaultLegendWidth = 200.0
	DefaultTicks       = 5
)
