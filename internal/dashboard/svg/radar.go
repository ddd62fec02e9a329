package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Radar renders one polygon per dataset over the given axes. The scale starts
// at zero and the legend sits to the right of the plot.
func Radar(size int, axes []string, datasets []Dataset, opts RadarOpts) (template.HTML, error) {
	if len(axes) < 3 {
		return "", fmt.Errorf("svg: radar needs at least three axes")
	}
	if len(datasets) == 0 {
		return "", fmt.Errorf("svg: at least one dataset required")
	}
	for _, ds := range datasets {
		if len(ds.Values) != len(axes) {
			return "", fmt.Errorf("svg: dataset %q has %d values for %d axes", ds.Label, len(ds.Values), len(axes))
		}
	}
	if size <= 0 {
		size = DefaultRadarSize
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTicks
	}
	legendWidth := opts.LegendWidth
	if legendWidth <= 0 {
		legendWidth = DefaultLegendWidth
	}
	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5e1")

	// Axis labels need room outside the outer ring.
	radius := float64(size)/2 - padding - 24
	if radius <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}
	cx := float64(size) / 2
	cy := float64(size) / 2

	peak := 0.0
	for _, ds := range datasets {
		if m := maxOf(ds.Values); m > peak {
			peak = m
		}
	}
	maxVal := niceMax(peak, tickCount)

	const rowHeight = 16.0
	height := math.Max(float64(size), padding*2+rowHeight*float64(len(datasets)))
	width := float64(size) + legendWidth

	point := func(axis int, value float64) (float64, float64) {
		angle := -math.Pi/2 + 2*math.Pi*float64(axis)/float64(len(axes))
		r := radius * value / maxVal
		return cx + r*math.Cos(angle), cy + r*math.Sin(angle)
	}

	titleID := makeID(opts.Title, "radar-title")
	descID := makeID(opts.Title, "radar-desc")

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" role="img" aria-labelledby="%s %s" class="chart chart-radar">`, width, height, titleID, descID)
	fmt.Fprintf(&b, `<title id="%s">%s</title>`, titleID, template.HTMLEscapeString(fallback(opts.Title, "Radar chart")))
	fmt.Fprintf(&b, `<desc id="%s">%s</desc>`, descID, template.HTMLEscapeString(fallback(opts.Description, strings.Join(axes, ", "))))

	for t := 1; t <= tickCount; t++ {
		value := maxVal * float64(t) / float64(tickCount)
		pts := make([]string, len(axes))
		for i := range axes {
			x, y := point(i, value)
			pts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
		}
		fmt.Fprintf(&b, `<polygon points="%s" fill="none" stroke="%s" stroke-width="0.5" aria-hidden="true"></polygon>`, strings.Join(pts, " "), gridColor)
		_, ty := point(0, value)
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="9" text-anchor="start">%s</text>`, cx+3, ty+3, axisColor, formatTick(value))
	}

	for i, axis := range axes {
		x, y := point(i, maxVal)
		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.75" aria-hidden="true"></line>`, cx, cy, x, y, gridColor)
		lx, ly := point(i, maxVal*1.12)
		anchor := "middle"
		switch {
		case lx < cx-1:
			anchor = "end"
		case lx > cx+1:
			anchor = "start"
		}
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="11" text-anchor="%s">%s</text>`, lx, ly+4, axisColor, anchor, template.HTMLEscapeString(axis))
	}

	for _, ds := range datasets {
		color := fallback(ds.Color, ColorFor(ds.Label))
		pts := make([]string, len(axes))
		for i, v := range ds.Values {
			if v < 0 {
				v = 0
			}
			x, y := point(i, v)
			pts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
		}
		fmt.Fprintf(&b, `<polygon points="%s" fill="%s" fill-opacity="0.2" stroke="%s" stroke-width="1.5" data-label="%s"><title>%s</title></polygon>`,
			strings.Join(pts, " "), color, color, template.HTMLEscapeString(ds.Label), template.HTMLEscapeString(ds.Label))
	}

	legendX := float64(size) + 8
	for i, ds := range datasets {
		color := fallback(ds.Color, ColorFor(ds.Label))
		y := padding + rowHeight*float64(i)
		fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="10" height="10" fill="%s"></rect>`, legendX, y-9, color)
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="11" text-anchor="start">%s</text>`, legendX+14, y, axisColor, template.HTMLEscapeString(ds.Label))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
