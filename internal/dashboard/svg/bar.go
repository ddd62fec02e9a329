package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// Bars renders a single-series vertical bar chart. Values must be
// non-negative; the axis always starts at zero.
func Bars(width, height int, values []float64, labels []string, opts BarOpts) (template.HTML, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("svg: at least one value required")
	}
	if len(values) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match values")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	labelSpace := opts.LabelSpace
	if labelSpace <= 0 {
		labelSpace = DefaultLabelSpace
	}
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTicks
	}
	for _, v := range values {
		if v < 0 {
			return "", fmt.Errorf("svg: negative value %v", v)
		}
	}

	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5e1")
	seriesLabel := fallback(opts.SeriesLabel, "Value")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding - labelSpace
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	maxVal := niceMax(maxOf(values), tickCount)
	scale := chartHeight / maxVal
	top := padding + 12
	bottom := top + chartHeight
	slot := chartWidth / float64(len(values))
	barWidth := slot * 0.7

	titleID := makeID(opts.Title, "bar-title")
	descID := makeID(opts.Title, "bar-desc")

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img" aria-labelledby="%s %s" class="chart chart-bar">`, width, height, titleID, descID)
	fmt.Fprintf(&b, `<title id="%s">%s</title>`, titleID, template.HTMLEscapeString(fallback(opts.Title, "Bar chart")))
	fmt.Fprintf(&b, `<desc id="%s">%s</desc>`, descID, template.HTMLEscapeString(fallback(opts.Description, seriesLabel+" per item")))

	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		y := bottom - ratio*chartHeight
		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.5" stroke-dasharray="2,4" aria-hidden="true"></line>`, padding, y, padding+chartWidth, y, gridColor)
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="end">%s</text>`, padding-6, y+4, axisColor, formatTick(maxVal*ratio))
	}

	fmt.Fprintf(&b, `<g stroke="%s" aria-hidden="true">`, axisColor)
	fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="1"></line>`, padding, top, padding, bottom)
	fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="1"></line>`, padding, bottom, padding+chartWidth, bottom)
	b.WriteString("</g>")

	for i, label := range labels {
		color := ""
		if i < len(opts.Colors) {
			color = opts.Colors[i]
		}
		color = fallback(color, ColorFor(label))
		h := values[i] * scale
		x := padding + float64(i)*slot + (slot-barWidth)/2
		escaped := template.HTMLEscapeString(label)
		fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" data-label="%s"><title>%s: %s</title></rect>`,
			x, bottom-h, barWidth, h, color, escaped, escaped, formatTick(values[i]))
		cx := x + barWidth/2
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="end" transform="rotate(-45 %.2f %.2f)">%s</text>`,
			cx, bottom+12, axisColor, cx, bottom+12, escaped)
	}

	fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="11" text-anchor="start" class="chart-legend">%s</text>`, padding, padding, axisColor, template.HTMLEscapeString(seriesLabel))
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
