package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/hanoi3d/internal/storage"
	"github.com/san-kum/hanoi3d/internal/viz"
)

var strokes = []string{"#00ff00", "#ff77dd", "#55ccff", "#ffcc44", "#ff5555", "#bbbbbb"}

// CanvasToSVG converts a braille canvas to SVG, one circle per set dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	width := float64(canvas.DotWidth()) * scale
	height := float64(canvas.DotHeight()) * scale

	var sb strings.Builder
	sb.WriteString(header(width, height))
	sb.WriteString("<g fill=\"#00ff00\">\n")

	r := scale * 0.4
	for y := 0; y < canvas.DotHeight(); y++ {
		for x := 0; x < canvas.DotWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r))
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// HeightsToSVG plots the height of every body in the trace against time,
// one path per body on shared axes.
func HeightsToSVG(trace *storage.Trace, width, height int) string {
	if trace == nil || len(trace.Times) < 2 {
		return ""
	}

	t0, t1 := trace.Times[0], trace.Times[len(trace.Times)-1]
	lo, hi := math.Inf(1), math.Inf(-1)
	series := make([][]float64, len(trace.Bodies))
	for b := range trace.Bodies {
		series[b] = trace.Heights(b)
		for _, v := range series[b] {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	spanT, spanY := t1-t0, hi-lo
	if spanT == 0 {
		spanT = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	lo -= spanY * 0.1
	spanY *= 1.2

	var sb strings.Builder
	sb.WriteString(header(float64(width), float64(height)))
	for b, ys := range series {
		sb.WriteString(fmt.Sprintf("<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"M", strokes[b%len(strokes)]))
		for i, v := range ys {
			x := (trace.Times[i] - t0) / spanT * float64(width)
			y := float64(height) - (v-lo)/spanY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString(fmt.Sprintf("\"><title>%s</title></path>\n", trace.Bodies[b]))
	}
	sb.WriteString("</svg>")
	return sb.String()
}

func header(w, h float64) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, w, h, w, h)
}
