package export

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/hanoi3d/internal/storage"
	"github.com/san-kum/hanoi3d/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)

	svg := CanvasToSVG(c, 2)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `width="16" height="16"`) {
		t.Error("expected 16x16 document for a 4x2 canvas at scale 2")
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}
}

func TestHeightsToSVG(t *testing.T) {
	trace := &storage.Trace{
		Bodies: []string{"disk_0", "disk_1"},
		Times:  []float64{0, 0.5, 1},
		Positions: [][]mgl64.Vec3{
			{{0, 1, 0}, {0, 2, 0}},
			{{0, 0.5, 0}, {0, 1.5, 0}},
			{{0, 0.25, 0}, {0, 1.25, 0}},
		},
	}
	svg := HeightsToSVG(trace, 200, 100)
	if n := strings.Count(svg, "<path"); n != 2 {
		t.Errorf("expected one path per body, got %d", n)
	}
	for _, b := range trace.Bodies {
		if !strings.Contains(svg, "<title>"+b+"</title>") {
			t.Errorf("missing title for %s", b)
		}
	}
	if HeightsToSVG(&storage.Trace{Times: []float64{0}}, 10, 10) != "" {
		t.Error("a single sample should give empty output")
	}
}
