package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestDiskDefaults(t *testing.T) {
	d, err := NewDisk(DiskParams{Radius: 5, HoleRadius: 1, Height: 0.2})
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}

	if d.HeightDisk() != 0.2 {
		t.Errorf("expected height 0.2, got %f", d.HeightDisk())
	}

	obj := d.Object()
	if obj.Position != (mgl64.Vec3{}) {
		t.Errorf("expected origin, got %v", obj.Position)
	}
	flat := mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{1, 0, 0})
	if obj.Rotation.Sub(flat).Len() > 1e-9 {
		t.Errorf("expected -90 deg about x, got %v", obj.Rotation)
	}
	if obj.Physics == nil || obj.Physics.Mass != 1 {
		t.Errorf("expected mass hint 1, got %+v", obj.Physics)
	}
	if obj.Physics.Body != nil {
		t.Error("builders must not attach bodies")
	}
}

func TestDiskParamDefaults(t *testing.T) {
	d, err := NewDisk(DiskParams{Radius: 2})
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}
	if d.HoleRadius() != DefaultHoleRadius {
		t.Errorf("expected hole %f, got %f", DefaultHoleRadius, d.HoleRadius())
	}
	if d.HeightDisk() != DefaultDiskHeight {
		t.Errorf("expected height %f, got %f", DefaultDiskHeight, d.HeightDisk())
	}
}

func TestStaticDiskKeepsZeroMass(t *testing.T) {
	d, err := NewDisk(DiskParams{Radius: 2, Static: true})
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}
	if d.Mass() != 0 {
		t.Errorf("expected static disk mass 0, got %f", d.Mass())
	}

	d, err = NewDisk(DiskParams{Radius: 2})
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}
	if d.Mass() != DefaultMass {
		t.Errorf("expected default mass %f, got %f", DefaultMass, d.Mass())
	}
}

func TestDiskExcludesHole(t *testing.T) {
	tests := []struct {
		radius, hole, height float64
	}{
		{5, 1, 0.2},
		{2, 0.5, 1},
		{1, 0.9, 0.1},
	}

	for _, tt := range tests {
		d, err := NewDisk(DiskParams{Radius: tt.radius, HoleRadius: tt.hole, Height: tt.height})
		if err != nil {
			t.Fatalf("new disk: %v", err)
		}
		s := d.Shape()
		mid := tt.height / 2

		if s.Contains(mgl64.Vec3{0, 0, mid}) {
			t.Errorf("r=%v hole=%v: centre should be empty", tt.radius, tt.hole)
		}
		if s.Contains(mgl64.Vec3{tt.hole * 0.5, 0, mid}) {
			t.Errorf("r=%v hole=%v: inside hole should be empty", tt.radius, tt.hole)
		}
		ring := (tt.radius + tt.hole) / 2
		if !s.Contains(mgl64.Vec3{ring, 0, mid}) {
			t.Errorf("r=%v hole=%v: ring should be solid", tt.radius, tt.hole)
		}
		if s.Contains(mgl64.Vec3{tt.radius * 1.1, 0, mid}) {
			t.Errorf("r=%v hole=%v: outside radius should be empty", tt.radius, tt.hole)
		}
	}
}

func TestDiskExtrudesUpwardFromOrigin(t *testing.T) {
	d, err := NewDisk(DiskParams{Radius: 5, HoleRadius: 1, Height: 0.2})
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}
	min, max := d.Shape().Bounds()
	if math.Abs(min.Z()) > 1e-6 || math.Abs(max.Z()-0.2) > 1e-6 {
		t.Errorf("expected z in [0, 0.2], got [%f, %f]", min.Z(), max.Z())
	}

	wmin, wmax, _ := d.Object().WorldBounds()
	if math.Abs(wmin.Y()) > 1e-6 || math.Abs(wmax.Y()-0.2) > 1e-6 {
		t.Errorf("expected world y in [0, 0.2], got [%f, %f]", wmin.Y(), wmax.Y())
	}
}

func TestCylinderPositionsEvenlySpaced(t *testing.T) {
	for _, width := range []float64{0.5, 3, 9, 120} {
		s, err := NewMainStructure(StructureParams{
			BaseWidth: width, BaseDepth: 2, BaseHeight: 0.5,
			CylinderRadius: 0.1, CylinderHeight: 3,
		})
		if err != nil {
			t.Fatalf("width %v: %v", width, err)
		}

		l, c, r := s.LeftCylinderPosition(), s.CenterCylinderPosition(), s.RightCylinderPosition()
		if !(l.X() < c.X() && c.X() < r.X()) {
			t.Errorf("width %v: x not increasing: %v %v %v", width, l.X(), c.X(), r.X())
		}
		step := width / 3
		if math.Abs((c.X()-l.X())-step) > 1e-9 || math.Abs((r.X()-c.X())-step) > 1e-9 {
			t.Errorf("width %v: expected spacing %v, got %v and %v", width, step, c.X()-l.X(), r.X()-c.X())
		}
		if math.Abs(c.X()) > 1e-9 {
			t.Errorf("width %v: centre cylinder should sit at x=0, got %v", width, c.X())
		}
	}
}

func TestCylinderPositionIsCopy(t *testing.T) {
	s, err := NewMainStructure(StructureParams{
		BaseWidth: 6, BaseDepth: 2, BaseHeight: 0.5, CylinderRadius: 0.2, CylinderHeight: 3,
	})
	if err != nil {
		t.Fatalf("new structure: %v", err)
	}
	p := s.LeftCylinderPosition()
	p[0] = 100
	if s.LeftCylinderPosition().X() == 100 {
		t.Error("position accessor leaked internal state")
	}
}

func TestStructureLayout(t *testing.T) {
	s, err := NewMainStructure(StructureParams{
		BaseWidth: 6, BaseDepth: 2, BaseHeight: 0.5, CylinderRadius: 0.2, CylinderHeight: 3,
	})
	if err != nil {
		t.Fatalf("new structure: %v", err)
	}

	if s.HeightBase() != 0.5 {
		t.Errorf("expected base height 0.5, got %f", s.HeightBase())
	}
	if n := len(s.Object().Children); n != 4 {
		t.Errorf("expected 4 parts, got %d", n)
	}

	wantY := 0.5/2 + 3.0/2
	for _, c := range s.Cylinders() {
		if math.Abs(c.Position.Y()-wantY) > 1e-9 {
			t.Errorf("%s: expected y %f, got %f", c.Name, wantY, c.Position.Y())
		}
		if c.Physics == nil || c.Physics.Mass != 1 {
			t.Errorf("%s: expected mass hint", c.Name)
		}
	}

	min, max := s.Base().Geometry.Bounds()
	if math.Abs((max.X()-min.X())-6.4) > 1e-6 {
		t.Errorf("expected extended width 6.4, got %f", max.X()-min.X())
	}

	cmin, cmax := s.Cylinders()[0].Geometry.Bounds()
	if math.Abs((cmax.Y()-cmin.Y())-3) > 1e-6 {
		t.Errorf("expected upright cylinder of height 3, got %f", cmax.Y()-cmin.Y())
	}

	s.SetPosition(1, 2, 3)
	if s.Object().Position != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("set position failed: %v", s.Object().Position)
	}
}

func TestTessellateBase(t *testing.T) {
	s, err := NewMainStructure(StructureParams{
		BaseWidth: 6, BaseDepth: 2, BaseHeight: 1, CylinderRadius: 0.5, CylinderHeight: 3,
	})
	if err != nil {
		t.Fatalf("new structure: %v", err)
	}
	mesh := s.Shapes()["base"].Tessellate(24)
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices %d != normals %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices %d != triangles*3 %d", len(mesh.Indices), mesh.TriangleCount()*3)
	}
}
