package volume

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

func TestConstantVolumes(t *testing.T) {
	f := NewConstantFloat(0.4)
	if got := f.LookupFloat(core.NewVec3(10, -3, 2)); got != 0.4 {
		t.Errorf("Expected 0.4, got %f", got)
	}
	if got := f.LookupRGB(core.Vec3{}); got != core.NewGray(0.4) {
		t.Errorf("Expected gray 0.4, got %v", got)
	}

	c := NewConstantRGB(core.NewVec3(0.2, 0.5, 0.8))
	if got := c.MaxFloat(); got != 0.8 {
		t.Errorf("Expected max 0.8, got %f", got)
	}
	if got := c.LookupFloat(core.Vec3{}); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Expected average 0.5, got %f", got)
	}
}

func TestHeight_Falloff(t *testing.T) {
	h := NewHeight(0.9)
	h.Bind(core.NewAABB(core.NewVec3(-1, 2, -1), core.NewVec3(1, 4, 1)))

	tests := []struct {
		name     string
		point    core.Vec3
		expected float64
	}{
		{"At floor", core.NewVec3(0, 2, 0), 0.9},
		{"Below floor clamps", core.NewVec3(0, 1, 0), 0.9},
		{"Half unit up", core.NewVec3(0.3, 2.5, -0.2), 0.9 * math.Exp(-3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.LookupFloat(tt.point); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
	if h.MaxFloat() != 0.9 {
		t.Errorf("Expected max 0.9, got %f", h.MaxFloat())
	}
}

func TestPerlin_BoundedSmoothNoise(t *testing.T) {
	bounds := core.NewAABB(core.NewVec3(-1, 0, -1), core.NewVec3(1, 2, 1))
	n := NewPerlin(0.8, 0.25, 3)
	if got := n.LookupFloat(core.NewVec3(0, 1, 0)); got != 0 {
		t.Errorf("Expected 0 before Bind, got %f", got)
	}
	n.Bind(bounds)

	if got := n.LookupFloat(core.NewVec3(0, 3, 0)); got != 0 {
		t.Errorf("Expected 0 outside the bound box, got %f", got)
	}
	if n.MaxFloat() != 0.8 {
		t.Errorf("Expected max 0.8, got %f", n.MaxFloat())
	}

	// Lattice points read back their own value
	if got, want := n.LookupFloat(bounds.Min), n.at(0, 0, 0); math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected lattice value %f at the corner, got %f", want, got)
	}
	if got, want := n.LookupFloat(core.NewVec3(-0.5, 0.25, -1)), n.at(2, 1, 0); math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected lattice value %f at (2,1,0), got %f", want, got)
	}

	varied := false
	first := n.LookupFloat(core.NewVec3(0.05, 0.05, 0.05))
	for i := 0; i < 1000; i++ {
		f := float64(i) / 1000
		p := core.NewVec3(-1+2*f, 2*f, 0.3)
		v := n.LookupFloat(p)
		if v < 0 || v > 0.8 {
			t.Fatalf("Expected density in [0, 0.8] at %v, got %f", p, v)
		}
		// The quintic fade keeps neighbors close
		next := p.Add(core.NewVec3(1e-4, 0, 0))
		if step := n.LookupFloat(next); bounds.Contains(next) && math.Abs(step-v) > 0.01 {
			t.Errorf("Expected continuous density near %v, got %f then %f", p, v, step)
		}
		if math.Abs(v-first) > 1e-3 {
			varied = true
		}
	}
	if !varied {
		t.Error("Expected noise to vary across the box")
	}
}

func TestPerlin_SeedIsDeterministic(t *testing.T) {
	bounds := core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1))
	a, b, c := NewPerlin(1, 0.1, 5), NewPerlin(1, 0.1, 5), NewPerlin(1, 0.1, 6)
	a.Bind(bounds)
	b.Bind(bounds)
	c.Bind(bounds)

	p := core.NewVec3(0.37, 0.52, 0.81)
	if a.LookupFloat(p) != b.LookupFloat(p) {
		t.Errorf("Expected equal seeds to agree, got %f and %f", a.LookupFloat(p), b.LookupFloat(p))
	}
	if a.LookupFloat(p) == c.LookupFloat(p) {
		t.Errorf("Expected different seeds to differ, both gave %f", a.LookupFloat(p))
	}
	if got := a.LookupRGB(p); got != core.NewGray(a.LookupFloat(p)) {
		t.Errorf("Expected gray RGB lookup, got %v", got)
	}
}

func createTestGrid(t *testing.T) *Grid {
	t.Helper()
	// 2x2x2 scalar grid whose value equals x index + 2*z index
	data := make([]float32, 8)
	for z := 0; z < 2; z++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				data[(z*2+y)*2+x] = float32(x + 2*z)
			}
		}
	}
	grid, err := NewGrid(2, 2, 2, 1, data, core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1)))
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return grid
}

func TestGrid_TrilinearLookup(t *testing.T) {
	grid := createTestGrid(t)

	tests := []struct {
		name     string
		point    core.Vec3
		expected float64
	}{
		{"Origin corner", core.NewVec3(0, 0, 0), 0},
		{"Far corner", core.NewVec3(1, 1, 1), 3},
		{"Center", core.NewVec3(0.5, 0.5, 0.5), 1.5},
		{"Along x", core.NewVec3(0.25, 0, 0), 0.25},
		{"Outside", core.NewVec3(2, 0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grid.LookupFloat(tt.point); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
	if grid.MaxFloat() != 3 {
		t.Errorf("Expected max 3, got %f", grid.MaxFloat())
	}
}

func TestGrid_EncodeReadRoundTrip(t *testing.T) {
	grid := createTestGrid(t)
	var buf bytes.Buffer
	if err := grid.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// 4 prefix bytes + 5 int32 + 6 float32 + 8 float32 voxels
	if buf.Len() != 4+20+24+32 {
		t.Errorf("Expected %d bytes, got %d", 4+20+24+32, buf.Len())
	}

	decoded, err := ReadGrid(&buf)
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	p := core.NewVec3(0.3, 0.6, 0.9)
	if decoded.LookupFloat(p) != grid.LookupFloat(p) {
		t.Errorf("Expected %f, got %f", grid.LookupFloat(p), decoded.LookupFloat(p))
	}
}

func TestGrid_Bind(t *testing.T) {
	grid := createTestGrid(t)
	grid.Bind(core.NewAABB(core.NewVec3(10, 10, 10), core.NewVec3(12, 12, 12)))
	if got := grid.LookupFloat(core.NewVec3(12, 12, 12)); got != 3 {
		t.Errorf("Expected bound far corner 3, got %f", got)
	}
	if got := grid.LookupFloat(core.NewVec3(1, 1, 1)); got != 0 {
		t.Errorf("Expected 0 outside the bound box, got %f", got)
	}
}

func TestReadGrid_Malformed(t *testing.T) {
	valid := func() []byte {
		var buf bytes.Buffer
		if err := createTestGrid(t).Encode(&buf); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		return buf.Bytes()
	}

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"Bad magic", func(b []byte) []byte { b[0] = 'X'; return b }},
		{"Bad encoding", func(b []byte) []byte { b[4] = 2; return b }},
		{"Truncated data", func(b []byte) []byte { return b[:len(b)-3] }},
		{"Truncated header", func(b []byte) []byte { return b[:10] }},
		{"Empty", func(b []byte) []byte { return nil }},
		{"Bad version", func(b []byte) []byte { b[3] = 2; return b }},
		{"Two channels", func(b []byte) []byte { b[20] = 2; return b }},
		{"Zero resolution", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[12:], 0); return b }},
		{"Huge resolution", func(b []byte) []byte {
			for _, offset := range []int{8, 12, 16} {
				binary.LittleEndian.PutUint32(b[offset:], 1<<20)
			}
			return b
		}},
		{"Too many voxels", func(b []byte) []byte {
			for _, offset := range []int{8, 12, 16} {
				binary.LittleEndian.PutUint32(b[offset:], maxGridResolution)
			}
			return b
		}},
		{"Voxel count beyond data", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[8:], 1024)
			binary.LittleEndian.PutUint32(b[12:], 1024)
			return b
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGrid(bytes.NewReader(tt.mutate(valid())))
			if !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("Expected ErrInvalidGrid, got %v", err)
			}
		})
	}
}

func TestLoadGrid_MissingFile(t *testing.T) {
	if _, err := LoadGrid("does-not-exist.vol"); err == nil {
		t.Error("Expected error for missing file")
	}
}
