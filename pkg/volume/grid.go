package volume

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

// ErrInvalidGrid is returned for malformed VOL data
var ErrInvalidGrid = errors.New("invalid volume grid")

const (
	gridMagic         = "VOL"
	gridVersion       = 3
	gridEncodingDense = 1

	maxGridResolution = 4096    // voxels per axis
	maxGridValues     = 1 << 28 // float32 values in one grid
	gridReadChunk     = 1 << 16
)

// gridHeader is the fixed-layout header of a VOL file, little-endian
type gridHeader struct {
	Encoding int32
	XRes     int32
	YRes     int32
	ZRes     int32
	Channels int32
	Bounds   [6]float32
}

// Grid is a dense voxel field with 1 or 3 channels, looked up with trilinear interpolation
type Grid struct {
	xres, yres, zres int
	channels         int
	data             []float32
	bounds           core.AABB
	maxValue         float64
}

// NewGrid creates a grid from voxel data laid out as ((z*yres+y)*xres+x)*channels+c
func NewGrid(xres, yres, zres, channels int, data []float32, bounds core.AABB) (*Grid, error) {
	if xres <= 0 || yres <= 0 || zres <= 0 {
		return nil, fmt.Errorf("%w: resolution %dx%dx%d", ErrInvalidGrid, xres, yres, zres)
	}
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("%w: %d channels, expected 1 or 3", ErrInvalidGrid, channels)
	}
	if expected := xres * yres * zres * channels; len(data) != expected {
		return nil, fmt.Errorf("%w: %d values, expected %d", ErrInvalidGrid, len(data), expected)
	}

	maxValue := 0.0
	for _, v := range data {
		maxValue = math.Max(maxValue, float64(v))
	}

	return &Grid{
		xres: xres, yres: yres, zres: zres,
		channels: channels,
		data:     data,
		bounds:   bounds,
		maxValue: maxValue,
	}, nil
}

// LoadGrid reads a VOL file from disk
func LoadGrid(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open volume grid %s: %w", path, err)
	}
	defer f.Close()

	grid, err := ReadGrid(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to read volume grid %s: %w", path, err)
	}
	return grid, nil
}

// ReadGrid decodes VOL data: "VOL", a version byte, the header and float32 voxels
func ReadGrid(r io.Reader) (*Grid, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, fmt.Errorf("%w: reading magic: %v", ErrInvalidGrid, err)
	}
	if string(prefix[:3]) != gridMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidGrid, prefix[:3])
	}
	if prefix[3] != gridVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidGrid, prefix[3])
	}

	var header gridHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrInvalidGrid, err)
	}
	if header.Encoding != gridEncodingDense {
		return nil, fmt.Errorf("%w: unsupported encoding %d", ErrInvalidGrid, header.Encoding)
	}
	if header.Channels != 1 && header.Channels != 3 {
		return nil, fmt.Errorf("%w: %d channels, expected 1 or 3", ErrInvalidGrid, header.Channels)
	}
	for _, res := range []int32{header.XRes, header.YRes, header.ZRes} {
		if res <= 0 || res > maxGridResolution {
			return nil, fmt.Errorf("%w: resolution %dx%dx%d outside 1..%d",
				ErrInvalidGrid, header.XRes, header.YRes, header.ZRes, maxGridResolution)
		}
	}
	// Each factor is at most 4096, so the product fits in an int64
	count := int64(header.XRes) * int64(header.YRes) * int64(header.ZRes) * int64(header.Channels)
	if count > maxGridValues {
		return nil, fmt.Errorf("%w: %d values exceed the limit of %d", ErrInvalidGrid, count, maxGridValues)
	}

	data, err := readVoxels(r, int(count))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %d voxels: %v", ErrInvalidGrid, count, err)
	}

	b := header.Bounds
	bounds := core.NewAABB(
		core.NewVec3(float64(b[0]), float64(b[1]), float64(b[2])),
		core.NewVec3(float64(b[3]), float64(b[4]), float64(b[5])),
	)
	return NewGrid(int(header.XRes), int(header.YRes), int(header.ZRes), int(header.Channels), data, bounds)
}

// readVoxels reads count float32 values in chunks, so a header that promises
// more data than the stream holds fails before the full buffer is allocated
func readVoxels(r io.Reader, count int) ([]float32, error) {
	data := make([]float32, 0, min(count, gridReadChunk))
	chunk := make([]float32, gridReadChunk)
	for len(data) < count {
		n := min(count-len(data), gridReadChunk)
		if err := binary.Read(r, binary.LittleEndian, chunk[:n]); err != nil {
			return nil, err
		}
		data = append(data, chunk[:n]...)
	}
	return data, nil
}

// Encode writes the grid in VOL format
func (g *Grid) Encode(w io.Writer) error {
	if _, err := w.Write([]byte{'V', 'O', 'L', gridVersion}); err != nil {
		return err
	}
	header := gridHeader{
		Encoding: gridEncodingDense,
		XRes:     int32(g.xres),
		YRes:     int32(g.yres),
		ZRes:     int32(g.zres),
		Channels: int32(g.channels),
		Bounds: [6]float32{
			float32(g.bounds.Min.X), float32(g.bounds.Min.Y), float32(g.bounds.Min.Z),
			float32(g.bounds.Max.X), float32(g.bounds.Max.Y), float32(g.bounds.Max.Z),
		},
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, g.data)
}

// Bind maps the grid onto the owning medium's box instead of the file's bounds
func (g *Grid) Bind(bounds core.AABB) {
	g.bounds = bounds
}

// Bounds returns the world-space box the grid is mapped onto
func (g *Grid) Bounds() core.AABB {
	return g.bounds
}

// Channels returns 1 for scalar grids and 3 for color grids
func (g *Grid) Channels() int {
	return g.channels
}

// LookupFloat returns the interpolated value, averaging channels of color grids
func (g *Grid) LookupFloat(p core.Vec3) float64 {
	if g.channels == 1 {
		return g.lookup(p, 0)
	}
	return g.LookupRGB(p).Average()
}

// LookupRGB returns the interpolated color, replicating scalar grids to gray
func (g *Grid) LookupRGB(p core.Vec3) core.Vec3 {
	if g.channels == 1 {
		return core.NewGray(g.lookup(p, 0))
	}
	return core.NewVec3(g.lookup(p, 0), g.lookup(p, 1), g.lookup(p, 2))
}

// MaxFloat returns the largest stored voxel value
func (g *Grid) MaxFloat() float64 {
	return g.maxValue
}

func (g *Grid) lookup(p core.Vec3, channel int) float64 {
	if !g.bounds.Contains(p) {
		return 0
	}
	size := g.bounds.Size()
	fx := gridCoord(p.X-g.bounds.Min.X, size.X, g.xres)
	fy := gridCoord(p.Y-g.bounds.Min.Y, size.Y, g.yres)
	fz := gridCoord(p.Z-g.bounds.Min.Z, size.Z, g.zres)

	x0, y0, z0 := int(fx), int(fy), int(fz)
	x1, y1, z1 := min(x0+1, g.xres-1), min(y0+1, g.yres-1), min(z0+1, g.zres-1)
	dx, dy, dz := fx-float64(x0), fy-float64(y0), fz-float64(z0)

	c00 := lerp(g.voxel(x0, y0, z0, channel), g.voxel(x1, y0, z0, channel), dx)
	c10 := lerp(g.voxel(x0, y1, z0, channel), g.voxel(x1, y1, z0, channel), dx)
	c01 := lerp(g.voxel(x0, y0, z1, channel), g.voxel(x1, y0, z1, channel), dx)
	c11 := lerp(g.voxel(x0, y1, z1, channel), g.voxel(x1, y1, z1, channel), dx)

	return lerp(lerp(c00, c10, dy), lerp(c01, c11, dy), dz)
}

func (g *Grid) voxel(x, y, z, channel int) float64 {
	return float64(g.data[((z*g.yres+y)*g.xres+x)*g.channels+channel])
}

// gridCoord maps an offset within an extent onto [0, res-1]
func gridCoord(offset, extent float64, res int) float64 {
	if extent <= 0 || res == 1 {
		return 0
	}
	return max(0, min(float64(res-1), offset/extent*float64(res-1)))
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
