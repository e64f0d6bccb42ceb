// Package output writes rendered images to disk.
package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// Format selects the encoding of a rendered image
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ParseFormat returns the format with the given name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatPNG, FormatWebP:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want png or webp)", name)
}

// Extension returns the file extension of the format, including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// Encode writes img to w in the given format. WebP output is lossless.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// Save encodes img into dir/name plus the format extension, creating dir when needed,
// and returns the written path
func Save(dir, name string, img image.Image, format Format) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, name+format.Extension())

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := encodeAndClose(f, img, format); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// encodeAndClose encodes img into wc and closes it, so a failed flush on close is reported
func encodeAndClose(wc io.WriteCloser, img image.Image, format Format) error {
	if err := Encode(wc, img, format); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

// Downsample shrinks a supersampled render by factor with Catmull-Rom filtering.
// Renders are opaque, so no alpha premultiplication is needed.
func Downsample(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	width, height := max(1, b.Dx()/factor), max(1, b.Dy()/factor)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
