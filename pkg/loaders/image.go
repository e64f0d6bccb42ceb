package loaders

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"

	"github.com/df07/go-volumetric-raytracer/pkg/material"
)

// decoders maps file extensions to image decoders.
// TGA files carry no magic number, so formats are chosen by extension rather than sniffed.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".tga":  tga.Decode,
}

// LoadImage decodes a PNG, JPEG or TGA file and reports its format
func LoadImage(filename string) (image.Image, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	decode, ok := decoders[ext]
	if !ok {
		return nil, "", fmt.Errorf("unsupported image format %q: %s", ext, filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, err := decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image %s: %w", filename, err)
	}
	return img, strings.TrimPrefix(ext, "."), nil
}

// LoadTexture loads an sRGB image file as a linear color texture
func LoadTexture(filename string) (*material.ImageTexture, error) {
	img, _, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	return material.NewImageTextureFromImage(img), nil
}
