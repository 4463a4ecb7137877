// Package imageio writes rendered images and reads reference images in the
// formats the renderer supports.
package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output image encoding.
type Format int

const (
	PNG Format = iota
	WebP
	TGA
	BMP
	TIFF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case WebP:
		return "webp"
	case TGA:
		return "tga"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	}
	return "unknown"
}

// FormatFromPath picks the encoding from the file extension. Unknown
// extensions fall back to PNG.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		return WebP
	case ".tga":
		return TGA
	case ".bmp":
		return BMP
	case ".tif", ".tiff":
		return TIFF
	}
	return PNG
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case WebP:
		return nativewebp.Encode(w, img, nil)
	case TGA:
		return tga.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return png.Encode(w, img)
}

// Save encodes img to path, creating parent directories as needed. The
// format follows the extension.
func Save(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("imageio: mkdir %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)

	format := FormatFromPath(path)
	if err := Encode(bw, img, format); err != nil {
		f.Close()
		return fmt.Errorf("imageio: encode %s as %s: %w", path, format, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("imageio: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("imageio: close %s: %w", path, err)
	}
	return nil
}

// Load decodes any registered format and returns it as NRGBA. The webp and
// tga decoders register themselves through the encoder imports above.
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return ToNRGBA(img), nil
}

// ToNRGBA converts any image to NRGBA with its origin at (0, 0).
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha channel: draw is exact here.
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				dst.SetNRGBA(x, y, c)
			}
		}
	}
	return dst
}
