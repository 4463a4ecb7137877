// Package compare diffs rendered images against reference images.
package compare

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// ErrSizeMismatch is returned when two images do not share bounds.
var ErrSizeMismatch = errors.New("compare: image sizes differ")

// highlight marks differing pixels in AbsoluteError maps.
var highlight = color.NRGBA{R: 241, G: 0, B: 30, A: 255}

func sameSize(a, b *image.NRGBA) error {
	if a.Bounds().Size() != b.Bounds().Size() {
		return fmt.Errorf("%w: %v vs %v", ErrSizeMismatch, a.Bounds().Size(), b.Bounds().Size())
	}
	return nil
}

// Distance is the RMS difference of two pixels over all four channels,
// normalized to [0, 1].
func Distance(a, b color.NRGBA) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	da := float64(a.A) - float64(b.A)
	return math.Sqrt((dr*dr+dg*dg+db*db+da*da)/4) / 255
}

// AbsoluteError counts the pixels whose Distance exceeds fuzz and returns a
// map image with those pixels highlighted over a faded copy of ref.
func AbsoluteError(ref, gen *image.NRGBA, fuzz float64) (int, *image.NRGBA, error) {
	if err := sameSize(ref, gen); err != nil {
		return 0, nil, err
	}
	w, h := ref.Bounds().Dx(), ref.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	count := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rc := ref.NRGBAAt(ref.Rect.Min.X+x, ref.Rect.Min.Y+y)
			gc := gen.NRGBAAt(gen.Rect.Min.X+x, gen.Rect.Min.Y+y)
			if Distance(rc, gc) > fuzz {
				count++
				out.SetNRGBA(x, y, highlight)
				continue
			}
			out.SetNRGBA(x, y, fade(rc))
		}
	}
	return count, out, nil
}

// fade washes a color 80% of the way to white.
func fade(c color.NRGBA) color.NRGBA {
	f := func(v uint8) uint8 { return v + uint8((255-int(v))*4/5) }
	a := float64(c.A) / 255
	// Composite over white first so transparent pixels read as background.
	over := func(v uint8) uint8 { return uint8(float64(v)*a + 255*(1-a) + 0.5) }
	return color.NRGBA{R: f(over(c.R)), G: f(over(c.G)), B: f(over(c.B)), A: 255}
}

// Difference returns the per-channel absolute difference of two images.
// Color and alpha differences are both kept; the result is opaque.
func Difference(ref, gen *image.NRGBA) (*image.NRGBA, error) {
	if err := sameSize(ref, gen); err != nil {
		return nil, err
	}
	w, h := ref.Bounds().Dx(), ref.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := ref.NRGBAAt(ref.Rect.Min.X+x, ref.Rect.Min.Y+y)
			b := gen.NRGBAAt(gen.Rect.Min.X+x, gen.Rect.Min.Y+y)
			da := absDiff(a.A, b.A)
			out.SetNRGBA(x, y, color.NRGBA{
				R: max(absDiff(a.R, b.R), da),
				G: max(absDiff(a.G, b.G), da),
				B: max(absDiff(a.B, b.B), da),
				A: 255,
			})
		}
	}
	return out, nil
}

// Stretch maps channel values in [0, hi·255] to [0, 255] and clips above,
// making small differences visible. hi is a fraction, e.g. 0.08.
func Stretch(img *image.NRGBA, hi float64) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	top := hi * 255
	for i := 0; i < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := float64(img.Pix[i+c]) / top * 255
			if v > 255 {
				v = 255
			}
			out.Pix[i+c] = uint8(v + 0.5)
		}
		out.Pix[i+3] = img.Pix[i+3]
	}
	return out
}

// Sheet lays images side by side, left to right, each scaled by zoom with
// nearest-neighbor sampling so single pixels stay crisp.
func Sheet(zoom int, imgs ...*image.NRGBA) *image.NRGBA {
	if zoom < 1 {
		zoom = 1
	}
	var w, h int
	for _, img := range imgs {
		w += img.Bounds().Dx() * zoom
		h = max(h, img.Bounds().Dy()*zoom)
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	x := 0
	for _, img := range imgs {
		b := img.Bounds()
		dr := image.Rect(x, 0, x+b.Dx()*zoom, b.Dy()*zoom)
		draw.NearestNeighbor.Scale(out, dr, img, b, draw.Src, nil)
		x = dr.Max.X
	}
	return out
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
