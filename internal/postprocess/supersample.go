package postprocess

import (
	"image"

	"scanline-rasterizer/internal/colorspace"
)

// Supersample box-filters an image rendered at level× the target resolution
// down to the target. Each output pixel averages its level×level block with
// alpha-weighted color so that transparent samples do not darken edges:
//
//	color = Σ c·a/255 / Σ a/255   (left at zero when no sample has alpha)
//	alpha = Σ a / level²
//
// With srgb set the averaged color is assumed linear and is encoded to sRGB.
// Partial blocks at the right and bottom edge are dropped.
func Supersample(img *image.NRGBA, level int, srgb bool) *image.NRGBA {
	if level <= 1 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx()/level, b.Dy()/level
	encode := colorspace.Encoder(srgb)
	samples := float64(level * level)

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sumR, sumG, sumB, sumA, weight float64
			for sy := y * level; sy < (y+1)*level; sy++ {
				off := img.PixOffset(b.Min.X+x*level, b.Min.Y+sy)
				for sx := 0; sx < level; sx++ {
					p := img.Pix[off+sx*4 : off+sx*4+4]
					a := float64(p[3])
					wt := a / 255
					sumR += float64(p[0]) * wt
					sumG += float64(p[1]) * wt
					sumB += float64(p[2]) * wt
					sumA += a
					weight += wt
				}
			}
			if weight != 0 {
				sumR /= weight
				sumG /= weight
				sumB /= weight
			}

			di := dst.PixOffset(x, y)
			dst.Pix[di] = clamp8(encode(sumR))
			dst.Pix[di+1] = clamp8(encode(sumG))
			dst.Pix[di+2] = clamp8(encode(sumB))
			dst.Pix[di+3] = clamp8(sumA / samples)
		}
	}
	return dst
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
