package main

import (
	"fmt"
	"image"
	"os"

	"scanline-rasterizer/internal/imageio"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: inspect image [x,y ...]")
		os.Exit(2)
	}

	path := os.Args[1]
	img, err := imageio.Load(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	checkAlpha(img, path)

	// Also print any requested pixels
	b := img.Bounds()
	for _, arg := range os.Args[2:] {
		var x, y int
		if _, err := fmt.Sscanf(arg, "%d,%d", &x, &y); err != nil {
			fmt.Printf("  bad pixel %q\n", arg)
			continue
		}
		if !(image.Point{x, y}).In(b) {
			fmt.Printf("  Pixel(%d,%d): out of bounds\n", x, y)
			continue
		}
		c := img.NRGBAAt(x, y)
		fmt.Printf("  Pixel(%d,%d): R=%d G=%d B=%d A=%d\n", x, y, c.R, c.G, c.B, c.A)
	}
}

func checkAlpha(img *image.NRGBA, name string) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	var minA, maxA uint8 = 255, 0
	total := 0
	covered := 0
	opaque := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := img.Pix[y*img.Stride+x*4+3]
			total++
			if a < minA {
				minA = a
			}
			if a > maxA {
				maxA = a
			}
			if a > 0 {
				covered++
			}
			if a == 255 {
				opaque++
			}
		}
	}
	if total == 0 {
		fmt.Printf("%s: empty image\n", name)
		return
	}
	fmt.Printf("%s: %dx%d (%s)\n", name, w, h, imageio.FormatFromPath(name))
	fmt.Printf("Alpha: min=%d max=%d\n", minA, maxA)
	fmt.Printf("Coverage: %d/%d (%.1f%%), opaque=%d (%.1f%%)\n",
		covered, total, 100*float64(covered)/float64(total),
		opaque, 100*float64(opaque)/float64(total))
}
