package compare

import (
	"fmt"
	"image"
	"path/filepath"

	"scanline-rasterizer/internal/imageio"
)

// Options controls a reference comparison.
type Options struct {
	Fuzz    float64 // per-pixel tolerance for AbsoluteError, fraction of full scale
	Stretch float64 // upper bound for the stretched difference image
	Zoom    int     // scale factor of the side-by-side sheet
}

// DefaultOptions matches ImageMagick "compare -metric ae -fuzz 1%" and
// "convert -level 0%,8%".
func DefaultOptions() Options {
	return Options{Fuzz: 0.01, Stretch: 0.08, Zoom: 1}
}

// Report is the outcome of comparing one rendered image.
type Report struct {
	Name      string
	Differing int
	Total     int
	Sheet     string // path of the side-by-side image, empty on error
}

// Passed reports whether no pixel exceeded the fuzz tolerance.
func (r Report) Passed() bool { return r.Differing == 0 }

// Artifacts compares gen against ref and writes name_ae.png,
// name_rawdiff.png, name_diff.png and name_look.png (ref | gen | ae |
// rawdiff | diff) to dir.
func Artifacts(dir, name string, ref, gen *image.NRGBA, opts Options) (Report, error) {
	rep := Report{Name: name, Total: ref.Bounds().Dx() * ref.Bounds().Dy()}

	count, ae, err := AbsoluteError(ref, gen, opts.Fuzz)
	if err != nil {
		return rep, fmt.Errorf("compare: %s: %w", name, err)
	}
	rep.Differing = count

	raw, err := Difference(ref, gen)
	if err != nil {
		return rep, fmt.Errorf("compare: %s: %w", name, err)
	}
	diff := Stretch(raw, opts.Stretch)
	sheet := Sheet(opts.Zoom, ref, gen, ae, raw, diff)

	outputs := []struct {
		suffix string
		img    image.Image
	}{
		{"_ae", ae},
		{"_rawdiff", raw},
		{"_diff", diff},
		{"_look", sheet},
	}
	for _, o := range outputs {
		if err := imageio.Save(filepath.Join(dir, name+o.suffix+".png"), o.img); err != nil {
			return rep, err
		}
	}
	rep.Sheet = filepath.Join(dir, name+"_look.png")
	return rep, nil
}
