package raster

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"scanline-rasterizer/internal/scene"
)

func mustParse(t *testing.T, lines ...string) []scene.Command {
	t.Helper()
	cmds, err := scene.Parse(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return cmds
}

func mustRender(t *testing.T, lines ...string) *image.NRGBA {
	t.Helper()
	img, _, err := Render(mustParse(t, lines...))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	return img
}

func countPixels(img *image.NRGBA, match func(color.NRGBA) bool) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if match(img.NRGBAAt(x, y)) {
				n++
			}
		}
	}
	return n
}

// bigTri covers every pixel of a small canvas: screen (0,0), (2W,0), (0,2H).
var bigTri = []string{"xyzw -1 -1 0 1", "xyzw 3 -1 0 1", "xyzw -1 3 0 1"}

func withTri(head []string, tail ...string) []string {
	out := append([]string{}, head...)
	out = append(out, bigTri...)
	return append(out, tail...)
}

func TestRenderRedTriangle(t *testing.T) {
	img, out, err := Render(mustParse(t,
		"png 4 4 out.png",
		"rgb 255 0 0",
		"xyzw 0 -1 0 1",
		"xyzw 0 1 0 1",
		"xyzw -1 -1 0 1",
		"tri 1 2 3",
	))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if out != "out.png" {
		t.Errorf("output path = %q, want out.png", out)
	}
	if img.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Fatalf("image bounds = %v", img.Bounds())
	}

	red := color.NRGBA{R: 255, A: 255}
	covered := map[image.Point]bool{{0, 0}: true, {1, 0}: true, {1, 1}: true, {1, 2}: true}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := img.NRGBAAt(x, y)
			want := color.NRGBA{}
			if covered[image.Pt(x, y)] {
				want = red
			}
			if got != want {
				t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRenderNegativeIndicesMatchReversed(t *testing.T) {
	head := []string{"png 6 6 out.png", "xyzw -0.8 -0.9 0 1", "rgb 0 255 0", "xyzw 0.7 -0.2 0 1", "rgb 0 0 255", "xyzw -0.1 0.9 0 1"}
	a := mustRender(t, append(append([]string{}, head...), "tri -1 -2 -3")...)
	b := mustRender(t, append(append([]string{}, head...), "tri 3 2 1")...)
	if string(a.Pix) != string(b.Pix) {
		t.Error("tri -1 -2 -3 and tri 3 2 1 rendered differently")
	}
	if countPixels(a, func(c color.NRGBA) bool { return c.A != 0 }) == 0 {
		t.Error("triangle produced no pixels")
	}
}

func TestRenderDepthOrderIndependent(t *testing.T) {
	near := []string{"rgb 255 0 0", "xyzw -1 -1 0.2 1", "xyzw 3 -1 0.2 1", "xyzw -1 3 0.2 1", "tri -3 -2 -1"}
	far := []string{"rgb 0 0 255", "xyzw -1 -1 0.5 1", "xyzw 3 -1 0.5 1", "xyzw -1 3 0.5 1", "tri -3 -2 -1"}

	head := []string{"png 4 4 out.png", "depth"}
	nearFirst := mustRender(t, append(append(append([]string{}, head...), near...), far...)...)
	farFirst := mustRender(t, append(append(append([]string{}, head...), far...), near...)...)

	want := color.NRGBA{R: 255, A: 255}
	for _, img := range []*image.NRGBA{nearFirst, farFirst} {
		if got := img.NRGBAAt(1, 1); got != want {
			t.Errorf("pixel (1, 1) = %v, want nearer red %v", got, want)
		}
	}
}

func TestRenderWithoutDepthLastWriterWins(t *testing.T) {
	img := mustRender(t,
		"png 4 4 out.png",
		"rgb 255 0 0", "xyzw -1 -1 0.2 1", "xyzw 3 -1 0.2 1", "xyzw -1 3 0.2 1", "tri 1 2 3",
		"rgb 0 0 255", "xyzw -1 -1 0.5 1", "xyzw 3 -1 0.5 1", "xyzw -1 3 0.5 1", "tri 4 5 6",
	)
	if got := img.NRGBAAt(1, 1); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("pixel = %v, want the later blue", got)
	}
}

func TestRenderAlphaBlend(t *testing.T) {
	img := mustRender(t, withTri(
		withTri([]string{"png 4 4 out.png", "rgba 255 0 0 1"}, "tri 1 2 3", "rgba 0 0 255 0.5"),
		"tri -1 -2 -3",
	)...)

	got := img.NRGBAAt(1, 1)
	if got.A != 255 {
		t.Errorf("alpha = %d, want 255", got.A)
	}
	if got.R == 0 || got.B == 0 || got.B == 255 {
		t.Errorf("pixel = %v, want a red/blue mix", got)
	}
	if got.R < 120 || got.R > 135 || got.B < 120 || got.B > 135 {
		t.Errorf("pixel = %v, want about (128, 0, 128)", got)
	}
}

func TestRenderAlphaOverTransparent(t *testing.T) {
	img := mustRender(t, withTri([]string{"png 2 2 out.png", "rgba 0 255 0 0.25"}, "tri 1 2 3")...)
	got := img.NRGBAAt(0, 0)
	if got.G != 255 || got.A != 64 {
		t.Errorf("pixel = %v, want green at alpha 64", got)
	}
}

func TestRenderFSAAUniform(t *testing.T) {
	img := mustRender(t, withTri([]string{"png 2 2 out.png", "fsaa 2", "rgb 10 200 30"}, "tri 1 2 3")...)
	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v, want 2x2", img.Bounds())
	}
	want := color.NRGBA{R: 10, G: 200, B: 30, A: 255}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := img.NRGBAAt(x, y); got != want {
				t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRenderFSAAEdgeIsPartial(t *testing.T) {
	img := mustRender(t,
		"png 4 4 out.png", "fsaa 4", "rgb 255 255 255",
		"xyzw -1 -1 0 1", "xyzw 1 -1 0 1", "xyzw -1 1 0 1", "tri 1 2 3",
	)
	partial := countPixels(img, func(c color.NRGBA) bool { return c.A > 0 && c.A < 255 })
	if partial == 0 {
		t.Error("antialiased diagonal edge produced no partially covered pixels")
	}
}

func TestRenderSRGBRoundTrip(t *testing.T) {
	img := mustRender(t, withTri([]string{"png 2 2 out.png", "sRGB", "rgb 128 64 200"}, "tri 1 2 3")...)
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{128, 64, 200, 255}) {
		t.Errorf("flat color through sRGB = %v, want unchanged", got)
	}
}

func TestRenderSRGBInterpolatesInLinear(t *testing.T) {
	lines := []string{"png 8 1 out.png", "sRGB", "rgb 0 0 0", "xyzw -1 -1 0 1", "rgb 255 255 255", "xyzw 1 -1 0 1", "line 1 2"}
	img := mustRender(t, lines...)
	plain := mustRender(t, append([]string{lines[0]}, lines[2:]...)...)

	mid := img.NRGBAAt(4, 0)
	if mid.R <= plain.NRGBAAt(4, 0).R {
		t.Errorf("linear-light midpoint %d should be brighter than sRGB-space %d", mid.R, plain.NRGBAAt(4, 0).R)
	}
}

func TestRenderHyperbolicUniformColor(t *testing.T) {
	img := mustRender(t,
		"png 4 4 out.png", "hyp", "depth", "rgb 200 100 50",
		"xyzw -1 -1 0 1", "xyzw 6 -2 0 2", "xyzw -0.5 1.5 0 0.5", "tri 1 2 3",
	)
	want := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	n := countPixels(img, func(c color.NRGBA) bool { return c.A != 0 })
	if n != 16 {
		t.Fatalf("covered %d pixels, want 16", n)
	}
	if m := countPixels(img, func(c color.NRGBA) bool { return c == want }); m != n {
		t.Errorf("%d of %d pixels differ from the flat color", n-m, n)
	}
}

func TestRenderHyperbolicIsPerspectiveCorrect(t *testing.T) {
	lines := []string{
		"png 8 8 out.png",
		"rgb 255 0 0", "xyzw -1 -1 0 1",
		"rgb 0 0 255", "xyzw 12 -4 0 4",
		"rgb 0 255 0", "xyzw -1 3 0 1",
		"tri 1 2 3",
	}
	hyp := mustRender(t, append([]string{lines[0], "hyp"}, lines[1:]...)...)
	affine := mustRender(t, lines...)

	tests := []struct {
		name string
		img  *image.NRGBA
		want color.NRGBA
	}{
		{"hyp", hyp, color.NRGBA{196, 39, 20, 255}},
		{"affine", affine, color.NRGBA{159, 32, 64, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.img.NRGBAAt(4, 2); got != tt.want {
				t.Errorf("pixel (4,2) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderSRGBDeferredEncode(t *testing.T) {
	want := color.NRGBA{128, 64, 200, 255}
	tests := []struct {
		name string
		head []string
	}{
		{"blend", []string{"png 2 2 out.png", "sRGB", "rgba 128 64 200 1"}},
		{"fsaa", []string{"png 2 2 out.png", "fsaa 2", "sRGB", "rgb 128 64 200"}},
		{"fsaa and blend", []string{"png 2 2 out.png", "fsaa 2", "sRGB", "rgba 128 64 200 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := mustRender(t, withTri(tt.head, "tri 1 2 3")...)
			if n := countPixels(img, func(c color.NRGBA) bool { return c == want }); n != 4 {
				t.Errorf("%d of 4 pixels kept the flat color, (0,0) = %v", n, img.NRGBAAt(0, 0))
			}
		})
	}
}

func TestRenderCull(t *testing.T) {
	// bigTri is clockwise on screen (negative signed area).
	culled := mustRender(t, withTri([]string{"png 4 4 out.png", "cull"}, "tri 1 2 3")...)
	if n := countPixels(culled, func(c color.NRGBA) bool { return c.A != 0 }); n != 0 {
		t.Errorf("back-facing triangle drew %d pixels", n)
	}
	kept := mustRender(t, withTri([]string{"png 4 4 out.png", "cull"}, "tri 1 3 2")...)
	if n := countPixels(kept, func(c color.NRGBA) bool { return c.A != 0 }); n == 0 {
		t.Error("front-facing triangle was culled")
	}
	noCull := mustRender(t, withTri([]string{"png 4 4 out.png"}, "tri 1 2 3")...)
	if n := countPixels(noCull, func(c color.NRGBA) bool { return c.A != 0 }); n == 0 {
		t.Error("triangle without culling drew nothing")
	}
}

func TestRenderCullBeforeViewport(t *testing.T) {
	// Counter-clockwise as given, clockwise once x and y are divided by w.
	tri := []string{"xyzw 1 0 0 1", "xyzw 0 1 0 1", "xyzw 0.8 0.8 0 2", "tri 1 2 3"}
	opaque := func(c color.NRGBA) bool { return c.A != 0 }

	culled := mustRender(t, append([]string{"png 40 40 out.png", "cull"}, tri...)...)
	plain := mustRender(t, append([]string{"png 40 40 out.png"}, tri...)...)

	want := countPixels(plain, opaque)
	if want == 0 {
		t.Fatal("triangle drew nothing without culling")
	}
	if got := countPixels(culled, opaque); got != want {
		t.Errorf("with cull drew %d pixels, want %d", got, want)
	}
}

func TestRenderLine(t *testing.T) {
	img := mustRender(t,
		"png 5 5 out.png", "rgb 0 255 0",
		"xyzw -1 -1 0 1", "xyzw 1 0.2 0 1", "line 1 2",
	)
	want := []image.Point{{0, 0}, {1, 1}, {2, 1}, {3, 2}, {4, 2}}
	for _, p := range want {
		if got := img.NRGBAAt(p.X, p.Y); got != (color.NRGBA{G: 255, A: 255}) {
			t.Errorf("pixel %v = %v, want green", p, got)
		}
	}
	if n := countPixels(img, func(c color.NRGBA) bool { return c.A != 0 }); n != len(want) {
		t.Errorf("line covered %d pixels, want %d", n, len(want))
	}
}

func TestRenderSteepLine(t *testing.T) {
	img := mustRender(t,
		"png 5 5 out.png",
		"xyzw -1 -1 0 1", "xyzw -0.6 1 0 1", "line 2 1",
	)
	if n := countPixels(img, func(c color.NRGBA) bool { return c.A != 0 }); n != 5 {
		t.Errorf("steep line covered %d pixels, want one per row (5)", n)
	}
}

func TestRenderPixelCommands(t *testing.T) {
	img := mustRender(t, "png 3 3 out.png", "xyrgb 1 2 10 20 30", "xyc 0 0 #ff0080", "xyrgb 7 7 1 1 1")
	if got := img.NRGBAAt(1, 2); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("xyrgb pixel = %v", got)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{255, 0, 128, 255}) {
		t.Errorf("xyc pixel = %v", got)
	}
}

func TestRenderPartiallyOffscreen(t *testing.T) {
	img := mustRender(t, "png 4 4 out.png",
		"xyzw -3 -3 0 1", "xyzw 5 -3 0 1", "xyzw -3 5 0 1", "tri 1 2 3")
	if n := countPixels(img, func(c color.NRGBA) bool { return c.A != 0 }); n != 16 {
		t.Errorf("offscreen-clipped triangle covered %d pixels, want 16", n)
	}
}

func TestRenderSkipsZeroW(t *testing.T) {
	img := mustRender(t, "png 4 4 out.png", "xyzw 0 0 0 0", "xyzw 1 0 0 1", "xyzw 0 1 0 1", "tri 1 2 3", "line 1 2")
	if n := countPixels(img, func(c color.NRGBA) bool { return c.A != 0 }); n != 0 {
		t.Errorf("primitive with w == 0 drew %d pixels", n)
	}
}

func TestRenderPNGResetsCanvas(t *testing.T) {
	img, out, err := Render(mustParse(t, withTri([]string{"png 4 4 first.png"}, "tri 1 2 3", "png 2 2 second.png")...))
	if err != nil {
		t.Fatal(err)
	}
	if out != "second.png" || img.Bounds().Dx() != 2 {
		t.Errorf("got %q at %v, want second.png at 2x2", out, img.Bounds())
	}
	if n := countPixels(img, func(c color.NRGBA) bool { return c.A != 0 }); n != 0 {
		t.Errorf("png did not clear the canvas: %d pixels set", n)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  error
	}{
		{"no png", []string{"rgb 1 2 3"}, ErrNoCanvas},
		{"tri before png", []string{"xyzw 0 0 0 1", "xyzw 1 0 0 1", "xyzw 0 1 0 1", "tri 1 2 3"}, ErrNoCanvas},
		{"index past end", []string{"png 2 2 a.png", "xyzw 0 0 0 1", "tri 1 2 3"}, ErrVertexIndex},
		{"negative past start", []string{"png 2 2 a.png", "xyzw 0 0 0 1", "xyzw 1 1 0 1", "line -1 -3"}, ErrVertexIndex},
		{"zero index", []string{"png 2 2 a.png", "xyzw 0 0 0 1", "xyzw 1 1 0 1", "line 0 1"}, ErrVertexIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Render(mustParse(t, tt.lines...))
			if !errors.Is(err, tt.want) {
				t.Errorf("Render() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestApplyStateChanges(t *testing.T) {
	r := NewRenderer()
	for _, cmd := range mustParse(t, "png 3 2 a.png", "fsaa 3", "depth", "rgba 1 2 3 0.5", "cull", "hyp", "sRGB") {
		if err := r.Apply(cmd); err != nil {
			t.Fatal(err)
		}
	}
	st := r.State()
	if !st.Depth || !st.Blend || !st.Cull || !st.Hyperbolic || !st.SRGB || st.Level() != 3 {
		t.Errorf("state = %+v", st)
	}
	if w, h := st.WorkingSize(); w != 9 || h != 6 {
		t.Errorf("WorkingSize() = %dx%d, want 9x6", w, h)
	}
	fb := r.FrameBuffer()
	if fb.Width != 9 || fb.ZBuf == nil || fb.Overlay == nil {
		t.Errorf("framebuffer %dx%d depth=%v overlay=%v", fb.Width, fb.Height, fb.ZBuf != nil, fb.Overlay != nil)
	}
	if st.Fill.A != 127.5 {
		t.Errorf("fill alpha = %v, want 127.5", st.Fill.A)
	}
}
