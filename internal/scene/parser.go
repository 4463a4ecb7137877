package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"scanline-rasterizer/internal/logging"
)

// ParseFile reads a scene file and returns its commands in order.
func ParseFile(path string) ([]Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: open %s: %w", path, err)
	}
	defer f.Close()

	cmds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	return cmds, nil
}

// Parse decodes a command stream. Blank, unknown and malformed lines are
// skipped; only read errors are returned.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cmd, ok := ParseLine(line)
		if !ok {
			logging.Logger().Debug("scene: skipping line", "line", lineNo, "text", line)
			continue
		}
		cmds = append(cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cmds, nil
}

var toggles = map[string]Feature{
	"depth": FeatureDepth,
	"sRGB":  FeatureSRGB,
	"hyp":   FeatureHyperbolic,
	"cull":  FeatureCull,
}

// ParseLine decodes a single line. ok is false for anything that is not a
// well-formed command.
func ParseLine(line string) (cmd Command, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}
	args := fields[1:]

	switch fields[0] {
	case "png":
		if len(args) != 3 {
			return nil, false
		}
		w, err1 := strconv.Atoi(args[0])
		h, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
			return nil, false
		}
		return Canvas{Width: w, Height: h, Path: args[2]}, true

	case "depth", "sRGB", "hyp", "cull":
		if len(args) != 0 {
			return nil, false
		}
		return Toggle{Feature: toggles[fields[0]]}, true

	case "fsaa":
		if len(args) != 1 {
			return nil, false
		}
		level, err := strconv.Atoi(args[0])
		if err != nil || level < 1 {
			return nil, false
		}
		return FSAA{Level: level}, true

	case "rgb":
		v, ok := floats(args, 3)
		if !ok {
			return nil, false
		}
		return Color{R: v[0], G: v[1], B: v[2], A: 255}, true

	case "rgba":
		v, ok := floats(args, 4)
		if !ok {
			return nil, false
		}
		return Color{R: v[0], G: v[1], B: v[2], A: v[3] * 255, Blend: true}, true

	case "xyzw":
		v, ok := floats(args, 4)
		if !ok {
			return nil, false
		}
		return Vertex{X: v[0], Y: v[1], Z: v[2], W: v[3]}, true

	case "tri":
		v, ok := ints(args, 3)
		if !ok {
			return nil, false
		}
		return Triangle{Indices: [3]int{v[0], v[1], v[2]}}, true

	case "line":
		v, ok := ints(args, 2)
		if !ok {
			return nil, false
		}
		return Line{Indices: [2]int{v[0], v[1]}}, true

	case "xyrgb":
		v, ok := ints(args, 5)
		if !ok {
			return nil, false
		}
		return Pixel{X: v[0], Y: v[1], R: clampByte(v[2]), G: clampByte(v[3]), B: clampByte(v[4])}, true

	case "xyc":
		if len(args) != 3 {
			return nil, false
		}
		xy, ok := ints(args[:2], 2)
		if !ok {
			return nil, false
		}
		r, g, b, ok := parseHexColor(args[2])
		if !ok {
			return nil, false
		}
		return Pixel{X: xy[0], Y: xy[1], R: r, G: g, B: b}, true
	}

	return nil, false
}

// floats and ints require exactly n arguments.
func floats(args []string, n int) ([]float64, bool) {
	if len(args) != n {
		return nil, false
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func ints(args []string, n int) ([]int, bool) {
	if len(args) != n {
		return nil, false
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// parseHexColor accepts "#rrggbb".
func parseHexColor(s string) (r, g, b uint8, ok bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
