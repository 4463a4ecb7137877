package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scanline-rasterizer/internal/batch"
	"scanline-rasterizer/internal/compare"
	"scanline-rasterizer/internal/config"
	"scanline-rasterizer/internal/imageio"
	"scanline-rasterizer/internal/logging"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	baseDir := flag.String("base", "", "Base directory for relative paths (default: working directory)")
	refDir := flag.String("ref", "", "Reference directory (default: reference_files)")
	listFile := flag.String("list", "", "File naming the scenes to check (default: implemented.txt)")
	outputDir := flag.String("output", "", "Directory for rendered and diff images (default: compare_out)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	fuzz := flag.Float64("fuzz", 0, "Per-pixel tolerance as a fraction (default: 0.01)")
	stretch := flag.Float64("stretch", 0, "Upper level of the stretched diff image as a fraction (default: 0.08)")
	zoom := flag.Int("zoom", 0, "Scale factor of the look sheets (default: 1)")
	verbose := flag.Bool("v", false, "Log skipped lines and primitives")

	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	cfg.Resolve(config.Flags{
		BaseDir:   *baseDir,
		OutputDir: *outputDir,
		RefDir:    *refDir,
		ListFile:  *listFile,
		Workers:   *workers,
		Fuzz:      *fuzz,
		Stretch:   *stretch,
		Zoom:      *zoom,
	})
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(cfg.BaseDir, "compare_out")
	}

	names, err := readList(cfg.ListFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(names) == 0 {
		fmt.Println("No scenes to check.")
		os.Exit(0)
	}

	scenes := make([]string, len(names))
	for i, n := range names {
		scenes[i] = filepath.Join(cfg.RefDir, n+".txt")
	}

	fmt.Printf("Checking %d scenes against %s\n", len(scenes), cfg.RefDir)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(batch.Config{OutputDir: cfg.OutputDir, Workers: cfg.Workers}, scenes)

	opts := compare.Options{Fuzz: cfg.Fuzz, Stretch: cfg.Stretch, Zoom: cfg.Zoom}
	var failures []string
	for i, r := range results {
		name := names[i]
		if !r.Success {
			failures = append(failures, fmt.Sprintf("%s: render: %s", name, r.Error))
			continue
		}
		rep, err := check(cfg, name, r.Output, opts)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if !rep.Passed() {
			failures = append(failures, fmt.Sprintf("%s: %d/%d pixels differ, see %s",
				name, rep.Differing, rep.Total, rep.Sheet))
			continue
		}
		fmt.Printf("  ok   %s\n", name)
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs, passed %d/%d\n", time.Since(start).Seconds(), len(names)-len(failures), len(names))

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failures))
		for _, f := range failures {
			fmt.Printf("  %s\n", f)
		}
		os.Exit(1)
	}
}

// check compares a rendered image against the reference of the same file
// name and writes the diff images next to the rendered one.
func check(cfg config.Config, name, output string, opts compare.Options) (compare.Report, error) {
	refPath := filepath.Join(cfg.RefDir, filepath.Base(output))
	if abs(refPath) == abs(output) {
		return compare.Report{}, fmt.Errorf("output %s is its own reference", output)
	}

	ref, err := imageio.Load(refPath)
	if err != nil {
		return compare.Report{}, err
	}
	gen, err := imageio.Load(output)
	if err != nil {
		return compare.Report{}, err
	}
	return compare.Artifacts(filepath.Dir(output), name, ref, gen, opts)
}

// readList returns the non-empty, non-comment lines of path.
func readList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read list %s: %w", path, err)
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, strings.TrimSuffix(line, ".txt"))
	}
	return names, sc.Err()
}

func abs(p string) string {
	a, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return a
}
