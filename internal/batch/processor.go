package batch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"scanline-rasterizer/internal/imageio"
	"scanline-rasterizer/internal/logging"
	"scanline-rasterizer/internal/raster"
	"scanline-rasterizer/internal/scene"
)

// Config holds the shared settings for a batch run.
type Config struct {
	// OutputDir prefixes relative png paths from the scenes. Empty keeps
	// them relative to the working directory.
	OutputDir string
	Workers   int
}

// Result holds the outcome of rendering one scene file.
type Result struct {
	Name    string
	Scene   string
	Output  string
	Width   int
	Height  int
	Success bool
	Error   string
}

// Run renders all scenes using a worker pool. Results keep the order of
// scenes.
func Run(cfg Config, scenes []string) []Result {
	total := len(scenes)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f scenes/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = RenderScene(cfg, scenes[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range scenes {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results
}

// RenderScene parses and renders one scene file and writes its image.
func RenderScene(cfg Config, path string) Result {
	res := Result{
		Name:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Scene: path,
	}

	logging.Logger().Info("batch: scene started", "scene", path)

	cmds, err := scene.ParseFile(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	img, out, err := raster.Render(cmds)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	if cfg.OutputDir != "" && !filepath.IsAbs(out) {
		out = filepath.Join(cfg.OutputDir, out)
	}
	res.Output = out
	res.Width, res.Height = img.Bounds().Dx(), img.Bounds().Dy()

	if err := imageio.Save(out, img); err != nil {
		logging.Logger().Warn("batch: output not written", "scene", path, "output", out, "err", err)
		res.Error = err.Error()
		return res
	}

	logging.Logger().Info("batch: scene rendered", "scene", path, "output", out,
		"width", res.Width, "height", res.Height)
	res.Success = true
	return res
}
