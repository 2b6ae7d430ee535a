package batch

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"img2mesh/internal/convert"
	"img2mesh/internal/depth"
	"img2mesh/internal/imageio"
	"img2mesh/internal/mask"
	"img2mesh/internal/meshio"
	"img2mesh/internal/postprocess"
	"img2mesh/internal/raster"
)

// MaskEllipse selects the generated elliptical mask.
const MaskEllipse = "ellipse"

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir    string
	Converter    *convert.Converter
	Mask         string       // "" or MaskEllipse; ignored when MaskImage is set
	MaskImage    *image.NRGBA // resized to each input
	MeshFormat   meshio.Format
	DepthFormat  string // png | webp
	MaxDimension int
	PreviewSize  int // 0 disables previews
	Supersample  int
	Workers      int
	Generator    string
	Logger       *slog.Logger
}

// Result holds the outcome of processing one image.
type Result struct {
	Source    string
	Mesh      string
	Depth     string
	Preview   string
	Vertices  int
	Triangles int
	Mode      string
	RunID     string
	Success   bool
	Error     string
}

// CollectInputs returns path itself for a file, or every decodable image
// directly inside a directory, sorted by name.
func CollectInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("batch: stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", path, err)
	}
	var inputs []string
	for _, e := range entries {
		if e.IsDir() || !imageio.SupportedExt(e.Name()) {
			continue
		}
		inputs = append(inputs, filepath.Join(path, e.Name()))
	}
	sort.Strings(inputs)
	return inputs, nil
}

// Run converts all inputs using a worker pool.
func Run(cfg Config, inputs []string) []Result {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	workers := max(1, cfg.Workers)

	total := len(inputs)
	results := make([]Result, total)
	var processed atomic.Int64

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
					log.Info("batch: progress",
						"done", p, "total", total,
						"rate", fmt.Sprintf("%.1f images/sec", float64(p)/elapsed))
				}
			}
		}
	}()

	// Worker pool
	itemChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range itemChan {
				results[idx] = processImage(cfg, inputs[idx])
				if !results[idx].Success {
					log.Warn("batch: failed", "source", inputs[idx], "error", results[idx].Error)
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range inputs {
		itemChan <- i
	}
	close(itemChan)

	wg.Wait()
	close(done)

	return results
}

func processImage(cfg Config, src string) Result {
	res := Result{Source: src}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	img, err := imageio.Load(src)
	if err != nil {
		return fail(err)
	}
	img = postprocess.Fit(img, cfg.MaxDimension)
	b := img.Bounds()

	var m *depth.Field
	switch {
	case cfg.MaskImage != nil:
		m = mask.FromImage(postprocess.Resize(cfg.MaskImage, b.Dx(), b.Dy()))
		m = mask.RemoveSmallRegions(m, 0.5, 0.02)
	case cfg.Mask == MaskEllipse:
		m = mask.Ellipse(b.Dx(), b.Dy())
	}

	out, err := cfg.Converter.Convert(img, m)
	if err != nil {
		return fail(err)
	}
	res.RunID = out.RunID
	res.Mode = out.Mode.String()
	res.Vertices = out.Metrics.Vertices
	res.Triangles = out.Metrics.Triangles

	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	format := cfg.MeshFormat
	if format == "" {
		format = meshio.FormatOBJ
	}
	depthExt := cfg.DepthFormat
	if depthExt == "" {
		depthExt = "png"
	}

	res.Depth = stem + "_depth." + depthExt
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fail(err)
	}
	if err := imageio.Save(filepath.Join(cfg.OutputDir, res.Depth), out.Depth.Image()); err != nil {
		return fail(err)
	}

	res.Mesh = stem + "." + string(format)
	header := meshio.Header{Generator: cfg.Generator, RunID: out.RunID, Source: filepath.Base(src)}
	if _, err := meshio.Save(filepath.Join(cfg.OutputDir, res.Mesh), out.Mesh, header); err != nil {
		return fail(err)
	}

	if cfg.PreviewSize > 0 {
		opts := raster.DefaultOptions()
		opts.Size = cfg.PreviewSize
		if cfg.Supersample > 0 {
			opts.Supersample = cfg.Supersample
		}
		res.Preview = stem + "_preview.png"
		if err := imageio.Save(filepath.Join(cfg.OutputDir, res.Preview), raster.RenderMesh(out.Mesh, opts)); err != nil {
			return fail(err)
		}
	}

	res.Success = true
	return res
}
