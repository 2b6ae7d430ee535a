// Package convert runs the image-to-mesh pipeline: a depth dispatch followed
// by a mesh dispatch on a shared compute device.
//
// Whether the device path is usable is decided once, in New. If the device,
// its program or either pipeline is unavailable, the converter runs every
// call through the serial fallback instead (unless Strict is set, in which
// case New fails).
package convert

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"img2mesh/internal/compute"
	"img2mesh/internal/depth"
	"img2mesh/internal/mesh"
)

// Kernel entry points and their fixed work-group sizes.
const (
	EntryDepth = "estimate_depth"
	EntryMesh  = "build_mesh"
)

var (
	DepthWorkgroup = compute.Size{X: 16, Y: 16}
	MeshWorkgroup  = compute.Linear(256)
)

// Mode is the execution path a converter uses.
type Mode int

const (
	ModeParallel Mode = iota
	ModeSerial
)

func (m Mode) String() string {
	if m == ModeSerial {
		return "serial"
	}
	return "parallel"
}

// Result is the output of one conversion.
type Result struct {
	RunID   string
	Mode    Mode
	Depth   *depth.Field
	Mesh    *mesh.Buffers
	Metrics mesh.Metrics
	Elapsed time.Duration
}

// Converter turns images into meshes. It is safe for concurrent use; device
// dispatches from concurrent calls are serialized.
type Converter struct {
	dev       *compute.Device
	depthPipe *compute.Pipeline
	meshPipe  *compute.Pipeline
	mode      Mode

	params   depth.Params
	textured bool
	log      *slog.Logger
}

// New opens (or adopts) a device and builds both pipelines.
func New(opts ...Option) (*Converter, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Converter{
		params:   o.params,
		textured: o.textured,
		log:      o.logger,
	}

	err := c.setup(o)
	if err != nil {
		if o.strict {
			return nil, err
		}
		c.log.Warn("convert: compute unavailable, using serial fallback", "error", err)
		c.dev, c.depthPipe, c.meshPipe = nil, nil, nil
		c.mode = ModeSerial
		return c, nil
	}

	c.log.Info("convert: compute ready",
		"device", c.dev.Name(),
		"depth_workgroup", DepthWorkgroup.String(),
		"mesh_workgroup", MeshWorkgroup.String())
	return c, nil
}

func (c *Converter) setup(o options) error {
	dev := o.device
	if dev == nil {
		var err error
		dev, err = compute.Open(compute.Options{
			Backend: o.backend,
			Workers: o.workers,
			Limits:  o.limits,
			Logger:  c.log,
		})
		if err != nil {
			return err
		}
	}
	prog, err := dev.Compile("img2mesh", o.entryPoints...)
	if err != nil {
		return err
	}
	c.depthPipe, err = prog.Pipeline(EntryDepth, DepthWorkgroup)
	if err != nil {
		return err
	}
	c.meshPipe, err = prog.Pipeline(EntryMesh, MeshWorkgroup)
	if err != nil {
		return err
	}
	c.dev = dev
	c.mode = ModeParallel
	return nil
}

// Mode reports the path chosen at construction.
func (c *Converter) Mode() Mode { return c.mode }

// Device returns the compute device, or nil in serial mode.
func (c *Converter) Device() *compute.Device { return c.dev }

// Convert estimates depth for img and lifts it into a mesh. mask may be nil;
// otherwise it must match the image size.
func (c *Converter) Convert(img *image.NRGBA, mask *depth.Field) (*Result, error) {
	start := time.Now()
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if err := mesh.CheckSize(w, h); err != nil {
		return nil, err
	}
	if mask != nil {
		if err := mask.CheckSize(w, h); err != nil {
			return nil, fmt.Errorf("convert: mask: %w", err)
		}
	}

	res := &Result{
		RunID:   uuid.NewString(),
		Mode:    c.mode,
		Metrics: mesh.MetricsFor(w, h, c.textured),
	}
	log := c.log.With("run", res.RunID, "mode", c.mode.String())
	log.Debug("convert: start",
		"width", w, "height", h,
		"vertices", res.Metrics.Vertices,
		"triangles", res.Metrics.Triangles,
		"memory_bytes", res.Metrics.MemoryBytes)

	var err error
	if c.mode == ModeSerial {
		res.Depth, res.Mesh = c.convertSerial(img, mask)
	} else {
		res.Depth, res.Mesh, err = c.convertParallel(img, mask)
		if err != nil {
			return nil, err
		}
	}

	res.Elapsed = time.Since(start)
	log.Debug("convert: done", "elapsed", res.Elapsed)
	return res, nil
}

func (c *Converter) convertParallel(img *image.NRGBA, mask *depth.Field) (*depth.Field, *mesh.Buffers, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	texels, err := compute.NewTexture[mgl32.Vec4](c.dev, "color texture", w, h)
	if err != nil {
		return nil, nil, err
	}
	tex := depth.Upload(img, texels)

	field, err := c.estimate(tex, mask)
	if err != nil {
		return nil, nil, err
	}
	buf, err := c.build(field, tex)
	if err != nil {
		return nil, nil, err
	}
	return field, buf, nil
}

func (c *Converter) estimate(tex *depth.Texture, mask *depth.Field) (*depth.Field, error) {
	values, err := compute.NewTexture[float32](c.dev, "depth texture", tex.Width, tex.Height)
	if err != nil {
		return nil, err
	}
	field := &depth.Field{Width: tex.Width, Height: tex.Height, Values: values}
	domain := compute.Size{X: tex.Width, Y: tex.Height}
	if err := c.depthPipe.Dispatch(domain, depth.Kernel(tex, mask, field, c.params)); err != nil {
		return nil, fmt.Errorf("convert: depth dispatch: %w", err)
	}
	return field, nil
}

func (c *Converter) build(field *depth.Field, tex *depth.Texture) (*mesh.Buffers, error) {
	w, h := field.Width, field.Height
	n := mesh.VertexCount(w, h)

	buf := &mesh.Buffers{Width: w, Height: h}
	var err error
	if buf.Positions, err = compute.NewBuffer[mgl32.Vec3](c.dev, "vertex buffer", n); err != nil {
		return nil, err
	}
	if buf.UVs, err = compute.NewBuffer[mgl32.Vec2](c.dev, "uv buffer", n); err != nil {
		return nil, err
	}
	if c.textured {
		if buf.Colors, err = compute.NewBuffer[mgl32.Vec3](c.dev, "color buffer", n); err != nil {
			return nil, err
		}
	}
	if buf.Indices, err = compute.NewBuffer[uint32](c.dev, "index buffer", mesh.IndexCount(w, h)); err != nil {
		return nil, err
	}

	if err := c.meshPipe.Dispatch(compute.Linear(n), mesh.Kernel(buf, field, tex)); err != nil {
		return nil, fmt.Errorf("convert: mesh dispatch: %w", err)
	}
	return buf, nil
}

// convertSerial is the fallback: luminance-inverted depth, and a mesh lifted
// from the synthetic surface rather than that depth.
func (c *Converter) convertSerial(img *image.NRGBA, mask *depth.Field) (*depth.Field, *mesh.Buffers) {
	tex := depth.NewTexture(img)
	field := depth.NewField(tex.Width, tex.Height)
	depth.EstimateSerial(tex, mask, field)

	buf := mesh.NewBuffers(tex.Width, tex.Height, c.textured)
	mesh.BuildSerial(buf, mesh.SyntheticField(tex.Width, tex.Height), tex)
	return field, buf
}
