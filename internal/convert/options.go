package convert

import (
	"log/slog"

	"img2mesh/internal/compute"
	"img2mesh/internal/depth"
)

type options struct {
	device      *compute.Device
	backend     string
	workers     int
	limits      compute.Limits
	entryPoints []string

	params   depth.Params
	textured bool
	strict   bool
	logger   *slog.Logger
}

func defaultOptions() options {
	return options{
		entryPoints: []string{EntryDepth, EntryMesh},
		params:      depth.DefaultParams(),
		logger:      slog.New(slog.DiscardHandler),
	}
}

// Option configures New.
type Option func(*options)

// WithDevice shares an already opened device.
func WithDevice(d *compute.Device) Option {
	return func(o *options) { o.device = d }
}

// WithBackend selects the compute backend to open; see compute.Open.
func WithBackend(name string) Option {
	return func(o *options) { o.backend = name }
}

// WithWorkers sets how many work-groups run concurrently.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLimits overrides the device limits.
func WithLimits(l compute.Limits) Option {
	return func(o *options) { o.limits = l }
}

// WithParams overrides the depth estimator settings.
func WithParams(p depth.Params) Option {
	return func(o *options) { o.params = p }
}

// WithTextured enables per-vertex colors.
func WithTextured(on bool) Option {
	return func(o *options) { o.textured = on }
}

// WithStrict makes compute setup failures fatal instead of falling back.
func WithStrict(on bool) Option {
	return func(o *options) { o.strict = on }
}

// WithLogger sets the structured logger. nil keeps logging disabled.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// withEntryPoints replaces the compiled entry points; tests use it to
// simulate a program missing a kernel.
func withEntryPoints(names ...string) Option {
	return func(o *options) { o.entryPoints = names }
}
