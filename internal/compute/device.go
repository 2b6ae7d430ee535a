package compute

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/unixpickle/essentials"
)

var (
	// ErrNoDevice is returned when no compatible compute backend can be opened.
	ErrNoDevice = errors.New("compute: no compatible device")

	// ErrUnknownEntryPoint is returned when a pipeline names an entry point
	// the program was not compiled with.
	ErrUnknownEntryPoint = errors.New("compute: unknown kernel entry point")

	// ErrWorkgroupTooLarge is returned when a pipeline's work-group exceeds
	// the device's invocation limit.
	ErrWorkgroupTooLarge = errors.New("compute: work-group exceeds device limit")
)

// BackendCPU runs work-groups on a goroutine pool.
const BackendCPU = "cpu"

// BackendNone never opens a device; it forces callers onto their serial path.
const BackendNone = "none"

// Options configures Open.
type Options struct {
	Backend string // "" selects BackendCPU
	Workers int    // concurrent work-groups, 0 = NumCPU
	Limits  Limits // zero value selects DefaultLimits
	Logger  *slog.Logger
}

// Device executes kernels over dispatch grids. A device is opened once and
// shared by every conversion; dispatches are serialized on its queue.
type Device struct {
	name    string
	workers int
	limits  Limits
	log     *slog.Logger

	queue      sync.Mutex
	dispatches int
}

// Open acquires a compute device for the requested backend.
func Open(opts Options) (*Device, error) {
	backend := opts.Backend
	if backend == "" {
		backend = BackendCPU
	}
	if backend != BackendCPU {
		return nil, fmt.Errorf("%w: backend %q", ErrNoDevice, backend)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	limits := opts.Limits
	if limits == (Limits{}) {
		limits = DefaultLimits()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	d := &Device{
		name:    fmt.Sprintf("%s (%d workers)", backend, workers),
		workers: workers,
		limits:  limits,
		log:     log,
	}
	log.Info("compute: device opened",
		"device", d.name,
		"max_buffer", limits.MaxBufferSize,
		"max_invocations", limits.MaxInvocationsPerWorkgroup)
	return d, nil
}

// Name describes the device.
func (d *Device) Name() string { return d.name }

// Limits returns the device limits.
func (d *Device) Limits() Limits { return d.limits }

// Dispatches returns the number of completed dispatches.
func (d *Device) Dispatches() int {
	d.queue.Lock()
	defer d.queue.Unlock()
	return d.dispatches
}

// run executes every invocation of grid×group and returns when all
// work-groups have finished. Invocations outside the caller's domain are
// still issued; kernels must bounds-check.
func (d *Device) run(label string, grid, group Size, k Kernel) {
	d.queue.Lock()
	defer d.queue.Unlock()

	start := time.Now()
	groups := grid.Count()
	essentials.ConcurrentMap(d.workers, groups, func(g int) {
		baseX := (g % grid.X) * group.X
		baseY := (g / grid.X) * group.Y
		for ly := 0; ly < group.Y; ly++ {
			for lx := 0; lx < group.X; lx++ {
				k(ID{X: baseX + lx, Y: baseY + ly})
			}
		}
	})
	d.dispatches++

	d.log.Debug("compute: dispatch complete",
		"pipeline", label,
		"grid", grid.String(),
		"workgroup", group.String(),
		"elapsed", time.Since(start))
}
