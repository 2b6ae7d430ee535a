package compute

import (
	"fmt"
	"unsafe"
)

// Limits bounds what a device will allocate and dispatch. The defaults match
// the WebGPU baseline limits.
type Limits struct {
	MaxBufferSize              int64
	MaxTextureDimension2D      int
	MaxInvocationsPerWorkgroup int
}

// DefaultLimits returns the baseline limits.
func DefaultLimits() Limits {
	return Limits{
		MaxBufferSize:              256 << 20,
		MaxTextureDimension2D:      8192,
		MaxInvocationsPerWorkgroup: 256,
	}
}

// AllocError reports a buffer or texture the device refused to allocate.
type AllocError struct {
	Resource string
	Bytes    int64
	Limit    int64
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("compute: allocate %s: %d bytes exceeds limit %d", e.Resource, e.Bytes, e.Limit)
}

// NewBuffer allocates a device buffer of n elements.
func NewBuffer[T any](d *Device, label string, n int) ([]T, error) {
	var zero T
	size := int64(n) * int64(unsafe.Sizeof(zero))
	if n < 0 || size > d.limits.MaxBufferSize {
		return nil, &AllocError{Resource: label, Bytes: size, Limit: d.limits.MaxBufferSize}
	}
	d.log.Debug("compute: buffer allocated", "buffer", label, "elements", n, "bytes", size)
	return make([]T, n), nil
}

// NewTexture allocates a w×h texture of texels laid out row-major.
func NewTexture[T any](d *Device, label string, w, h int) ([]T, error) {
	dim := d.limits.MaxTextureDimension2D
	if w > dim || h > dim {
		var zero T
		return nil, &AllocError{
			Resource: fmt.Sprintf("%s (%dx%d, max dimension %d)", label, w, h, dim),
			Bytes:    int64(w) * int64(h) * int64(unsafe.Sizeof(zero)),
			Limit:    d.limits.MaxBufferSize,
		}
	}
	return NewBuffer[T](d, label, w*h)
}
