package tensor

import "fmt"

// Device represents a compute device kind.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	GPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "cpu"
	case GPU:
		return "gpu"
	default:
		return "unknown"
	}
}

// Context identifies where a tensor lives: a device kind plus an ordinal.
//
// Contexts are comparable values; two tensors share a context when their
// contexts are equal.
type Context struct {
	Device Device
	ID     int
}

// DefaultContext is used when a tensor is created without an explicit context.
var DefaultContext = Context{Device: CPU}

// CPUContext returns the CPU context with the given ordinal.
func CPUContext(id int) Context {
	return Context{Device: CPU, ID: id}
}

// GPUContext returns the GPU context with the given ordinal.
func GPUContext(id int) Context {
	return Context{Device: GPU, ID: id}
}

// String renders the context as device(id), e.g. cpu(0).
func (c Context) String() string {
	return fmt.Sprintf("%s(%d)", c.Device, c.ID)
}
