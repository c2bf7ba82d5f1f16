package ndarray

import (
	"fmt"
	"sync"
)

// Device identifies which kernel-contract implementation applies to a buffer.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	CUDA
	Vulkan
	Metal
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// registry maps each device to its kernel-contract implementation. Backend
// selection is a plain lookup keyed by device identifier.
var registry = struct {
	sync.RWMutex
	backends map[Device]Backend
}{backends: make(map[Device]Backend)}

// Register installs a backend as the implementation for its device,
// replacing any previous registration.
func Register(b Backend) {
	registry.Lock()
	defer registry.Unlock()
	registry.backends[b.Device()] = b
}

// BackendFor returns the backend registered for the device.
func BackendFor(d Device) (Backend, error) {
	registry.RLock()
	defer registry.RUnlock()
	b, ok := registry.backends[d]
	if !ok {
		return nil, fmt.Errorf("%w: no backend registered for %s", ErrDeviceMismatch, d)
	}
	return b, nil
}
