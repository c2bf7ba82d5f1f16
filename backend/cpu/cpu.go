// Copyright 2025 Axon ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the optimized CPU implementation of the kernel
// contract, with float32/float64 loops chunked across goroutines.
package cpu

import (
	internalcpu "github.com/axon-ml/axon/internal/backend/cpu"
	"github.com/axon-ml/axon/internal/parallel"
	"github.com/axon-ml/axon/ndarray"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.Backend

// Config controls the backend's parallel chunking.
type Config = parallel.Config

// Compile-time check that Backend implements ndarray.Backend.
var _ ndarray.Backend = (*Backend)(nil)

// New creates a CPU backend with the default parallel configuration.
//
// Example:
//
//	import (
//	    "github.com/axon-ml/axon/backend/cpu"
//	    "github.com/axon-ml/axon/ndarray"
//	)
//
//	func main() {
//	    ndarray.Register(cpu.New())
//	    x, _ := ndarray.Ones(ndarray.Shape{2, 3}, ndarray.Float32, ndarray.CPU)
//	    _ = x
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with an explicit parallel
// configuration.
func NewWithConfig(cfg Config) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultConfig returns the configuration New uses, derived from CPU count.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}
