// Copyright 2025 Axon ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package reference provides the baseline CPU implementation of the kernel
// contract: unoptimized scalar loops over every dtype. Other backends are
// validated against it.
package reference

import (
	internalreference "github.com/axon-ml/axon/internal/backend/reference"
	"github.com/axon-ml/axon/ndarray"
)

// Backend represents the reference backend implementation.
type Backend = internalreference.Backend

// Compile-time check that Backend implements ndarray.Backend.
var _ ndarray.Backend = (*Backend)(nil)

// New creates a new reference backend.
//
// Example:
//
//	import (
//	    "github.com/axon-ml/axon/backend/reference"
//	    "github.com/axon-ml/axon/ndarray"
//	)
//
//	func main() {
//	    ndarray.Register(reference.New())
//	    x, _ := ndarray.Zeros(ndarray.Shape{2, 3}, ndarray.Float32, ndarray.CPU)
//	    _ = x
//	}
func New() *Backend {
	return internalreference.New()
}
