//go:build !manifold

// Package manifold binds the Manifold C library as a geometry kernel
// backend. Without the "manifold" build tag this stub compiles instead
// and New reports the backend as unavailable.
//
// Build with: go build -tags=manifold
package manifold

import (
	"errors"

	"github.com/asheraryam/concept-graph/pkg/kernel"
)

// New returns an error indicating Manifold is not available.
// Build with -tags=manifold to enable.
func New() (kernel.Kernel, error) {
	return nil, errors.New("manifold kernel not available: build with -tags=manifold")
}
