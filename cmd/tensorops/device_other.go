//go:build !windows

package main

import (
	"errors"

	"github.com/born-ml/tensorops/internal/sweep"
)

// openDevice reports that the WebGPU backend is not built on this platform.
func openDevice() (sweep.Backend, func(), error) {
	return nil, nil, errors.New("webgpu: backend is only built for windows")
}
