//go:build windows

package main

import (
	"fmt"

	"github.com/born-ml/tensorops/internal/backend/webgpu"
	"github.com/born-ml/tensorops/internal/sweep"
)

// openDevice opens the WebGPU backend.
func openDevice() (sweep.Backend, func(), error) {
	if !webgpu.IsAvailable() {
		return nil, nil, fmt.Errorf("webgpu: no adapter available")
	}
	b, err := webgpu.New()
	if err != nil {
		return nil, nil, err
	}
	return b, b.Release, nil
}
