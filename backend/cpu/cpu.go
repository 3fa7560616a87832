// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	"github.com/born-ml/tensorops/internal/backend/cpu"
	"github.com/born-ml/tensorops/internal/config"
	"github.com/born-ml/tensorops/internal/parallel"
	"github.com/born-ml/tensorops/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = cpu.CPUBackend

// Config controls how Apply splits work across goroutines.
type Config = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a CPU backend with DefaultConfig.
//
// Example:
//
//	backend := cpu.New()
//	y, err := backend.Map(ops.OpExp, tensor.FromSlice([]float64{0, 1}))
func New() *Backend {
	return cpu.New()
}

// NewWithConfig creates a CPU backend with an explicit parallel config.
func NewWithConfig(cfg Config) *Backend {
	return cpu.NewWithConfig(cfg)
}

// NewFromEnv creates a CPU backend configured by TENSOROPS_WORKERS and
// TENSOROPS_MIN_CHUNK.
func NewFromEnv() *Backend {
	return cpu.NewWithConfig(config.Parallel())
}

// DefaultConfig uses every CPU and splits runs of at least 4096 elements.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}

// Sequential returns a config that never spawns goroutines.
func Sequential() Config {
	return parallel.Sequential()
}
