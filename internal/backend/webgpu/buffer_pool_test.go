//go:build windows

package webgpu

import (
	"testing"

	"github.com/go-webgpu/webgpu/wgpu"
)

func TestBufferPoolAcquireRelease(t *testing.T) {
	backend := newTestBackend(t)

	pool := NewBufferPool(backend.device)
	defer pool.Clear()

	size := uint64(1024)
	usage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc
	buffer1 := pool.Acquire(size, usage)

	stats := pool.Stats()
	if stats.Allocated != 1 || stats.Misses != 1 || stats.Hits != 0 {
		t.Errorf("after first Acquire: %+v", stats)
	}

	pool.Release(buffer1, size, usage)
	if stats = pool.Stats(); stats.Idle != 1 {
		t.Errorf("Expected 1 idle buffer, got %d", stats.Idle)
	}

	// Same size class reuses the idle buffer.
	buffer2 := pool.Acquire(size-100, usage)
	stats = pool.Stats()
	if stats.Hits != 1 || stats.Allocated != 1 || stats.Idle != 0 {
		t.Errorf("after second Acquire: %+v", stats)
	}
	if buffer2 != buffer1 {
		t.Error("Expected the pooled buffer to be returned")
	}
	pool.Release(buffer2, size, usage)
}

func TestBufferPoolSeparatesUsage(t *testing.T) {
	backend := newTestBackend(t)

	pool := NewBufferPool(backend.device)
	defer pool.Clear()

	storage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc
	staging := wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst

	b := pool.Acquire(512, storage)
	pool.Release(b, 512, storage)

	other := pool.Acquire(512, staging)
	defer pool.Release(other, 512, staging)

	if stats := pool.Stats(); stats.Hits != 0 || stats.Allocated != 2 {
		t.Errorf("Expected no reuse across usages, got %+v", stats)
	}
}

func TestBufferPoolCap(t *testing.T) {
	backend := newTestBackend(t)

	pool := NewBufferPool(backend.device)
	defer pool.Clear()

	usage := wgpu.BufferUsageStorage
	buffers := make([]*wgpu.Buffer, maxPooledPerClass+2)
	for i := range buffers {
		buffers[i] = pool.Acquire(256, usage)
	}
	for _, b := range buffers {
		pool.Release(b, 256, usage)
	}

	if stats := pool.Stats(); stats.Idle != maxPooledPerClass {
		t.Errorf("Expected %d idle buffers, got %d", maxPooledPerClass, stats.Idle)
	}

	pool.Clear()
	if stats := pool.Stats(); stats.Idle != 0 {
		t.Errorf("Expected empty pool after Clear, got %d", stats.Idle)
	}
}
