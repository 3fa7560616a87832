//go:build windows

package webgpu

import (
	"math/bits"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// maxPooledPerClass caps the idle buffers kept per (size class, usage).
const maxPooledPerClass = 8

type poolKey struct {
	size  uint64
	usage wgpu.BufferUsage
}

// BufferPool recycles device buffers between Apply calls. Requests are
// rounded up to a power-of-two size class so buffers of nearby sizes are
// shared.
type BufferPool struct {
	device *wgpu.Device
	idle   map[poolKey][]*wgpu.Buffer
	mu     sync.Mutex

	// Statistics
	allocated uint64
	hits      uint64
	misses    uint64
}

// NewBufferPool creates a new buffer pool for the given device.
func NewBufferPool(device *wgpu.Device) *BufferPool {
	return &BufferPool{
		device: device,
		idle:   make(map[poolKey][]*wgpu.Buffer),
	}
}

// sizeClass rounds size up to a power of two, minimum 256 bytes.
func sizeClass(size uint64) uint64 {
	if size <= 256 {
		return 256
	}
	return 1 << bits.Len64(size-1)
}

// Acquire returns a buffer of at least size bytes with the given usage.
func (p *BufferPool) Acquire(size uint64, usage wgpu.BufferUsage) *wgpu.Buffer {
	key := poolKey{size: sizeClass(size), usage: usage}

	p.mu.Lock()
	defer p.mu.Unlock()

	if free := p.idle[key]; len(free) > 0 {
		buffer := free[len(free)-1]
		p.idle[key] = free[:len(free)-1]
		p.hits++
		return buffer
	}

	p.misses++
	p.allocated++
	return p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: usage,
		Size:  key.size,
	})
}

// Release returns a buffer obtained from Acquire with the same size and
// usage. Buffers beyond the per-class cap are released immediately.
func (p *BufferPool) Release(buffer *wgpu.Buffer, size uint64, usage wgpu.BufferUsage) {
	key := poolKey{size: sizeClass(size), usage: usage}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.idle[key]) >= maxPooledPerClass {
		buffer.Release()
		return
	}
	p.idle[key] = append(p.idle[key], buffer)
}

// Clear releases all pooled buffers.
func (p *BufferPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, free := range p.idle {
		for _, b := range free {
			b.Release()
		}
		delete(p.idle, key)
	}
}

// PoolStats summarizes buffer reuse.
type PoolStats struct {
	Allocated uint64
	Hits      uint64
	Misses    uint64
	Idle      int
}

// Stats returns statistics about buffer pool usage.
func (p *BufferPool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	idle := 0
	for _, free := range p.idle {
		idle += len(free)
	}
	return PoolStats{Allocated: p.allocated, Hits: p.hits, Misses: p.misses, Idle: idle}
}
