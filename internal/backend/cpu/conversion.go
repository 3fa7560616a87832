package cpu

import (
	"fmt"

	"github.com/born-ml/tensorops/internal/parallel"
	"github.com/born-ml/tensorops/internal/tensor"
	"github.com/x448/float16"
)

// Cast converts x to dtype. Each element rounds once to the target, except
// float64 to float16 which rounds through float32. A same-dtype cast returns
// a copy.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) (*tensor.RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("cpu cast: %w", tensor.ErrNilBuffer)
	}
	if x.DType() == dtype {
		return x.Clone(), nil
	}

	result, err := tensor.NewRaw(x.Len(), dtype, cpu.device)
	if err != nil {
		return nil, fmt.Errorf("cpu cast: %w", err)
	}

	switch x.DType() {
	case tensor.Float32:
		castFromFloat32(cpu.cfg, result, x.AsFloat32())
	case tensor.Float64:
		castFromFloat64(cpu.cfg, result, x.AsFloat64())
	case tensor.Float16:
		castFromFloat16(cpu.cfg, result, x.AsFloat16())
	default:
		return nil, fmt.Errorf("cpu cast: unsupported source dtype %s", x.DType())
	}
	return result, nil
}

func convert[S, D any](cfg parallel.Config, dst []D, src []S, f func(S) D) {
	parallel.ForRange(len(src), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = f(src[i])
		}
	}, cfg)
}

func castFromFloat32(cfg parallel.Config, result *tensor.RawTensor, src []float32) {
	switch result.DType() {
	case tensor.Float64:
		convert(cfg, result.AsFloat64(), src, func(v float32) float64 { return float64(v) })
	case tensor.Float16:
		convert(cfg, result.AsFloat16(), src, float16.Fromfloat32)
	}
}

func castFromFloat64(cfg parallel.Config, result *tensor.RawTensor, src []float64) {
	switch result.DType() {
	case tensor.Float32:
		convert(cfg, result.AsFloat32(), src, func(v float64) float32 { return float32(v) })
	case tensor.Float16:
		// Rounds twice, through float32, like tensor.RawTensor.Set.
		convert(cfg, result.AsFloat16(), src, func(v float64) float16.Float16 {
			return float16.Fromfloat32(float32(v))
		})
	}
}

func castFromFloat16(cfg parallel.Config, result *tensor.RawTensor, src []float16.Float16) {
	switch result.DType() {
	case tensor.Float32:
		convert(cfg, result.AsFloat32(), src, float16.Float16.Float32)
	case tensor.Float64:
		convert(cfg, result.AsFloat64(), src, func(v float16.Float16) float64 { return float64(v.Float32()) })
	}
}
