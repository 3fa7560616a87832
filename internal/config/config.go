// Package config reads tensorops settings from TENSOROPS_* environment
// variables. Getters read the environment on every call, so tests can use
// t.Setenv.
package config

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/tensorops/internal/parallel"
	"github.com/born-ml/tensorops/internal/tensor"
)

var (
	// Debug enables Debug logging. Configurable via TENSOROPS_DEBUG.
	Debug = Bool("TENSOROPS_DEBUG")
	// Workers is the CPU executor worker count; 0 keeps one per CPU.
	// Configurable via TENSOROPS_WORKERS.
	Workers = Uint("TENSOROPS_WORKERS", 0)
	// MinChunk is the minimum number of elements per goroutine.
	// Configurable via TENSOROPS_MIN_CHUNK.
	MinChunk = Uint("TENSOROPS_MIN_CHUNK", uint(parallel.DefaultConfig().MinChunkSize))
)

// LogLevel returns the log level. TENSOROPS_DEBUG=1 (or true) selects
// Debug; a larger integer lowers the level further in steps of 4.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("TENSOROPS_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Device returns the device the CLI runs on. Configurable via
// TENSOROPS_DEVICE (cpu or webgpu). Default: cpu.
func Device() tensor.Device {
	switch s := strings.ToLower(Var("TENSOROPS_DEVICE")); s {
	case "", "cpu":
		return tensor.CPU
	case "webgpu", "gpu":
		return tensor.WebGPU
	default:
		slog.Warn("invalid device, using cpu", "device", s)
		return tensor.CPU
	}
}

// Parallel returns the CPU executor config built from TENSOROPS_WORKERS and
// TENSOROPS_MIN_CHUNK.
func Parallel() parallel.Config {
	cfg := parallel.DefaultConfig()
	if w := int(Workers()); w > 0 {
		cfg.NumWorkers = w
		cfg.Enabled = w > 1
	}
	if n := int(MinChunk()); n > 0 {
		cfg.MinChunkSize = n
	}
	return cfg
}

// NewLogger returns a text logger writing to w at LogLevel.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: LogLevel()}))
}

// Logger returns a text logger on stderr at LogLevel.
func Logger() *slog.Logger {
	return NewLogger(os.Stderr)
}

// Var returns an environment variable with surrounding quotes and spaces
// removed.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// Bool returns a getter that parses key as a bool. Unparsable values count
// as true.
func Bool(key string) func() bool {
	return func() bool {
		if s := Var(key); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return false
	}
}

// Uint returns a getter that parses key as a uint with a default.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// EnvVar describes one environment variable and its current value.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every setting keyed by variable name.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"TENSOROPS_DEBUG":     {"TENSOROPS_DEBUG", LogLevel(), "Show additional debug information (e.g. TENSOROPS_DEBUG=1)"},
		"TENSOROPS_WORKERS":   {"TENSOROPS_WORKERS", Workers(), "CPU worker goroutines (0 = one per CPU)"},
		"TENSOROPS_MIN_CHUNK": {"TENSOROPS_MIN_CHUNK", MinChunk(), "Minimum elements per worker goroutine"},
		"TENSOROPS_DEVICE":    {"TENSOROPS_DEVICE", Device(), "Device for CLI evaluation (cpu or webgpu)"},
	}
}

// Values returns every setting's current value as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmtValue(v.Value)
	}
	return vals
}

func fmtValue(v any) string {
	switch v := v.(type) {
	case slog.Level:
		return v.String()
	case tensor.Device:
		return strings.ToLower(v.String())
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	default:
		return ""
	}
}
