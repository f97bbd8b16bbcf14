// Package config holds the engine's tunable constants and optional YAML
// loading, grounded on inference-sim's approach to externalizing simulator
// tunables instead of hardcoding them.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/paiml/trueno-db/dispatch"
)

// Config holds the cost-model constants plus storage sizing knobs. The
// zero value is invalid; use Default() or Load().
type Config struct {
	MinGPUBytes        int64   `yaml:"min_gpu_bytes"`
	PCIeGBps           float64 `yaml:"pcie_gbps"`
	GPUGFLOPs          float64 `yaml:"gpu_gflops"`
	OverheadMultiplier float64 `yaml:"overhead_multiplier"`
	MorselBytes        int     `yaml:"morsel_bytes"`
	TransferCapacity   int     `yaml:"transfer_capacity"`
}

// Default returns the spec's bit-exact constants (spec §6).
func Default() Config {
	return Config{
		MinGPUBytes:        dispatch.MinGPUBytes,
		PCIeGBps:           dispatch.PCIeGBps,
		GPUGFLOPs:          dispatch.GPUGFLOPs,
		OverheadMultiplier: dispatch.OverheadMultiplier,
		MorselBytes:        128 * 1024 * 1024,
		TransferCapacity:   2,
	}
}

// Load reads a YAML config file, starting from Default() and overlaying
// any fields present in the file. A missing file is not an error; Default
// is returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Select applies the dispatcher's 5x rule using this config's constants
// rather than the package-level fixed defaults (dispatch.Select).
func (c Config) Select(bytes int64, flops float64) dispatch.Backend {
	if bytes < c.MinGPUBytes {
		return dispatch.Simd
	}
	transferMs := float64(bytes) / (c.PCIeGBps * 1e9) * 1000
	computeMs := flops / (c.GPUGFLOPs * 1e9) * 1000
	if computeMs > c.OverheadMultiplier*transferMs {
		return dispatch.Gpu
	}
	return dispatch.Simd
}
