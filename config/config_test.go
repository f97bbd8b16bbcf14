package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paiml/trueno-db/dispatch"
)

func TestDefaultMatchesDispatchConstants(t *testing.T) {
	cfg := Default()
	if cfg.MinGPUBytes != dispatch.MinGPUBytes || cfg.PCIeGBps != dispatch.PCIeGBps ||
		cfg.GPUGFLOPs != dispatch.GPUGFLOPs || cfg.OverheadMultiplier != dispatch.OverheadMultiplier {
		t.Fatalf("Default() constants diverge from dispatch package: %+v", cfg)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load(missing) = %+v, want Default()", cfg)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trueno.yaml")
	body := "min_gpu_bytes: 1000\ntransfer_capacity: 4\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MinGPUBytes != 1000 || cfg.TransferCapacity != 4 {
		t.Fatalf("Load did not overlay YAML fields: %+v", cfg)
	}
	if cfg.PCIeGBps != Default().PCIeGBps {
		t.Fatalf("Load clobbered an unspecified field: %+v", cfg)
	}
}

func TestConfigSelectMatchesDispatchSelect(t *testing.T) {
	cfg := Default()
	got := cfg.Select(1_000_000_000, 1e12)
	want := dispatch.Select(1_000_000_000, 1e12)
	if got != want {
		t.Fatalf("cfg.Select = %v, want %v (dispatch.Select with default constants)", got, want)
	}
}
