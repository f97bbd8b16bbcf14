//go:build trueno_webgpu

// This file is gated behind the trueno_webgpu build tag because it links
// against a real GPU adapter via cogentcore.org/core/gpu, mirroring the
// teacher's own convention of isolating native-backend code behind build
// tags (cgo_dev.go, cgo_linux_amd64.go, ...). The default build uses
// RefDevice; opt into real hardware with `-tags trueno_webgpu`.
package gpu

import (
	"fmt"
	"unsafe"

	cgpu "cogentcore.org/core/gpu"

	"github.com/paiml/trueno-db/errs"
)

// WebGPUDevice adapts a real compute-shader device (Vulkan/Metal/DX12/
// WebGPU, via cogentcore.org/core/gpu) to the Device interface. Output
// semantics for I32 kernels match RefDevice and package simd exactly, per
// spec §4.5's equivalence contract; F32 sum surfaces errs.NotImplemented
// because WGSL has no portable atomic float add (SPEC_FULL.md open
// question #4).
type WebGPUDevice struct {
	gp    *cgpu.GPU
	sys   *cgpu.ComputeSystem
	cache *shaderCache
}

// OpenHardware creates a real GPU compute device. On failure, callers
// should fall back to RefDevice and treat the error as errs.GpuInitFailed
// (recoverable per spec §4.10) rather than fatal.
func OpenHardware() (dev Device, err error) {
	defer func() {
		// GPU adapter creation can panic on unsupported platforms; turn
		// that into a typed, recoverable error instead of crashing.
		if r := recover(); r != nil {
			dev = nil
			err = errs.Newf(errs.GpuInitFailed, "GPU adapter creation panicked: %v", r)
		}
	}()
	gp := cgpu.NewComputeGPU()
	if gp == nil {
		return nil, errs.New(errs.GpuInitFailed, "no compute-capable GPU adapter found")
	}
	sys := cgpu.NewComputeSystem(gp, "trueno-db")
	return &WebGPUDevice{gp: gp, sys: sys, cache: newShaderCache()}, nil
}

func (d *WebGPUDevice) Name() string {
	if d.gp == nil {
		return "webgpu"
	}
	return "webgpu:" + d.gp.DeviceName
}

func (d *WebGPUDevice) Release() {
	if d.sys != nil {
		d.sys.Release()
	}
	if d.gp != nil {
		d.gp.Release()
	}
}

func (d *WebGPUDevice) dispatchI32Reduce(data []int32, identity int32, combineExpr, atomicFn string) (int32, error) {
	key := fmt.Sprintf("reduce_%s_i32", atomicFn)
	source := reductionWGSL(fmt.Sprintf("%d", identity), combineExpr, atomicFn)
	shader := d.cache.getOrInsert(key, source, func() any {
		pl := cgpu.NewComputePipelineShader(source, d.sys)
		return pl
	})
	pl := shader.Handle.(*cgpu.ComputePipeline)

	vars := d.sys.Vars()
	sgp := vars.AddGroup(cgpu.Storage)
	inVal := sgp.AddStruct("input", int(unsafe.Sizeof(int32(0))), len(data), cgpu.ComputeShader)
	outVal := sgp.AddStruct("output", int(unsafe.Sizeof(int32(0))), 1, cgpu.ComputeShader)
	sgp.SetNValues(1)
	d.sys.Config()

	cgpu.SetValueFrom(inVal.Values.Values[0], data)
	cgpu.SetValueFrom(outVal.Values.Values[0], []int32{identity})

	n := len(data)
	nx, ny := cgpu.NumWorkgroups1D(n, WorkgroupSize)
	ce, err := d.sys.BeginComputePass()
	if err != nil {
		return 0, errs.Wrap(errs.GpuInitFailed, err, "begin compute pass")
	}
	pl.Dispatch(ce, nx, ny, 1)
	ce.End()

	outVal.Values.Values[0].GPUToRead(d.sys.CommandEncoder)
	d.sys.EndComputePass()
	outVal.Values.Values[0].ReadSync()

	result := make([]int32, 1)
	cgpu.ReadToBytes(outVal.Values.Values[0], result)
	return result[0], nil
}

func (d *WebGPUDevice) SumI32(data []int32) (int64, error) {
	v, err := d.dispatchI32Reduce(data, 0, "%s + %s", "atomicAdd")
	return int64(v), err
}

func (d *WebGPUDevice) MinI32(data []int32) (int32, error) {
	return d.dispatchI32Reduce(data, 1<<31-1, "min(%s, %s)", "atomicMin")
}

func (d *WebGPUDevice) MaxI32(data []int32) (int32, error) {
	return d.dispatchI32Reduce(data, -(1 << 31), "max(%s, %s)", "atomicMax")
}

func (d *WebGPUDevice) CountI32(data []int32) (int64, error) {
	return int64(len(data)), nil
}

// SumF32 declines: WGSL has no portable atomic<f32> add across the
// Vulkan/Metal/DX12/WebGPU class of backends this device targets.
func (d *WebGPUDevice) SumF32(data []float32) (float32, error) {
	return 0, errs.New(errs.NotImplemented, "GPU F32 sum has no portable atomic implementation").WithBackend("webgpu")
}

// FusedFilterSum synthesizes and caches the predicate+sum fusion kernel
// described in spec §4.5 but does not dispatch it: it always returns
// errs.NotImplemented. FusedFilterSum is exercised end to end via
// RefDevice in the default (non-trueno_webgpu) build.
func (d *WebGPUDevice) FusedFilterSum(op Op, literal float64, values []float32) (float64, error) {
	key := cacheKey(op, literal)
	source := fusedFilterSumWGSL(op, literal)
	d.cache.getOrInsert(key, source, func() any {
		return cgpu.NewComputePipelineShader(source, d.sys)
	})
	return 0, errs.New(errs.NotImplemented, "WebGPUDevice does not dispatch the fused filter+sum kernel; use RefDevice").WithBackend("webgpu")
}
