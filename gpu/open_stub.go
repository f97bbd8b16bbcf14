//go:build !trueno_webgpu

package gpu

import "github.com/paiml/trueno-db/errs"

// OpenHardware is stubbed out in the default build, which links no native
// GPU adapter. Build with `-tags trueno_webgpu` to enable WebGPUDevice.
// Always returns a recoverable errs.GpuInitFailed so callers fall back to
// RefDevice, matching spec §4.10.
func OpenHardware() (Device, error) {
	return nil, errs.New(errs.GpuInitFailed, "built without trueno_webgpu; no hardware GPU device available")
}
