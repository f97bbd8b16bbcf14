package gpu

import "fmt"

// fusedFilterSumWGSL synthesizes the WGSL source for `sum of v where v OP
// literal`, fusing the predicate and the reduction into a single pass so
// no intermediate filtered buffer is ever written between filter and
// aggregate (spec §4.5 "Rationale"). Workgroup size 256, binding 0 is the
// read-only input storage buffer, binding 1 is the read-write one-element
// output buffer, matching spec §4.5's per-kernel layout.
func fusedFilterSumWGSL(op Op, literal float64) string {
	cmp := op.String()
	if op == OpEQ {
		cmp = "=="
	}
	return fmt.Sprintf(`
struct Params { count: u32 }

@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> output: atomic<u32>; // bit-cast f32 accumulation via compare-exchange loop

var<workgroup> scratch: array<f32, %[2]d>;

@compute @workgroup_size(%[2]d)
fn main(@builtin(local_invocation_id) lid: vec3<u32>, @builtin(global_invocation_id) gid: vec3<u32>) {
	let i = gid.x;
	var v: f32 = 0.0;
	if (i < arrayLength(&input)) {
		let candidate = input[i];
		if (candidate %[1]s %[3]v) {
			v = candidate;
		}
	}
	scratch[lid.x] = v;
	workgroupBarrier();

	var stride: u32 = %[2]du / 2u;
	loop {
		if (stride == 0u) { break; }
		if (lid.x < stride) {
			scratch[lid.x] = scratch[lid.x] + scratch[lid.x + stride];
		}
		workgroupBarrier();
		stride = stride / 2u;
	}

	if (lid.x == 0u) {
		var old = atomicLoad(&output);
		loop {
			let next = bitcast<u32>(bitcast<f32>(old) + scratch[0]);
			let r = atomicCompareExchangeWeak(&output, old, next);
			if (r.exchanged) { break; }
			old = r.old_value;
		}
	}
}
`, cmp, WorkgroupSize, literal)
}

// reductionWGSL synthesizes the WGSL source for a plain one-pass
// reduction (Sum, Min, Max) over an i32 input buffer, matching spec
// §4.5's per-kernel layout and execution steps exactly: identity-padded
// shared-memory load, barrier, tree reduction, atomic combine.
//
// combineExpr is a two-argument template (e.g. "%s + %s", "min(%s, %s)")
// used for the in-workgroup tree reduction; atomicFn is the WGSL atomic
// builtin used to fold each workgroup's result into the single output
// element (e.g. "atomicAdd", "atomicMin", "atomicMax").
func reductionWGSL(identity, combineExpr, atomicFn string) string {
	combine := fmt.Sprintf(combineExpr, "scratch[lid.x]", "scratch[lid.x + stride]")
	return fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> input: array<i32>;
@group(0) @binding(1) var<storage, read_write> output: atomic<i32>;

var<workgroup> scratch: array<i32, %[1]d>;

@compute @workgroup_size(%[1]d)
fn main(@builtin(local_invocation_id) lid: vec3<u32>, @builtin(global_invocation_id) gid: vec3<u32>) {
	let i = gid.x;
	if (i < arrayLength(&input)) {
		scratch[lid.x] = input[i];
	} else {
		scratch[lid.x] = %[2]s;
	}
	workgroupBarrier();

	var stride: u32 = %[1]du / 2u;
	loop {
		if (stride == 0u) { break; }
		if (lid.x < stride) {
			scratch[lid.x] = %[3]s;
		}
		workgroupBarrier();
		stride = stride / 2u;
	}

	if (lid.x == 0u) {
		%[4]s(&output, scratch[0]);
	}
}
`, WorkgroupSize, identity, combine, atomicFn)
}
