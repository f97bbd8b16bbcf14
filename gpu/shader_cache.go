package gpu

import (
	"sync"

	"github.com/zeebo/xxh3"
)

// CompiledShader is a cached, synthesized kernel: the source it was built
// from plus a content digest for diagnostics/logging. Handle carries the
// backend-specific compiled artifact (a func for RefDevice, a GPU pipeline
// handle for WebGPUDevice).
type CompiledShader struct {
	Key    string
	Digest uint64
	Source string
	Handle any
}

// shaderCache is a process-wide map from predicate signature to compiled
// shader, guarded by a single mutex; its only operation is get-or-insert,
// which is idempotent (spec §4.5/§5/§9 "Shader cache").
type shaderCache struct {
	mu sync.Mutex
	m  map[string]*CompiledShader
}

func newShaderCache() *shaderCache {
	return &shaderCache{m: make(map[string]*CompiledShader)}
}

// getOrInsert returns the cached shader for key, compiling (via build) and
// storing it on a miss. Two calls with the same key always return the same
// *CompiledShader (spec §8 "Shader-cache determinism").
func (c *shaderCache) getOrInsert(key, source string, build func() any) *CompiledShader {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.m[key]; ok {
		return s
	}
	s := &CompiledShader{
		Key:    key,
		Digest: xxh3.HashString(key),
		Source: source,
		Handle: build(),
	}
	c.m[key] = s
	return s
}

// size reports the number of distinct compiled shaders, exposed by
// metrics so an operator can notice runaway cardinality growth (the cache
// is intentionally unbounded; see SPEC_FULL.md open question #3).
func (c *shaderCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
