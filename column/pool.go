package column

import "sync"

// BoolMask is a pooled boolean slice for WHERE-clause row masks. Call
// Release when done to return it to the pool.
type BoolMask struct {
	Data []bool
	pool *sync.Pool
}

// Release returns the mask to its bucket pool, zeroing it first so the
// next acquirer never observes a stale row decision.
func (m *BoolMask) Release() {
	if m.pool == nil || m.Data == nil {
		return
	}
	for i := range m.Data {
		m.Data[i] = false
	}
	m.pool.Put(m)
}

var (
	boolPools    [32]*sync.Pool // bucket i holds masks of capacity 2^i
	boolPoolInit sync.Once
)

func initBoolPools() {
	boolPoolInit.Do(func() {
		for i := range boolPools {
			size := 1 << i
			boolPools[i] = &sync.Pool{
				New: func() any {
					return &BoolMask{Data: make([]bool, size)}
				},
			}
		}
	})
}

func bucketFor(size int) int {
	if size <= 0 {
		return 0
	}
	bucket := 0
	for n := size - 1; n > 0; n >>= 1 {
		bucket++
	}
	if bucket >= len(boolPools) {
		bucket = len(boolPools) - 1
	}
	return bucket
}

// AcquireBoolMask returns a *BoolMask whose Data has exactly n elements,
// backed by a pool bucketed by the next power of two >= n. Every element
// starts false. The caller must call Release when done with it.
func AcquireBoolMask(n int) *BoolMask {
	initBoolPools()
	bucket := bucketFor(n)
	pool := boolPools[bucket]
	m := pool.Get().(*BoolMask)
	m.pool = pool

	capacity := 1 << bucket
	if n > capacity {
		m.Data = make([]bool, n)
		return m
	}
	if cap(m.Data) < n {
		m.Data = make([]bool, n)
		return m
	}
	m.Data = m.Data[:n]
	for i := range m.Data {
		m.Data[i] = false
	}
	return m
}
