package container

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/memkit/alloc"
	"github.com/hupe1980/memkit/raw"
)

type statser interface {
	Stats() alloc.Stats
}

// forEachStrategy runs fn once per allocation strategy, each with fresh
// state, and checks afterwards that fn released everything it allocated.
func forEachStrategy(t *testing.T, fn func(t *testing.T, a alloc.Allocator)) {
	t.Helper()

	strategies := []struct {
		name string
		make func(t *testing.T) alloc.Allocator
	}{
		{"heap", func(*testing.T) alloc.Allocator { return alloc.NewHeap() }},
		{"taskheap", func(*testing.T) alloc.Allocator { return alloc.NewTaskHeap() }},
		{"pool", func(t *testing.T) alloc.Allocator {
			p, err := alloc.NewPool(alloc.WithChunkSize(4096))
			require.NoError(t, err)
			t.Cleanup(func() { _ = p.Close() })
			return p
		}},
	}

	for _, s := range strategies {
		t.Run(s.name, func(t *testing.T) {
			a := s.make(t)
			fn(t, a)
			if st, ok := a.(statser); ok {
				require.Zero(t, st.Stats().LiveBytes, "leaked memory: %s", st.Stats())
			}
		})
	}
}

func collect[T any, A alloc.Allocator](b *buffer[T, A]) []T {
	var out []T
	for it := b.Begin(); !it.Equal(b.End()); it = it.Next() {
		out = append(out, it.Get())
	}
	return out
}

func unsafePointer[T any](d raw.Descriptor[T]) unsafe.Pointer {
	return unsafe.Pointer(d.Ptr())
}
