package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/memkit/alloc"
	"github.com/hupe1980/memkit/raw"
	"github.com/hupe1980/memkit/resource"
)

func newVector[T any](t *testing.T, a alloc.Allocator, opts ...Option) *Vector[T, alloc.Allocator] {
	t.Helper()
	v, err := NewVector[T](a, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if !v.Released() {
			_ = v.Release()
		}
	})
	return v
}

func release[T any](t *testing.T, v *Vector[T, alloc.Allocator]) {
	t.Helper()
	require.NoError(t, v.Release())
}

func TestVector_GrowthByIncrement(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, a alloc.Allocator) {
		v := newVector[int](t, a, WithCapacity(4), WithGrowthIncrement(4))
		defer release(t, v)
		require.Equal(t, 4, v.Cap())

		for i := 1; i <= 4; i++ {
			require.NoError(t, v.PushBack(i))
		}
		first := v.Begin()
		assert.Equal(t, 4, v.Cap())

		require.NoError(t, v.PushBack(5))
		assert.Equal(t, 5, v.Len())
		assert.Equal(t, 8, v.Cap())
		assert.False(t, first.Equal(v.Begin()), "growth must move the storage")
		assert.Equal(t, []int{1, 2, 3, 4, 5}, collect(&v.buffer))

		// Slots past the live elements are zeroed after growth.
		for i := v.Len(); i < v.Cap(); i++ {
			assert.Zero(t, *v.UncheckedAt(i))
		}
	})
}

func TestVector_GrowthPolicies(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		v := newVector[int](t, alloc.NewHeap())
		assert.Zero(t, v.Cap())
		require.NoError(t, v.PushBack(1))
		assert.Equal(t, DefaultGrowthIncrement, v.Cap())
	})

	t.Run("doubling", func(t *testing.T) {
		v := newVector[int](t, alloc.NewHeap(), WithDoublingGrowth())
		var caps []int
		for i := 0; i < 40; i++ {
			require.NoError(t, v.PushBack(i))
			if len(caps) == 0 || caps[len(caps)-1] != v.Cap() {
				caps = append(caps, v.Cap())
			}
		}
		assert.Equal(t, []int{16, 32, 64}, caps)
	})

	t.Run("custom", func(t *testing.T) {
		v := newVector[int](t, alloc.NewHeap(), WithGrowthPolicy(func(int) int { return 0 }))
		require.NoError(t, v.PushBack(1))
		require.NoError(t, v.PushBack(2))
		assert.Equal(t, 2, v.Cap(), "non-growing policies are bumped by one")
	})
}

func TestVector_PushPop(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, a alloc.Allocator) {
		v := newVector[int64](t, a, WithGrowthIncrement(3))
		defer release(t, v)

		pushes, pops := 0, 0
		for round := 0; round < 5; round++ {
			for i := 0; i < 7; i++ {
				require.NoError(t, v.PushBack(int64(round*10+i)))
				pushes++
			}
			for i := 0; i < 4; i++ {
				_, err := v.PopBack()
				require.NoError(t, err)
				pops++
			}
			assert.Equal(t, pushes-pops, v.Len())
			assert.GreaterOrEqual(t, v.Cap(), v.Len())
		}

		size := v.Len()
		require.NoError(t, v.PushBack(42))
		got, err := v.PopBack()
		require.NoError(t, err)
		assert.Equal(t, int64(42), got)
		assert.Equal(t, size, v.Len())
		assert.Zero(t, *v.UncheckedAt(size), "vacated slot is zeroed")

		v.Clear()
		_, err = v.PopBack()
		assert.ErrorIs(t, err, ErrEmpty)
		_, err = v.Front()
		assert.ErrorIs(t, err, ErrEmpty)
		_, err = v.Back()
		assert.ErrorIs(t, err, ErrEmpty)
	})
}

func TestVector_GrowthPreservesOrder(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, a alloc.Allocator) {
		v := newVector[uint32](t, a, WithGrowthIncrement(1))
		defer release(t, v)

		want := make([]uint32, 0, 100)
		for i := uint32(0); i < 100; i++ {
			require.NoError(t, v.PushBack(i*3))
			want = append(want, i*3)
		}
		assert.Equal(t, want, collect(&v.buffer))
		assert.Equal(t, want, v.ToSlice())

		front, err := v.Front()
		require.NoError(t, err)
		back, err := v.Back()
		require.NoError(t, err)
		assert.Equal(t, uint32(0), front)
		assert.Equal(t, uint32(297), back)
	})
}

func TestVector_InsertRemoveInverse(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, a alloc.Allocator) {
		base := []int{1, 2, 3, 4, 5}
		for i := 0; i <= len(base); i++ {
			v, err := NewVectorFrom(a, base, WithCapacity(5))
			require.NoError(t, err)

			require.NoError(t, v.Insert(i, 99))
			got, err := v.At(i)
			require.NoError(t, err)
			assert.Equal(t, 99, got)
			assert.Equal(t, len(base)+1, v.Len())

			require.True(t, v.RemoveAt(i))
			assert.Equal(t, base, v.ToSlice(), "index %d", i)
			require.NoError(t, v.Release())
		}
	})
}

func TestVector_InsertOutOfRangeAppends(t *testing.T) {
	v, err := NewVectorFrom(alloc.NewHeap(), []int{1, 2})
	require.NoError(t, err)
	defer func() { require.NoError(t, v.Release()) }()

	require.NoError(t, v.Insert(-1, 3))
	require.NoError(t, v.Insert(100, 4))
	require.NoError(t, v.Insert(0, 0))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, v.ToSlice())

	assert.False(t, v.RemoveAt(-1))
	assert.False(t, v.RemoveAt(5))
	assert.Equal(t, 5, v.Len())
}

func TestVector_Erase(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, a alloc.Allocator) {
		t.Run("middle", func(t *testing.T) {
			v, err := NewVectorFrom(a, []int{0, 1, 2, 3, 4, 5})
			require.NoError(t, err)
			defer func() { require.NoError(t, v.Release()) }()

			require.NoError(t, v.Erase(v.Begin().Advance(1), v.Begin().Advance(3)))
			assert.Equal(t, []int{0, 3, 4, 5}, v.ToSlice())
			assert.Zero(t, *v.UncheckedAt(4))
			assert.Zero(t, *v.UncheckedAt(5))
		})

		t.Run("reversed bounds", func(t *testing.T) {
			v, err := NewVectorFrom(a, []int{0, 1, 2, 3})
			require.NoError(t, err)
			defer func() { require.NoError(t, v.Release()) }()

			require.NoError(t, v.Erase(v.End(), v.Begin().Advance(2)))
			assert.Equal(t, []int{0, 1}, v.ToSlice())
		})

		t.Run("full range equals clear", func(t *testing.T) {
			v, err := NewVectorFrom(a, []int{7, 8, 9})
			require.NoError(t, err)
			defer func() { require.NoError(t, v.Release()) }()
			capacity := v.Cap()

			require.NoError(t, v.Erase(v.Begin(), v.End()))
			assert.Zero(t, v.Len())
			assert.Equal(t, capacity, v.Cap())
			assert.True(t, v.Begin().Equal(v.End()))
		})

		t.Run("empty range", func(t *testing.T) {
			v, err := NewVectorFrom(a, []int{1, 2})
			require.NoError(t, err)
			defer func() { require.NoError(t, v.Release()) }()

			require.NoError(t, v.Erase(v.Begin().Next(), v.Begin().Next()))
			assert.Equal(t, []int{1, 2}, v.ToSlice())
		})

		t.Run("foreign iterator", func(t *testing.T) {
			v, err := NewVectorFrom(a, []int{1, 2, 3})
			require.NoError(t, err)
			defer func() { require.NoError(t, v.Release()) }()
			other, err := NewVectorFrom(a, []int{4, 5, 6})
			require.NoError(t, err)
			defer func() { require.NoError(t, other.Release()) }()

			err = v.Erase(v.Begin(), other.Begin().Next())
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.Equal(t, []int{1, 2, 3}, v.ToSlice())
		})

		t.Run("at", func(t *testing.T) {
			v, err := NewVectorFrom(a, []int{1, 2, 3})
			require.NoError(t, err)
			defer func() { require.NoError(t, v.Release()) }()

			require.NoError(t, v.EraseAt(v.Begin().Next()))
			assert.Equal(t, []int{1, 3}, v.ToSlice())

			assert.ErrorIs(t, v.EraseAt(v.End()), ErrOutOfRange)
			assert.Equal(t, []int{1, 3}, v.ToSlice())
		})
	})
}

func TestVector_ReserveShrinkClone(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, a alloc.Allocator) {
		v, err := NewVectorFrom(a, []int{1, 2, 3})
		require.NoError(t, err)
		defer func() { require.NoError(t, v.Release()) }()
		assert.Equal(t, 3, v.Cap())

		require.NoError(t, v.Reserve(50))
		assert.Equal(t, 50, v.Cap())
		require.NoError(t, v.Reserve(10))
		assert.Equal(t, 50, v.Cap(), "reserve never shrinks")
		assert.ErrorIs(t, v.Reserve(-1), ErrInvalidSize)

		require.NoError(t, v.ShrinkToFit())
		assert.Equal(t, 3, v.Cap())
		assert.Equal(t, []int{1, 2, 3}, v.ToSlice())

		c, err := v.Clone()
		require.NoError(t, err)
		defer func() { require.NoError(t, c.Release()) }()

		require.NoError(t, c.Set(0, 100))
		got, err := v.At(0)
		require.NoError(t, err)
		assert.Equal(t, 1, got)
		assert.Equal(t, v.Cap(), c.Cap())

		v.Clear()
		require.NoError(t, v.ShrinkToFit())
		assert.Zero(t, v.Cap())
		assert.True(t, v.AsDescriptor().IsNil())
	})
}

func TestVector_Released(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, a alloc.Allocator) {
		v, err := NewVectorFrom(a, []int{1, 2, 3})
		require.NoError(t, err)
		require.NoError(t, v.Release())

		assert.ErrorIs(t, v.PushBack(1), ErrReleased)
		assert.ErrorIs(t, v.Insert(0, 1), ErrReleased)
		assert.ErrorIs(t, v.Reserve(4), ErrReleased)
		assert.ErrorIs(t, v.Erase(v.Begin(), v.End()), ErrReleased)
		_, err = v.PopBack()
		assert.ErrorIs(t, err, ErrReleased)
		_, err = v.Clone()
		assert.ErrorIs(t, err, ErrReleased)
		assert.ErrorIs(t, v.Release(), ErrReleased)
		assert.Zero(t, v.Len())

		assert.False(t, v.RemoveAt(0))
		assert.NotPanics(t, v.Clear)
		assert.Zero(t, v.Len())
	})
}

func TestVector_GrowthReportsStaleBlock(t *testing.T) {
	p, err := alloc.NewPool(alloc.WithChunkSize(1024))
	require.NoError(t, err)
	defer func() { require.NoError(t, p.Close()) }()

	v, err := NewVector[int64](p, WithCapacity(2), WithGrowthIncrement(2))
	require.NoError(t, err)
	require.NoError(t, v.PushBack(1))
	require.NoError(t, v.PushBack(2))

	// Resetting the pool under the vector makes its block stale.
	require.NoError(t, p.Reset())

	err = v.PushBack(3)
	require.ErrorIs(t, err, alloc.ErrInvalidBlock)
	assert.Equal(t, 4, v.Cap(), "the vector moved to the new block")
	assert.Equal(t, 2, v.Len(), "the element was not written")
	assert.Equal(t, uint64(1), p.LiveBlocks())

	require.NoError(t, v.Release())
	assert.Zero(t, p.LiveBlocks())
}

func TestVector_OutOfMemoryLeavesVectorIntact(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 48})
	heap := alloc.NewHeap(alloc.WithController(rc))

	v, err := NewVector[int64](heap, WithCapacity(4), WithGrowthIncrement(4))
	require.NoError(t, err)
	defer func() { require.NoError(t, v.Release()) }()

	for i := int64(1); i <= 4; i++ {
		require.NoError(t, v.PushBack(i))
	}
	begin := v.Begin()

	err = v.PushBack(5)
	require.ErrorIs(t, err, alloc.ErrOutOfMemory)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)

	assert.Equal(t, 4, v.Len())
	assert.Equal(t, 4, v.Cap())
	assert.True(t, begin.Equal(v.Begin()))
	assert.Equal(t, []int64{1, 2, 3, 4}, v.ToSlice())

	assert.ErrorIs(t, v.Insert(0, 0), alloc.ErrOutOfMemory)
	assert.Equal(t, []int64{1, 2, 3, 4}, v.ToSlice())
	assert.Equal(t, int64(32), rc.MemoryUsage())
}

func TestVector_Adopt(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, a alloc.Allocator) {
		b, err := alloc.AllocateN[int32](a, 8, true)
		require.NoError(t, err)
		d := raw.FromPointer[int32](b.Ptr(), 8)
		d.Slice()[0], d.Slice()[1] = 10, 20

		_, err = AdoptVector[int32](a, b, 9)
		require.ErrorIs(t, err, ErrOutOfRange)

		v, err := AdoptVector[int32](a, b, 2)
		require.NoError(t, err)
		assert.Equal(t, 8, v.Cap())
		assert.Equal(t, []int32{10, 20}, v.ToSlice())

		require.NoError(t, v.PushBack(30))
		assert.Equal(t, []int32{10, 20, 30}, v.ToSlice())
		require.NoError(t, v.Release())
	})
}

type point struct {
	X, Y int32
	Tag  [4]byte
}

func TestVector_StructElements(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, a alloc.Allocator) {
		v := newVector[point](t, a, WithCapacity(1))
		defer release(t, v)

		for i := int32(0); i < 20; i++ {
			require.NoError(t, v.PushBack(point{X: i, Y: -i, Tag: [4]byte{'p'}}))
		}
		last, err := v.Back()
		require.NoError(t, err)
		assert.Equal(t, point{X: 19, Y: -19, Tag: [4]byte{'p'}}, last)

		var xs []int32
		for it := v.CRBegin(); !it.Equal(v.CREnd()); it = it.Next() {
			xs = append(xs, it.Get().X)
		}
		assert.Len(t, xs, 20)
		assert.Equal(t, int32(19), xs[0])
		assert.Equal(t, int32(0), xs[19])
	})
}

func TestVector_InvalidArguments(t *testing.T) {
	_, err := NewVector[int](alloc.Heap{}, WithCapacity(-1))
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = NewVector[map[int]int](alloc.Heap{})
	assert.ErrorIs(t, err, raw.ErrNotFixedLayout)
}

func BenchmarkVector_PushBack(b *testing.B) {
	for _, tc := range []struct {
		name string
		opt  Option
	}{
		{"linear", WithGrowthIncrement(DefaultGrowthIncrement)},
		{"doubling", WithDoublingGrowth()},
	} {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				v, err := NewVector[int](alloc.Heap{}, tc.opt)
				if err != nil {
					b.Fatal(err)
				}
				for j := 0; j < 1000; j++ {
					_ = v.PushBack(j)
				}
				_ = v.Release()
			}
		})
	}
}
