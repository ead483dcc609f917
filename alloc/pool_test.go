package alloc

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, opts ...Option) Pool {
	t.Helper()
	p, err := NewPool(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestPool_ReusesFreedBlocks(t *testing.T) {
	p := newTestPool(t, WithChunkSize(1024))

	b1, err := p.Allocate(40, true)
	require.NoError(t, err)
	b1.Bytes()[0] = 0xFF
	require.NoError(t, p.Free(b1))

	// 37 rounds up to the same 40 byte class: the freed block comes back.
	b2, err := p.Allocate(37, false)
	require.NoError(t, err)
	assert.Equal(t, b1.Ptr(), b2.Ptr())
	assert.Equal(t, 37, b2.Len())
	assert.Equal(t, byte(0xFF), b2.Bytes()[0], "non-zeroed reuse keeps old contents")
	require.NoError(t, p.Free(b2))

	b3, err := p.Allocate(40, true)
	require.NoError(t, err)
	assert.Equal(t, b1.Ptr(), b3.Ptr())
	assert.Equal(t, byte(0), b3.Bytes()[0], "zeroed reuse clears old contents")
	require.NoError(t, p.Free(b3))
}

func TestPool_NoReuseAcrossClasses(t *testing.T) {
	p := newTestPool(t, WithChunkSize(1024))

	b1, err := p.Allocate(40, true)
	require.NoError(t, err)
	require.NoError(t, p.Free(b1))

	// 44 rounds up to 48, so the free 40 byte block must stay put.
	b2, err := p.Allocate(44, true)
	require.NoError(t, err)
	assert.NotEqual(t, b1.Ptr(), b2.Ptr())

	// The 40 byte block is still available to its own class.
	b3, err := p.Allocate(33, true)
	require.NoError(t, err)
	assert.Equal(t, b1.Ptr(), b3.Ptr())

	require.NoError(t, p.Free(b2))
	require.NoError(t, p.Free(b3))
}

func TestPool_DoubleFree(t *testing.T) {
	p := newTestPool(t)

	b, err := p.Allocate(16, true)
	require.NoError(t, err)
	require.NoError(t, p.Free(b))
	assert.ErrorIs(t, p.Free(b), ErrInvalidBlock)
}

func TestPool_ForeignBlock(t *testing.T) {
	p1 := newTestPool(t)
	p2 := newTestPool(t)

	b, err := p1.Allocate(16, true)
	require.NoError(t, err)

	// Both pools hand out the same first handle, but the memory differs.
	other, err := p2.Allocate(16, true)
	require.NoError(t, err)
	require.Equal(t, b.handle, other.handle)

	assert.ErrorIs(t, p2.Free(b), ErrInvalidBlock)
	assert.Equal(t, uint64(1), p2.LiveBlocks())
	require.NoError(t, p2.Free(other))

	heapBlock, err := NewHeap().Allocate(16, true)
	require.NoError(t, err)
	assert.ErrorIs(t, p1.Free(heapBlock), ErrInvalidBlock)
}

func TestPool_LiveBlocksAndReset(t *testing.T) {
	p := newTestPool(t, WithChunkSize(256))

	var blocks []Block
	for i := 0; i < 10; i++ {
		b, err := p.Allocate(100, true)
		require.NoError(t, err)
		blocks = append(blocks, b)
	}
	assert.Equal(t, uint64(10), p.LiveBlocks())
	assert.Greater(t, p.ReservedBytes(), uint64(256))

	require.NoError(t, p.Free(blocks[0]))
	assert.Equal(t, uint64(9), p.LiveBlocks())

	require.NoError(t, p.Reset())
	assert.Zero(t, p.LiveBlocks())
	assert.Equal(t, uint64(256), p.ReservedBytes())

	// Blocks from before the reset are no longer owned.
	assert.ErrorIs(t, p.Free(blocks[1]), ErrInvalidBlock)

	// A stale block must not free a new block that reuses its handle.
	fresh, err := p.Allocate(100, true)
	require.NoError(t, err)
	require.Equal(t, blocks[0].handle, fresh.handle)
	assert.ErrorIs(t, p.Free(blocks[0]), ErrInvalidBlock)
	assert.Equal(t, uint64(1), p.LiveBlocks())
	require.NoError(t, p.Free(fresh))
}

func TestPool_ZeroedAfterReset(t *testing.T) {
	p := newTestPool(t, WithChunkSize(256))

	b, err := p.Allocate(64, true)
	require.NoError(t, err)
	for i := range b.Bytes() {
		b.Bytes()[i] = 0xAA
	}
	require.NoError(t, p.Reset())

	fresh, err := p.Allocate(64, true)
	require.NoError(t, err)
	require.Equal(t, b.Ptr(), fresh.Ptr())
	assert.Equal(t, make([]byte, 64), fresh.Bytes())
	require.NoError(t, p.Free(fresh))
}

func TestPool_LargeBlock(t *testing.T) {
	p := newTestPool(t, WithChunkSize(256))

	b, err := p.Allocate(10_000, true)
	require.NoError(t, err)
	assert.Equal(t, 10_000, b.Len())
	b.Bytes()[9_999] = 1
	require.NoError(t, p.Free(b))
}

func TestPool_Close(t *testing.T) {
	p, err := NewPool()
	require.NoError(t, err)

	b, err := p.Allocate(8, true)
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err = p.Allocate(8, true)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, p.Free(b), ErrClosed)
	assert.ErrorIs(t, p.Reset(), ErrClosed)
}

func TestPool_ZeroValue(t *testing.T) {
	var p Pool
	_, err := p.Allocate(8, true)
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, p.Close())
	assert.Zero(t, p.LiveBlocks())
	assert.Equal(t, "Pool{closed}", p.String())
}

func TestPool_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := newTestPool(t, WithChunkSize(128), WithLogger(logger))
	_, err := p.Allocate(1000, true)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "arena chunk mapped")
	assert.Contains(t, p.String(), "allocs=1")
}

func BenchmarkPoolAllocFree(b *testing.B) {
	p, err := NewPool()
	require.NoError(b, err)
	defer p.Close()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		blk, err := p.Allocate(64, false)
		if err != nil {
			b.Fatal(err)
		}
		if err := p.Free(blk); err != nil {
			b.Fatal(err)
		}
	}
}
