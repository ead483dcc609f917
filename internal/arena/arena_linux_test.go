//go:build linux

package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_ResetReleasesFirstChunkPages(t *testing.T) {
	a, err := New(4096)
	require.NoError(t, err)
	defer a.Free()

	off, data, err := a.Alloc(64)
	require.NoError(t, err)
	for i := range data {
		data[i] = 0xAA
	}

	require.NoError(t, a.Reset())

	// MADV_DONTNEED drops the private pages, so the rewound chunk reads as zero.
	again, data, err := a.Alloc(64)
	require.NoError(t, err)
	require.Equal(t, off, again)
	assert.Equal(t, make([]byte, 64), data)
}
