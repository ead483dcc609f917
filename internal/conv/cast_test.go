package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint64(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := IntToUint64(0)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := IntToUint64(-1)
		assert.ErrorIs(t, err, ErrOverflow)
	})
}

func TestAddInt(t *testing.T) {
	sum, err := AddInt(10, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, sum)

	_, err = AddInt(math.MaxInt, 1)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = AddInt(math.MinInt, -1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestByteSize(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		size    uintptr
		want    int
		wantErr bool
	}{
		{name: "zero count", count: 0, size: 8, want: 0},
		{name: "zero size", count: 10, size: 0, want: 0},
		{name: "simple", count: 4, size: 8, want: 32},
		{name: "negative", count: -1, size: 8, wantErr: true},
		{name: "overflow", count: math.MaxInt/2 + 1, size: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ByteSize(tt.count, tt.size)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOverflow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAlignUp(t *testing.T) {
	got, err := AlignUp(13, 8)
	require.NoError(t, err)
	assert.Equal(t, 16, got)

	got, err = AlignUp(16, 8)
	require.NoError(t, err)
	assert.Equal(t, 16, got)

	_, err = AlignUp(math.MaxInt, 8)
	assert.ErrorIs(t, err, ErrOverflow)
}
