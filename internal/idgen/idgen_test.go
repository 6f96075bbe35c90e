package idgen

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpaqueID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := NewOpaqueID()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(id), 2*randFragmentLen)
		_, dup := seen[id]
		assert.False(t, dup, "duplicate opaque id %s", id)
		seen[id] = struct{}{}
	}
}

func TestNewInviteCodeLengthAndRange(t *testing.T) {
	for _, length := range []int{1, 5, 9} {
		t.Run(strconv.Itoa(length), func(t *testing.T) {
			for i := 0; i < 50; i++ {
				code, err := NewInviteCode(length)
				require.NoError(t, err)
				require.Len(t, code, length)

				n, err := strconv.ParseInt(code, 10, 64)
				require.NoError(t, err)
				if length > 1 {
					assert.GreaterOrEqual(t, n, int64(1))
					assert.NotEqual(t, byte('0'), code[0])
				}
			}
		})
	}
}

func TestNewInviteCodeRejectsNonPositiveLength(t *testing.T) {
	_, err := NewInviteCode(0)
	assert.Error(t, err)
}
