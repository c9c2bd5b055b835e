package tempcred

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		cred, err := Generate()
		require.NoError(t, err)
		assert.Len(t, cred, Length)
		for _, r := range cred {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected character %q", r)
		}
		seen[cred] = true
	}
	// 50 draws from a 55^8 space should never collide
	assert.Len(t, seen, 50)
}
