package cache

import (
	"testing"

	"github.com/quantmind-br/gtraverse-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_PreservesOrder(t *testing.T) {
	original := domain.NewResult("z.md", "last", "a.md", "first", "m.md", "")

	data, err := encodeResult(original)
	require.NoError(t, err)

	decoded, err := decodeResult(data)
	require.NoError(t, err)
	assert.Equal(t, original.Keys(), decoded.Keys())
	assert.Equal(t, original.ToMap(), decoded.ToMap())
}

func TestCodec_RejectsGarbage(t *testing.T) {
	_, err := decodeResult([]byte("plainly not zstd"))
	assert.Error(t, err)
}
