package utils

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedBuffer is shared with the bar's render goroutine
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewProgressBar(t *testing.T) {
	t.Run("determinate progress bar with known total", func(t *testing.T) {
		var buf lockedBuffer
		bar := NewProgressBar(10, DescFetching, &buf)
		require.NotNil(t, bar)

		require.NoError(t, bar.Add(1))
		require.NoError(t, bar.Finish())
		assert.Contains(t, buf.String(), DescFetching)
	})

	t.Run("indeterminate spinner with unknown total", func(t *testing.T) {
		var buf lockedBuffer
		bar := NewProgressBar(-1, DescTraversing, &buf)
		require.NotNil(t, bar)

		require.NoError(t, bar.Add(3))
		require.NoError(t, bar.Finish())
		assert.Contains(t, buf.String(), DescTraversing)
	})
}
