package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy_IsValid(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())
}

func TestParsePolicy(t *testing.T) {
	t.Run("partial document keeps defaults", func(t *testing.T) {
		policy, err := ParsePolicy([]byte("consistency:\n  excellent: 90\nvolatility:\n  medium: 30\n"))

		require.NoError(t, err)
		assert.Equal(t, 90, policy.Consistency.Excellent)
		assert.Equal(t, 70, policy.Consistency.Good)
		assert.Equal(t, 30.0, policy.Volatility.Medium)
		assert.Equal(t, 10.0, policy.Volatility.Low)
		assert.Equal(t, 2.0, policy.Trend.SlopeThreshold)
	})

	t.Run("unordered levels are rejected", func(t *testing.T) {
		_, err := ParsePolicy([]byte("consistency:\n  good: 95\n"))

		assert.ErrorIs(t, err, ErrInvalidPolicy)
	})

	t.Run("inverted volatility bounds are rejected", func(t *testing.T) {
		_, err := ParsePolicy([]byte("volatility:\n  low: 40\n  medium: 20\n"))

		assert.ErrorIs(t, err, ErrInvalidPolicy)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParsePolicy([]byte("consistency: [1, 2"))

		assert.Error(t, err)
	})
}

func TestLoadPolicy(t *testing.T) {
	t.Run("empty path yields defaults", func(t *testing.T) {
		policy, err := LoadPolicy("")

		require.NoError(t, err)
		assert.Equal(t, DefaultPolicy(), policy)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "analytics.yaml")
		require.NoError(t, os.WriteFile(path, []byte("trend:\n  slope_threshold: 5\n"), 0o600))

		policy, err := LoadPolicy(path)

		require.NoError(t, err)
		assert.Equal(t, 5.0, policy.Trend.SlopeThreshold)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.Error(t, err)
	})
}
