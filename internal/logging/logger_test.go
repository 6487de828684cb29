package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	t.Run("json format writes structured lines", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Configure(Config{Level: "info", Format: "json", Output: &buf})

		logger.Info().Str("sku", "A1").Msg("resolved")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "A1", line["sku"])
		assert.Equal(t, "resolved", line["message"])
		assert.Equal(t, "info", line["level"])
	})

	t.Run("level filters lower events", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Configure(Config{Level: "warn", Format: "json", Output: &buf})

		logger.Info().Msg("hidden")
		assert.Empty(t, buf.String())

		logger.Warn().Msg("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Configure(Config{Level: "loud", Format: "json", Output: &buf})

		logger.Debug().Msg("hidden")
		logger.Info().Msg("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Format: "json", Output: &buf})

	t.Run("falls back to default", func(t *testing.T) {
		assert.Equal(t, Default(), FromContext(context.Background()))
	})

	t.Run("fields are carried through context", func(t *testing.T) {
		buf.Reset()
		ctx := WithFields(context.Background(), "run_id", "r-1", "sku", "A1")

		FromContext(ctx).Info().Msg("hello")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "r-1", line["run_id"])
		assert.Equal(t, "A1", line["sku"])
	})
}

func TestConfigure_AutoFormatOffTerminal(t *testing.T) {
	t.Run("buffers are not terminals", func(t *testing.T) {
		assert.False(t, isTerminal(&bytes.Buffer{}))
	})

	t.Run("regular files get json", func(t *testing.T) {
		f, err := os.Create(filepath.Join(t.TempDir(), "run.log"))
		require.NoError(t, err)
		defer f.Close()

		assert.False(t, isTerminal(f))

		logger := Configure(Config{Level: "info", Format: "auto", Output: f})
		logger.Info().Msg("plain")

		data, err := os.ReadFile(f.Name())
		require.NoError(t, err)
		var line map[string]any
		require.NoError(t, json.Unmarshal(data, &line))
		assert.Equal(t, "plain", line["message"])
	})
}
