package config

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvGetters(t *testing.T) {
	t.Setenv("MAZE_TEST_INT", "17")
	t.Setenv("MAZE_TEST_BOOL", "true")
	t.Setenv("MAZE_TEST_STR", "prim")

	assert.Equal(t, 17, getEnvAsIntWithDefault("MAZE_TEST_INT", 3))
	assert.Equal(t, 3, getEnvAsIntWithDefault("MAZE_TEST_MISSING", 3))
	assert.True(t, getEnvAsBoolWithDefault("MAZE_TEST_BOOL", false))
	assert.False(t, getEnvAsBoolWithDefault("MAZE_TEST_MISSING", false))
	assert.Equal(t, "prim", getEnvWithDefault("MAZE_TEST_STR", "kruskal"))
	assert.Equal(t, "kruskal", getEnvWithDefault("MAZE_TEST_MISSING", "kruskal"))
}

func TestInitConfigDefaults(t *testing.T) {
	t.Setenv("MAZE_ROWS", "12")
	t.Setenv("MAZE_DELAY_UNIT_MS", "5")

	c := initConfig()
	assert.Equal(t, 12, c.Rows)
	assert.Equal(t, int64(5), c.DelayUnit.Milliseconds())
	assert.NotEmpty(t, c.GenAlgorithm)
	assert.NotEmpty(t, c.SolveAlgorithm)
}

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewLogger("debug", "json", &buf)
		require.NoError(t, err)
		logger.Debug("hello", "rows", 3)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "hello", line["msg"])
		assert.Equal(t, 3.0, line["rows"])
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewLogger("warn", "text", &buf)
		require.NoError(t, err)
		logger.Info("hidden")
		assert.Zero(t, buf.Len())
		logger.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := NewLogger("loud", "text", &bytes.Buffer{})
		assert.Error(t, err)
		_, err = NewLogger("info", "xml", &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestNewComponentLogger(t *testing.T) {
	t.Run("text tag", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewComponentLogger("ENGINE", ColorCyan, "info", "text", &buf)
		require.NoError(t, err)
		logger.Info("run started")
		logger.Info("run completed")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		for _, line := range lines {
			assert.True(t, strings.HasPrefix(line, ColorCyan+"[ENGINE]"+ColorReset+" "), line)
		}
	})

	t.Run("plain tag", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewComponentLogger("APP", "", "info", "text", &buf)
		require.NoError(t, err)
		logger.Info("engine initialized")
		assert.True(t, strings.HasPrefix(buf.String(), "[APP] "))
		assert.Contains(t, buf.String(), "engine initialized")
	})

	t.Run("json attribute", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewComponentLogger("APP", ColorGreen, "info", "json", &buf)
		require.NoError(t, err)
		logger.Info("hello")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "APP", line["component"])
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := NewComponentLogger("APP", "", "loud", "text", &bytes.Buffer{})
		assert.Error(t, err)
	})
}
