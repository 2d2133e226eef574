package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/Omkar-XD/Realty-Match-System/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoster struct {
	mu     sync.Mutex
	tags   []string
	posts  []port.Fields
	closed bool
}

func (f *fakePoster) Post(tag string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags = append(f.tags, tag)
	f.posts = append(f.posts, message.(port.Fields))
	return nil
}

func (f *fakePoster) Close() error {
	f.closed = true
	return nil
}

func TestSlogAdapter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, IsJSON: true, Level: slog.LevelInfo})

	logger.WithFields(port.Fields{"use_case": "FindBestMatches"}).
		Error("Failed to match requirement", errors.New("boom"), port.Fields{"limit": 10})
	logger.Debug("hidden", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "Failed to match requirement", entry["msg"])
	assert.Equal(t, "FindBestMatches", entry["use_case"])
	assert.Equal(t, "boom", entry["error"])
	assert.EqualValues(t, 10, entry["limit"])
}

func TestSlogAdapter_Tint(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, UseColor: true})

	logger.Info("Server is listening", port.Fields{"port": "8080"})

	assert.Contains(t, buf.String(), "Server is listening")
	assert.Contains(t, buf.String(), "8080")
}

func TestFluentLoggerAdapter(t *testing.T) {
	_, err := NewFluentLoggerAdapter(nil, nil)
	require.Error(t, err)

	poster := &fakePoster{}
	logger, err := NewFluentLoggerAdapter(poster, slog.LevelInfo)
	require.NoError(t, err)

	scoped := logger.WithFields(port.Fields{"component": "CatalogAdapter"})
	scoped.Debug("dropped", nil)
	scoped.Warn("slow query", port.Fields{"method": "FindCandidateProperties"})
	scoped.Error("query failed", errors.New("timeout"), nil)

	require.Equal(t, []string{"warn", "error"}, poster.tags)
	assert.Equal(t, "CatalogAdapter", poster.posts[0]["component"])
	assert.Equal(t, "FindCandidateProperties", poster.posts[0]["method"])
	assert.Equal(t, "slow query", poster.posts[0]["message"])
	assert.Equal(t, "timeout", poster.posts[1]["error"])
	assert.NotContains(t, poster.posts[1], "method")

	require.NoError(t, logger.Close())
	assert.True(t, poster.closed)
}

func TestMultiLoggerAdapter(t *testing.T) {
	_, err := NewMultiLoggerAdapter()
	require.Error(t, err)

	first, second := &fakePoster{}, &fakePoster{}
	a, _ := NewFluentLoggerAdapter(first, slog.LevelDebug)
	b, _ := NewFluentLoggerAdapter(second, slog.LevelWarn)

	single, err := NewMultiLoggerAdapter(a, nil)
	require.NoError(t, err)
	assert.Same(t, a, single)

	multi, err := NewMultiLoggerAdapter(a, b)
	require.NoError(t, err)

	multi.WithFields(port.Fields{"trace_id": "t-1"}).Info("hello", nil)
	multi.Warn("careful", nil)

	assert.Equal(t, []string{"info", "warn"}, first.tags)
	assert.Equal(t, []string{"warn"}, second.tags)
	assert.Equal(t, "t-1", first.posts[0]["trace_id"])
}
