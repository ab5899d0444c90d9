package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonLines decodes every record written by a JSON logger.
func jsonLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec), sc.Text())
		out = append(out, rec)
	}
	return out
}

func TestJSONLogger_LevelsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, "debug")
	ctx := context.Background()

	log.Debug(ctx, "migrations applied", "count", 3)
	log.Info(ctx, "listening", "addr", ":3333")
	log.Warn(ctx, "tracing shutdown failed")
	log.Error(ctx, "request failed", "status", 500)

	recs := jsonLines(t, &buf)
	require.Len(t, recs, 4)

	want := []struct{ level, msg string }{
		{"DEBUG", "migrations applied"},
		{"INFO", "listening"},
		{"WARN", "tracing shutdown failed"},
		{"ERROR", "request failed"},
	}
	for i, w := range want {
		assert.Equal(t, w.level, recs[i]["level"])
		assert.Equal(t, w.msg, recs[i]["msg"])
	}
	assert.EqualValues(t, 3, recs[0]["count"])
	assert.Equal(t, ":3333", recs[1]["addr"])
}

func TestJSONLogger_WithModule(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, "info").With("module", "bookmarks")

	log.Info(context.Background(), "bookmark created", "user_id", "u-1")

	recs := jsonLines(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "bookmarks", recs[0]["module"])
	assert.Equal(t, "u-1", recs[0]["user_id"])
}

func TestJSONLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, "warn")
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown")

	recs := jsonLines(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "shown", recs[0]["msg"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}
