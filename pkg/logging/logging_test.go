package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migmedia/zfs-snappers/pkg/logging"
)

func newBufLogger(level logging.Level) (*logging.Logger, *bytes.Buffer) {
	log := logging.NewLogger(level)
	var buf bytes.Buffer
	log.SetOutput(&buf)
	return log, &buf
}

func TestLogger_JSONEntry(t *testing.T) {
	log, buf := newBufLogger(logging.LevelInfo)
	log.Info("created snapshot", map[string]any{"dataset": "tank/data"})

	var entry logging.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, logging.LevelInfo, entry.Level)
	assert.Equal(t, "created snapshot", entry.Message)
	assert.Equal(t, "tank/data", entry.Fields["dataset"])
	assert.NotEmpty(t, entry.Timestamp)
}

func TestLogger_LevelFiltering(t *testing.T) {
	log, buf := newBufLogger(logging.LevelError)
	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	assert.Zero(t, buf.Len())

	log.Error("e")
	assert.Contains(t, buf.String(), `"e"`)
}

func TestLogger_DebugSeesEverything(t *testing.T) {
	log, buf := newBufLogger(logging.LevelDebug)
	log.Debug("d")
	log.Info("i")
	lines := strings.Count(buf.String(), "\n")
	assert.Equal(t, 2, lines)
}

func TestLogger_WithFields(t *testing.T) {
	log, buf := newBufLogger(logging.LevelInfo)
	child := log.WithFields(map[string]any{"label": "daily"})
	child.SetOutput(buf)
	child.Info("evaluated")

	var entry logging.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "daily", entry.Fields["label"])
}

func TestLogger_TextFormat(t *testing.T) {
	log, buf := newBufLogger(logging.LevelInfo)
	log.SetFormat(logging.FormatText)
	log.Info("created snapshot", map[string]any{"b": 2, "a": 1})

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "created snapshot")
	// Fields are emitted in sorted key order.
	assert.Less(t, strings.Index(out, "a=1"), strings.Index(out, "b=2"))
}

func TestLogger_ErrorErr(t *testing.T) {
	log, buf := newBufLogger(logging.LevelError)
	log.ErrorErr("destroy failed", assert.AnError, map[string]any{"snapshot": "tank@x"})

	var entry logging.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, assert.AnError.Error(), entry.Fields["error"])
	assert.Equal(t, "tank@x", entry.Fields["snapshot"])
}

func TestLevelForFlags(t *testing.T) {
	assert.Equal(t, logging.LevelError, logging.LevelForFlags(false, false))
	assert.Equal(t, logging.LevelInfo, logging.LevelForFlags(true, false))
	assert.Equal(t, logging.LevelDebug, logging.LevelForFlags(true, true))
	assert.Equal(t, logging.LevelDebug, logging.LevelForFlags(false, true))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logging.LevelDebug, logging.ParseLevel("debug"))
	assert.Equal(t, logging.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, logging.LevelInfo, logging.ParseLevel("bogus"))
}
