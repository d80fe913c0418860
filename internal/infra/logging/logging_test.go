package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithService(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, " pointledger-api ", slog.LevelInfo)

	logger.Debug("dropped")
	logger.Info("batch done", "batch_id", "b-1", "users", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "pointledger-api", line["service"])
	assert.Equal(t, "batch done", line["msg"])
	assert.Equal(t, "b-1", line["batch_id"])
	assert.EqualValues(t, 3, line["users"])
}
