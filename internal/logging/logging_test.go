package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ezexpenses/internal/logging"
)

func TestSetup_JSON(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	_, err := logging.Setup(&buf, "warn", "json")
	require.NoError(t, err)

	slog.Info("dropped")
	slog.Warn("kept", "n", 1)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "WARN", line["level"])
}

func TestSetup_Errors(t *testing.T) {
	_, err := logging.Setup(&bytes.Buffer{}, "loud", "text")
	assert.Error(t, err)

	_, err = logging.Setup(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}
