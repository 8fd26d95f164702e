package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "debug")
	t.Cleanup(func() { Configure(&bytes.Buffer{}, "info") })

	l := Component("authn-impersonate")
	l.Info().Str("target", "alice").Msg("impersonation succeeded")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "authn-impersonate", line["component"])
	assert.Equal(t, "alice", line["target"])
	assert.Equal(t, "info", line["level"])
}

func TestConfigure_UnknownLevelFallsBackToInfo(t *testing.T) {
	l := Configure(&bytes.Buffer{}, "loud")
	t.Cleanup(func() { Configure(&bytes.Buffer{}, "info") })

	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "info")
	t.Cleanup(func() { Configure(&bytes.Buffer{}, "info") })

	l := Component("test")
	l.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	require.NoError(t, SetLevel("debug"))
	l = Component("test")
	l.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")

	assert.Error(t, SetLevel("loud"))
}
