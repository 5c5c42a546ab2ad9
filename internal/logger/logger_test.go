package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	require.NoError(t, Configure(l, &buf, "debug", "json"))

	l.WithField("seat", 2).Debug("decision")
	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "decision", rec["msg"])
	assert.Equal(t, float64(2), rec["seat"])
}

func TestConfigureLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	require.NoError(t, Configure(l, &buf, "warn", "text"))
	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigureErrors(t *testing.T) {
	l := logrus.New()
	assert.Error(t, Configure(l, &bytes.Buffer{}, "loud", "text"))
	assert.ErrorContains(t, Configure(l, &bytes.Buffer{}, "info", "xml"), "unknown format")
}
