package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput("debug", "json", &buf)

	logger.WithField("msisdn", "94701755005").Info("profile resolved")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "profile resolved", entry["msg"])
	assert.Equal(t, "94701755005", entry["msisdn"])
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNewUnknownLevel(t *testing.T) {
	logger := NewWithOutput("loud", "text", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
