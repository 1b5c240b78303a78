package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewParsesLevel(t *testing.T) {
	assert.Equal(t, logrus.WarnLevel, New("warn", &bytes.Buffer{}).GetLevel())
	assert.Equal(t, logrus.DebugLevel, New("chatty", &bytes.Buffer{}).GetLevel())
}

func TestComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", &buf)
	Component(logger, "donations").Info("created")
	assert.Contains(t, buf.String(), "donations")
	assert.Contains(t, buf.String(), "created")
}
