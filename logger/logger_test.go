package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info", "development")

	log.Debug().Msg("hidden")
	log.Info().Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.False(t, log.IsDebugEnabled())
}

func TestLoggerEnvironmentDefaults(t *testing.T) {
	var buf bytes.Buffer

	prod := NewWithWriter(&buf, "", "production")
	assert.False(t, prod.IsDebugEnabled())

	dev := NewWithWriter(&buf, "", "development")
	assert.True(t, dev.IsDebugEnabled())
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "development")

	log.WithSite("google_careers").WithField("page", 2).Info().Msg("crawling")

	out := buf.String()
	assert.Contains(t, out, `"site":"google_careers"`)
	assert.Contains(t, out, `"page":2`)
	assert.Contains(t, out, "crawling")
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "development")

	log.WithError(assert.AnError).Error().Msg("failed")
	assert.Contains(t, buf.String(), assert.AnError.Error())
}
