package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
	"quizzes-service/internal/config"
)

func TestNewHonoursLevel(t *testing.T) {
	log := New(config.LoggerConfig{Level: "debug"})
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log = New(config.LoggerConfig{Level: "warn", Env: "production"})
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNewDefaultsToInfo(t *testing.T) {
	for _, level := range []string{"", "loud"} {
		log := New(config.LoggerConfig{Level: level})
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel), level)
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel), level)
	}
}
