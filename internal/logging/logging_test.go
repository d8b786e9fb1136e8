package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Disabled(t *testing.T) {
	for _, lvl := range []string{"", "off", "OFF"} {
		l, err := New(lvl, "")
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.ErrorLevel), "level %q should be a no-op", lvl)
	}
}

func TestNew_Levels(t *testing.T) {
	l, err := New("debug", "console")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New("warn", "json")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_Errors(t *testing.T) {
	_, err := New("loud", "")
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}
