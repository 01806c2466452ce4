package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	cases := []struct {
		level     string
		dev       bool
		wantLevel zapcore.Level
	}{
		{level: "info", wantLevel: zapcore.InfoLevel},
		{level: "debug", wantLevel: zapcore.DebugLevel},
		{level: "WARN", wantLevel: zapcore.WarnLevel},
		{level: "error", dev: true, wantLevel: zapcore.DebugLevel},
	}

	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			if tc.dev {
				t.Setenv(DevEnv, "1")
			}
			log, err := New(tc.level)
			require.NoError(t, err)
			assert.Equal(t, tc.wantLevel, log.Level())
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("verbose")
	require.Error(t, err)
}
