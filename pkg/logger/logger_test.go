package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		require.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewConsoleEncoding(t *testing.T) {
	l, err := New("debug", "console")
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zapcore.DebugLevel))

	child := l.WithSession("s-1").Named("store")
	require.NotNil(t, child.Logger)
}

func TestNewRejectsUnknownEncoding(t *testing.T) {
	_, err := New("info", "xml")
	require.Error(t, err)
}

func TestGlobalDefaultsToNop(t *testing.T) {
	require.NotNil(t, Global())

	l := NewNop().Named("main")
	SetGlobal(l)
	t.Cleanup(func() { SetGlobal(nil) })
	require.Same(t, l, Global())
}
