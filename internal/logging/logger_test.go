package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()
	for _, development := range []bool{true, false} {
		l, err := New(development)
		require.NoError(t, err)
		require.NotNil(t, l)
		require.True(t, l.Core().Enabled(zapcore.InfoLevel))
	}
}

func TestNew_ProductionSuppressesDebug(t *testing.T) {
	t.Parallel()
	l, err := New(false)
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
