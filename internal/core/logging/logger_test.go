package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecsforge/internal/core/logging"
)

func TestNewProductionAndDebugLoggersBuild(t *testing.T) {
	prod, err := logging.New(false)
	require.NoError(t, err)
	assert.NotNil(t, prod)

	dbg, err := logging.New(true)
	require.NoError(t, err)
	assert.NotNil(t, dbg)
}

func TestNopLoggerDoesNotPanic(t *testing.T) {
	l := logging.NewNop()
	l.Info("hello")
	l.SystemPanic("sys", 7, "boom")
}
