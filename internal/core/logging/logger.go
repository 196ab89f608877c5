// Package logging wraps go.uber.org/zap into the single logger threaded
// through every subsystem, the way the teacher threads plain log calls
// from cmd/game/main.go down through the engine.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the handle passed into Universe and every subsystem that
// needs to report something beyond a returned error: recovered panics,
// transform failures, scene transitions, config load problems.
type Logger struct {
	z *zap.Logger
}

// New builds a production-profile logger (JSON, InfoLevel) unless debug
// is set, matching WorldConfig.EnableDebugMode's intent to turn on
// development-mode (console, caller, stack traces) logging.
func New(debug bool) (*Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{z: z}, nil
}

// NewNop returns a logger that discards everything, for tests.
func NewNop() *Logger { return &Logger{z: zap.NewNop()} }

func (l *Logger) Sync() error { return l.z.Sync() }

func (l *Logger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }
func (l *Logger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }

// SystemPanic logs a recovered panic or transform error from inside a
// system's transform, the hook World.SetPanicHandler wires to.
func (l *Logger) SystemPanic(system string, entity uint64, recovered any) {
	l.z.Error("system transform failed",
		zap.String("system", system),
		zap.Uint64("entity", entity),
		zap.Any("recovered", recovered),
	)
}
