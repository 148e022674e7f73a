package log

import (
	"sort"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields to be added to a logger
type Fields map[string]interface{}

// Logger carries key/value fields, it writes to the process logger current at the time of the call
type Logger struct {
	fields []interface{}
}

var base atomic.Value // *zap.SugaredLogger

func init() {
	zapLogger, _ := zap.NewProduction(zap.AddCallerSkip(1))
	base.Store(zapLogger.Sugar())
}

func sugared() *zap.SugaredLogger {
	return base.Load().(*zap.SugaredLogger)
}

// Init replaces the process logger. Debug mode logs human readable lines at debug level.
func Init(debug bool) error {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	base.Store(zapLogger.Sugar())
	return nil
}

// ReplaceCore routes every logger to core until the returned func restores the previous one
func ReplaceCore(core zapcore.Core) (restore func()) {
	prev := sugared()
	base.Store(zap.New(core, zap.AddCallerSkip(1)).Sugar())
	return func() {
		base.Store(prev)
	}
}

// Sync flushes buffered entries, call before exit
func Sync() {
	_ = sugared().Sync()
}

// Log returns an empty field logger
func Log() Logger {
	return Logger{}
}

// WithField returns a copy of l with key added, l itself is not modified
func (l Logger) WithField(key string, value interface{}) Logger {
	fields := make([]interface{}, 0, len(l.fields)+2)
	fields = append(fields, l.fields...)
	l.fields = append(fields, key, value)
	return l
}

// WithFields adds kvs in key order
func (l Logger) WithFields(kvs Fields) Logger {
	keys := make([]string, 0, len(kvs))
	for k := range kvs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]interface{}, 0, len(l.fields)+2*len(kvs))
	fields = append(fields, l.fields...)
	for _, k := range keys {
		fields = append(fields, k, kvs[k])
	}
	l.fields = fields
	return l
}

func (l Logger) Debug(args ...interface{}) {
	sugared().With(l.fields...).Debug(args...)
}

func (l Logger) Info(args ...interface{}) {
	sugared().With(l.fields...).Info(args...)
}

func (l Logger) Warn(args ...interface{}) {
	sugared().With(l.fields...).Warn(args...)
}

func (l Logger) Error(args ...interface{}) {
	sugared().With(l.fields...).Error(args...)
}

// Panic logs then panics with the message
func (l Logger) Panic(args ...interface{}) {
	sugared().With(l.fields...).Panic(args...)
}
