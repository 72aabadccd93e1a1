package annotations

import (
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapHandler logs every event through logger. Errors and contradictions log
// at warn, lifecycle summaries at info, and per-pass detail at debug.
func ZapHandler(logger *zap.Logger) Handler {
	if logger == nil {
		return nil
	}
	return func(event Event) {
		if ce := logger.Check(levelFor(event), event.Name); ce != nil {
			ce.Write(fieldsFor(event)...)
		}
	}
}

func levelFor(event Event) zapcore.Level {
	switch {
	case strings.HasPrefix(event.Name, "error/"), event.Name == FactContradiction:
		return zapcore.WarnLevel
	case event.Name == ChainComplete, event.Name == ChainFixpoint, event.Name == ChainBoundReached:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// fieldsFor flattens event data into fields in key order
func fieldsFor(event Event) []zap.Field {
	keys := make([]string, 0, len(event.Data))
	for k := range event.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys)+1)
	if event.Latency > 0 {
		fields = append(fields, zap.Duration("latency", event.Latency))
	}
	for _, k := range keys {
		fields = append(fields, zap.Any(k, event.Data[k]))
	}
	return fields
}
