package logger

import (
	"time"

	"go.uber.org/zap"
)

// Field constructors re-exported so callers never import zap directly.

func String(key, value string) Field          { return zap.String(key, value) }
func Int(key string, value int) Field         { return zap.Int(key, value) }
func Int64(key string, value int64) Field     { return zap.Int64(key, value) }
func Bool(key string, value bool) Field       { return zap.Bool(key, value) }
func Duration(key string, d time.Duration) Field { return zap.Duration(key, d) }
func Error(err error) Field                   { return zap.Error(err) }
func Strings(key string, vals []string) Field { return zap.Strings(key, vals) }
