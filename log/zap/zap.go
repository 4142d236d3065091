// Package zap adapts a *zap.Logger to jsonable.Logger.
package zap

import (
	"go.uber.org/zap"

	"github.com/unkn0wn-root/jsonable"
)

var _ jsonable.Logger = Logger{}

type Logger struct{ L *zap.Logger }

// New names the logger "jsonable".
func New(l *zap.Logger) Logger { return Logger{L: l.Named("jsonable")} }

func (z Logger) Debug(msg string, f jsonable.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f jsonable.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f jsonable.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f jsonable.Fields) { z.L.Error(msg, fields(f)...) }

func fields(f jsonable.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}
