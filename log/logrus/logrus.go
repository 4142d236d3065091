// Package logrus adapts a logrus entry to jsonable.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/jsonable"
)

var _ jsonable.Logger = Logger{}

// Logger writes through E. An "err" field holding an error is moved to
// logrus.ErrorKey so hooks and formatters treat it as the entry's error.
type Logger struct{ E *logrus.Entry }

// New wraps l with a component field.
func New(l *logrus.Logger) Logger {
	return Logger{E: l.WithField("component", "jsonable")}
}

func (l Logger) Debug(msg string, f jsonable.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f jsonable.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f jsonable.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f jsonable.Fields) { l.with(f).Error(msg) }

func (l Logger) with(f jsonable.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	out := make(logrus.Fields, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			out[logrus.ErrorKey] = err
			continue
		}
		out[k] = v
	}
	return l.E.WithFields(out)
}
