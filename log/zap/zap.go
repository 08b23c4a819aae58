// Package zap routes pulljson diagnostics to a zap logger.
package zap

import (
	"github.com/biggeezerdevelopment/pulljson"
	"go.uber.org/zap"
)

var _ pulljson.Logger = Logger{}

type Logger struct{ L *zap.Logger }

func (z Logger) Debug(msg string, f pulljson.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f pulljson.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f pulljson.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f pulljson.Fields) { z.L.Error(msg, fields(f)...) }

func fields(f pulljson.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
