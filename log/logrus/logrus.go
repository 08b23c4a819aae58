// Package logrus routes pulljson diagnostics to a logrus entry.
package logrus

import (
	"github.com/biggeezerdevelopment/pulljson"
	"github.com/sirupsen/logrus"
)

var _ pulljson.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

func (l Logger) Debug(msg string, f pulljson.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l Logger) Info(msg string, f pulljson.Fields) { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f pulljson.Fields) { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f pulljson.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
