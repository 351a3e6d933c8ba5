package logger

import (
	"go.uber.org/zap"
)

// New returns a sugared zap logger. Development mode uses the human-readable
// console encoder, production mode emits JSON.
func New(development bool) *zap.SugaredLogger {
	var l *zap.Logger
	var err error
	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return l.Sugar()
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
