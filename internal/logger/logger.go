package logger

import (
	"log"

	"go.uber.org/zap"
)

var instance *zap.Logger

// Init builds the process-wide structured logger.
func Init(ginMode string) {
	var (
		l   *zap.Logger
		err error
	)
	if ginMode == "release" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Cannot create logger: %v", err)
	}
	instance = l
}

// L returns the shared logger. Falls back to a no-op logger so tests can
// use packages that log without calling Init first.
func L() *zap.Logger {
	if instance == nil {
		return zap.NewNop()
	}
	return instance
}

func Sync() {
	if instance != nil {
		_ = instance.Sync()
	}
}
