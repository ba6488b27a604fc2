package logger

import (
	"go.uber.org/zap"
)

// Log is the process-wide logger. It discards everything until Init is called,
// so library packages and tests can log freely.
var Log = zap.NewNop()

// Init installs a development logger when debug is set, a production logger otherwise.
func Init(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Sync flushes buffered entries. Errors from syncing stderr are ignored.
func Sync() {
	_ = Log.Sync()
}
