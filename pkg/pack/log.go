package pack

import (
	"sync"

	"github.com/charmbracelet/log"
)

var (
	logger   *log.Logger
	loggerMu sync.RWMutex
)

// SetLogger sets the logger used for unpack diagnostics. Passing nil restores
// the default logger.
func SetLogger(l *log.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// Logger returns the logger used for unpack diagnostics.
func Logger() *log.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if logger == nil {
		return log.Default()
	}
	return logger
}

func logFieldError(fe *FieldError) {
	if nested(fe.Err) {
		Logger().Debug("nested unpack failed", "entity", fe.Entity, "field", fe.Field)
		return
	}
	Logger().Warn("unpack field failed", "entity", fe.Entity, "field", fe.Field, "err", fe.Err)
}
