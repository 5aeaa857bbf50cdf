package logging

import "sync"

var global struct {
	mu     sync.RWMutex
	logger Logger
}

// SetGlobalLogger replaces the process-wide logger.
func SetGlobalLogger(logger Logger) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.logger = logger
}

// GetGlobalLogger returns the process-wide logger. Until InitGlobalLogger or
// SetGlobalLogger runs it is an info-level console logger.
func GetGlobalLogger() Logger {
	global.mu.RLock()
	logger := global.logger
	global.mu.RUnlock()
	if logger != nil {
		return logger
	}

	global.mu.Lock()
	defer global.mu.Unlock()
	if global.logger == nil {
		global.logger = NewDefaultLogger()
	}
	return global.logger
}

func Debug(msg string, fields ...Field) {
	GetGlobalLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...Field) {
	GetGlobalLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...Field) {
	GetGlobalLogger().Warn(msg, fields...)
}

func Error(msg string, err error, fields ...Field) {
	GetGlobalLogger().Error(msg, err, fields...)
}
