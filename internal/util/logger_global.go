package util

import (
	"os"
	"sync"
)

var (
	globalLogger *Logger
	loggerOnce   sync.Once
)

// InitLogger initializes the global logger. A non-empty logFile attaches
// a file output; debugToConsole mirrors entries to stderr. Called once;
// later calls are no-ops.
func InitLogger(logLevel, logFile string, debugToConsole bool) {
	loggerOnce.Do(func() {
		logger := NewLogger(logLevel)
		if debugToConsole {
			logger.AddOutput(NewConsoleOutput(os.Stderr, FormatText))
		}
		if logFile != "" {
			if fileOutput, err := NewFileOutput(logFile, FormatText); err == nil {
				logger.AddOutput(fileOutput)
			}
		}
		globalLogger = logger
	})
}

// Convenience functions on the global logger. Safe before InitLogger;
// entries are simply dropped.

func LogDebug(msg string) {
	if globalLogger != nil {
		globalLogger.Debug(msg)
	}
}

func LogDebugf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Debugf(format, args...)
	}
}

func LogInfo(msg string) {
	if globalLogger != nil {
		globalLogger.Info(msg)
	}
}

func LogInfof(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Infof(format, args...)
	}
}

func LogWarn(msg string) {
	if globalLogger != nil {
		globalLogger.Warn(msg)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Warnf(format, args...)
	}
}

func LogError(msg string) {
	if globalLogger != nil {
		globalLogger.Error(msg)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Errorf(format, args...)
	}
}
