package contract

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

// Supported log formats.
const (
	ConsoleLogFormat = "console"
	JSONLogFormat    = "json"
)

var (
	logger      atomic.Pointer[zap.Logger]
	loggerReady atomic.Bool
)

func init() {
	logger.Store(zap.NewNop())
}

// InitLogger builds the process logger from a level name and a format.
func InitLogger(level, format string) error {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch strings.ToLower(format) {
	case JSONLogFormat:
		cfg = zap.NewProductionConfig()
	case ConsoleLogFormat, "":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	default:
		return fmt.Errorf("invalid log format %q. must be console or json", format)
	}
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	built, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	SetLogger(built)
	return nil
}

// SetLogger replaces the process logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
	loggerReady.Store(true)
}

// Logger returns the process logger. It is a no-op logger until InitLogger or SetLogger is called.
func Logger() *zap.Logger {
	return logger.Load()
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	if loggerReady.Load() {
		Logger().Error(msg, zap.Error(err))
		_ = Logger().Sync()
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	}
	os.Exit(1)
}

// LogWarn logs a warning message.
func LogWarn(msg string, err error) {
	if loggerReady.Load() {
		Logger().Warn(msg, zap.Error(err))
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}
