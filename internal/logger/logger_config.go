package logger

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/mini-maxit/tester/pkg/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	timeKey   = "time"
	levelKey  = "level"
	sourceKey = "source"
	msgKey    = "msg"
)

var (
	sugarLogger *zap.SugaredLogger
	level       = zap.NewAtomicLevelAt(zap.InfoLevel)
	initOnce    sync.Once
)

// getLogDir returns the directory the rotating log file is written to.
// LOG_DIR wins; otherwise the user cache directory is used so the harness
// never litters the directory it is testing in.
func getLogDir() string {
	if logDir := os.Getenv("LOG_DIR"); logDir != "" {
		return logDir
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return constants.DefaultLogDir
	}
	return filepath.Join(cacheDir, "tester", "logs")
}

func initializeLogger() {
	lvl := os.Getenv("LOG_LEVEL")
	if lvl == "" {
		lvl = constants.DefaultLogLevel
	}
	if parsed, err := zapcore.ParseLevel(lvl); err == nil {
		level.SetLevel(parsed)
	}

	logPath := filepath.Join(getLogDir(), "app.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		logPath = filepath.Join(os.TempDir(), "tester-app.log")
	}

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    50,
		MaxBackups: 10,
		MaxAge:     28,
		Compress:   true,
		LocalTime:  true,
	})

	stdWriter := zapcore.Lock(zapcore.AddSync(os.Stdout))

	fileEncoderConfig := zapcore.EncoderConfig{
		TimeKey:        timeKey,
		LevelKey:       levelKey,
		NameKey:        sourceKey,
		MessageKey:     msgKey,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	// The console is what the user reads while testing, keep it terse.
	stdEncoderConfig := zapcore.EncoderConfig{
		LevelKey:       levelKey,
		MessageKey:     msgKey,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	fileCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(fileEncoderConfig),
		w,
		zap.DebugLevel,
	)

	stdCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(stdEncoderConfig),
		stdWriter,
		level,
	)

	core := zapcore.NewTee(fileCore, stdCore)

	log := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.DPanicLevel))
	sugarLogger = log.Sugar()
}

// SetLevel changes the console log level at runtime.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// NewNamedLogger creates a new named SugaredLogger for a given component.
func NewNamedLogger(name string) *zap.SugaredLogger {
	initOnce.Do(initializeLogger)
	return sugarLogger.Named(name)
}

// Sync flushes buffered log entries.
func Sync() {
	if sugarLogger != nil {
		_ = sugarLogger.Sync()
	}
}
