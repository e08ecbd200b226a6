package logger

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	Info    *log.Logger
	Warn    *log.Logger
	Debug   *log.Logger
	Verbose *log.Logger
	Error   *log.Logger
	Always  *log.Logger // Always logs to file regardless of log level

	// Current log level for filtering
	currentLogLevel string

	logFile *lumberjack.Logger
)

// Rotation holds the lumberjack rotation settings
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultRotation keeps five 10MB files for a month
var DefaultRotation = Rotation{MaxSizeMB: 10, MaxBackups: 5, MaxAgeDays: 30}

func init() {
	// Safe no-op loggers until Init is called
	setWriters("error", io.Discard, io.Discard)
}

func Init() error {
	return InitWithLevel("info")
}

func InitWithLevel(logLevel string) error {
	return InitWithConfig(logLevel, "coffeecarry.log")
}

func InitWithConfig(logLevel, logFilePath string) error {
	return InitWithRotation(logLevel, logFilePath, DefaultRotation)
}

// InitWithRotation opens a rotating log file and rebuilds all level loggers.
// Nothing is written to stdout; errors are mirrored to stderr.
func InitWithRotation(logLevel, logFilePath string, rotation Rotation) error {
	// Probe the path so a bad location fails at startup, not on first write
	f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}
	f.Close()

	Close()
	logFile = &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    rotation.MaxSizeMB,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAgeDays,
		Compress:   rotation.Compress,
	}

	setWriters(logLevel, logFile, io.MultiWriter(os.Stderr, logFile))
	return nil
}

// InitWithWriter routes every level to w, used by tests and the server's console mode
func InitWithWriter(logLevel string, w io.Writer) {
	setWriters(logLevel, w, w)
}

// Close flushes and closes the rotating log file, if any
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// Level returns the active log level
func Level() string {
	return currentLogLevel
}

func setWriters(logLevel string, out, errOut io.Writer) {
	currentLogLevel = logLevel

	// Create null writer for disabled log levels
	nullWriter := io.Discard

	Info = log.New(getWriter("info", out, nullWriter), "ℹ️  INFO: ", log.Ldate|log.Ltime)
	Warn = log.New(getWriter("warn", out, nullWriter), "⚠️  WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	Debug = log.New(getWriter("debug", out, nullWriter), "🐛 DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
	Verbose = log.New(getWriter("verbose", out, nullWriter), "🔍 VERBOSE: ", log.Ldate|log.Ltime|log.Lshortfile)
	Error = log.New(errOut, "❌ ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	Always = log.New(out, "📝 ALWAYS: ", log.Ldate|log.Ltime) // bypasses level filtering
}

// getWriter returns the appropriate writer based on log level
func getWriter(level string, activeWriter, disabledWriter io.Writer) io.Writer {
	if shouldLog(level) {
		return activeWriter
	}
	return disabledWriter
}

// shouldLog determines if a log level should be active
func shouldLog(level string) bool {
	levels := map[string]int{
		"error":   0,
		"warn":    1,
		"info":    2,
		"debug":   3,
		"verbose": 4,
	}

	currentLevel, exists := levels[currentLogLevel]
	if !exists {
		currentLevel = 2 // default to info
	}

	requiredLevel, exists := levels[level]
	if !exists {
		return false
	}

	return currentLevel >= requiredLevel
}
