// Package log provides structured, colored logging for the webcash wallet.
//
// Console output goes to stderr so command output on stdout stays clean
// for scripts (a payment token, a backup phrase).
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// Component loggers.
var (
	Wallet  zerolog.Logger
	Client  zerolog.Logger
	Storage zerolog.Logger
	Server  zerolog.Logger
	CLI     zerolog.Logger
)

const consoleTimeFormat = "15:04:05"

// logFile is the file opened by the last Init, closed when Init runs again.
var logFile *os.File

func init() {
	Logger = NewConsoleLogger(os.Stderr, zerolog.InfoLevel)
	initComponentLoggers()
}

// Init replaces the global logger. When file is non-empty, logs are also
// appended to it, always as JSON.
func Init(level string, jsonOutput bool, file string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stderr
	if !jsonOutput {
		w = consoleWriter(os.Stderr)
	}
	var f *os.File
	if file != "" {
		f, err = os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = zerolog.MultiLevelWriter(w, f)
	}

	Logger = newLogger(w, lvl)
	initComponentLoggers()

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	return nil
}

// NewConsoleLogger creates a colored console logger.
func NewConsoleLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return newLogger(consoleWriter(w), level)
}

// NewJSONLogger creates a structured JSON logger.
func NewJSONLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return newLogger(w, level)
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: consoleTimeFormat,
	}
}

// ParseLevel converts debug, info, warn or error into a zerolog level. An
// empty string means info.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

func initComponentLoggers() {
	Wallet = WithComponent("wallet")
	Client = WithComponent("client")
	Storage = WithComponent("storage")
	Server = WithComponent("server")
	CLI = WithComponent("cli")
}

// WithComponent returns a child of the global logger tagged with a component name.
func WithComponent(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

// WithWallet returns the wallet logger tagged with a wallet name.
func WithWallet(name string) zerolog.Logger {
	return Wallet.With().Str("wallet", name).Logger()
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
