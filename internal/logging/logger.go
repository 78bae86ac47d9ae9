package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file inside the logs directory.
const FileName = "versand.log"

// Logger appends JSON lines to <dir>/versand.log so operators can inspect a
// failed run after the console is gone. Warnings and errors are also echoed
// to the console; verbose runs echo everything.
type Logger struct {
	*zap.Logger
	// File writes to the log file only, for records that already reach the
	// operator another way.
	File *zap.Logger
	file *os.File
}

// New creates (or reuses) the log file in dir and writes console output to
// stderr.
func New(dir string, verbose bool) (*Logger, error) {
	return NewWithConsole(dir, verbose, os.Stderr)
}

// NewWithConsole is New with a custom console writer.
func NewWithConsole(dir string, verbose bool, console io.Writer) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}

	fileLevel := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	consoleLevel := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		fileLevel.SetLevel(zapcore.DebugLevel)
		consoleLevel.SetLevel(zapcore.DebugLevel)
	}

	fileEncoder := zap.NewProductionEncoderConfig()
	fileEncoder.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoder := zap.NewDevelopmentEncoderConfig()
	consoleEncoder.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")

	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoder), zapcore.AddSync(f), fileLevel)
	core := zapcore.NewTee(
		fileCore,
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoder), zapcore.AddSync(console), consoleLevel),
	)
	return &Logger{Logger: zap.New(core), File: zap.New(fileCore), file: f}, nil
}

// Nop returns a logger that drops everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop(), File: zap.NewNop()}
}

// Close flushes and releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.Logger == nil {
		return nil
	}
	_ = l.Logger.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
