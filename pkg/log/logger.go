// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Logger describes a logger to be used in mlxfw.
type Logger interface {
	// Debugf logs a debug message.
	Debugf(format string, args ...interface{})

	// Infof logs an informational message.
	Infof(format string, args ...interface{})

	// Warnf logs an warning message.
	Warnf(format string, args ...interface{})

	// Errorf logs an error message.
	Errorf(format string, args ...interface{})

	// Fatalf logs a fatal message and immediately exits the application
	// with os.Exit.
	Fatalf(format string, args ...interface{})
}

// DefaultLogger is the logger used by default everywhere within mlxfw.
var DefaultLogger Logger

func init() {
	DefaultLogger = New("mlxfw", "warn", os.Stderr)
}

// New returns a Logger writing to output at the given level
// (trace, debug, info, warn, error). The MLXFW_JSON_LOG=1 environment
// variable switches to JSON lines.
func New(name, level string, output io.Writer) Logger {
	if output == nil {
		output = os.Stderr
	}
	return hclogWrapper{Logger: hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: os.Getenv("MLXFW_JSON_LOG") == "1",
		Output:     output,
	})}
}

// SetLevel replaces DefaultLogger by one logging at level to stderr.
func SetLevel(level string) {
	DefaultLogger = New("mlxfw", level, os.Stderr)
}

type hclogWrapper struct {
	Logger hclog.Logger
}

// Debugf implements Logger.
func (logger hclogWrapper) Debugf(format string, args ...interface{}) {
	if logger.Logger.IsDebug() || logger.Logger.IsTrace() {
		logger.Logger.Debug(fmt.Sprintf(format, args...))
	}
}

// Infof implements Logger.
func (logger hclogWrapper) Infof(format string, args ...interface{}) {
	logger.Logger.Info(fmt.Sprintf(format, args...))
}

// Warnf implements Logger.
func (logger hclogWrapper) Warnf(format string, args ...interface{}) {
	logger.Logger.Warn(fmt.Sprintf(format, args...))
}

// Errorf implements Logger.
func (logger hclogWrapper) Errorf(format string, args ...interface{}) {
	logger.Logger.Error(fmt.Sprintf(format, args...))
}

// Fatalf implements Logger.
func (logger hclogWrapper) Fatalf(format string, args ...interface{}) {
	logger.Logger.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

// Debugf logs a debug message.
func Debugf(format string, args ...interface{}) {
	DefaultLogger.Debugf(format, args...)
}

// Infof logs an informational message.
func Infof(format string, args ...interface{}) {
	DefaultLogger.Infof(format, args...)
}

// Warnf logs an warning message.
func Warnf(format string, args ...interface{}) {
	DefaultLogger.Warnf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	DefaultLogger.Errorf(format, args...)
}

// Fatalf logs a fatal message and immediately exits the application
// with os.Exit (which is expected to be called by the DefaultLogger.Fatalf).
func Fatalf(format string, args ...interface{}) {
	DefaultLogger.Fatalf(format, args...)
}
