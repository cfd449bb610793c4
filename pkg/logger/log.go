/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type (
	alwaysLevel     struct{}
	loggerComposite struct {
		debug  *zap.Logger
		debugS *zap.SugaredLogger
		info   *zap.Logger
		infoS  *zap.SugaredLogger
		warn   *zap.Logger
		warnS  *zap.SugaredLogger
		error  *zap.Logger
		errorS *zap.SugaredLogger
	}
)

var (
	zapLogger    *loggerComposite
	DebugEnabled = false
)

// init initializes default loggers (to stderr). Stdout is reserved for the process listing.
func init() {
	setupZapLogger0(os.Stderr, false)
}

func (a alwaysLevel) Enabled(level zapcore.Level) bool {
	return true
}

// SetupZapLogger replaces the default loggers. With debug enabled Debug* calls are printed too.
func SetupZapLogger(debug bool, json bool) {
	DebugEnabled = debug
	setupZapLogger0(os.Stderr, json)
}

// SetupZapLoggerTo is like SetupZapLogger but writes to w. Used by tests to capture output.
func SetupZapLoggerTo(w io.Writer, debug bool) {
	DebugEnabled = debug
	setupZapLogger0(w, false)
}

func setupZapLogger0(w io.Writer, json bool) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		CallerKey:        "caller",
		MessageKey:       "msg",
		StacktraceKey:    "stacktrace",
		ConsoleSeparator: " ",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.LowercaseLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000"),
		EncodeDuration:   zapcore.SecondsDurationEncoder,
	}

	encoder := zapcore.NewConsoleEncoder(encoderConfig)
	if json {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}
	sink := zapcore.AddSync(w)

	newZapLogger2 := func() *zap.Logger {
		return zap.New(zapcore.NewCore(encoder, sink, alwaysLevel{}))
	}

	zapLogger = &loggerComposite{
		debug: newZapLogger2(),
		info:  newZapLogger2(),
		warn:  newZapLogger2(),
		error: newZapLogger2(),
	}
	zapLogger.debugS = zapLogger.debug.Sugar()
	zapLogger.infoS = zapLogger.info.Sugar()
	zapLogger.warnS = zapLogger.warn.Sugar()
	zapLogger.errorS = zapLogger.error.Sugar()
}

func Debugz(msg string, fields ...zap.Field) {
	if DebugEnabled {
		zapLogger.debug.Debug(msg, fields...)
	}
}
func Infoz(msg string, fields ...zap.Field) {
	zapLogger.info.Info(msg, fields...)
}
func Warnz(msg string, fields ...zap.Field) {
	zapLogger.warn.Warn(msg, fields...)
}
func Errorz(msg string, fields ...zap.Field) {
	zapLogger.error.Error(msg, fields...)
}

func Debugf(msg string, args ...interface{}) {
	if DebugEnabled {
		zapLogger.debugS.Debugf(msg, args...)
	}
}
func Infof(msg string, args ...interface{}) {
	zapLogger.infoS.Infof(msg, args...)
}
func Warnf(msg string, args ...interface{}) {
	zapLogger.warnS.Warnf(msg, args...)
}
func Errorf(msg string, args ...interface{}) {
	zapLogger.errorS.Errorf(msg, args...)
}

func IsDebugEnabled() bool {
	return DebugEnabled
}
