package logger

import (
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Fields is the structured payload attached to a log line.
type Fields map[string]interface{}

// Logger wraps zerolog.Logger with field-map helpers.
type Logger struct {
	logger zerolog.Logger
}

type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output io.Writer
}

var globalLogger *Logger

func init() {
	Initialize(Config{Level: "info", Format: "console"})
}

// Initialize replaces the global logger.
func Initialize(cfg Config) {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	var out io.Writer = os.Stdout
	if cfg.Output != nil {
		out = cfg.Output
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).With().Timestamp().Logger()
	globalLogger = &Logger{logger: l}
	log.Logger = l
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the global logger. Until Initialize is called it writes
// info-level console output to stdout.
func Get() *Logger {
	return globalLogger
}

// WithContext returns a child logger carrying fields on every line.
func (l *Logger) WithContext(fields Fields) *Logger {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{logger: ctx.Logger()}
}

func (l *Logger) Debug(msg string, fields ...Fields) { l.emit(l.logger.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...Fields)  { l.emit(l.logger.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...Fields)  { l.emit(l.logger.Warn(), msg, fields) }

func (l *Logger) Error(msg string, err error, fields ...Fields) {
	l.emit(l.logger.Error().Err(err), msg, fields)
}

func (l *Logger) Fatal(msg string, err error, fields ...Fields) {
	l.emit(l.logger.Fatal().Err(err), msg, fields)
}

// emit is always called directly from a Debug/Info/... wrapper, so the
// user's call site is two frames up.
func (l *Logger) emit(event *zerolog.Event, msg string, fields []Fields) {
	if event == nil {
		return
	}
	if pc, file, line, ok := runtime.Caller(2); ok {
		event = event.Str("caller", zerolog.CallerMarshalFunc(pc, file, line))
	}
	for _, f := range fields {
		for k, v := range f {
			event = event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

// Package-level helpers use the global logger.

func Debug(msg string, fields ...Fields) { l := Get(); l.emit(l.logger.Debug(), msg, fields) }
func Info(msg string, fields ...Fields)  { l := Get(); l.emit(l.logger.Info(), msg, fields) }
func Warn(msg string, fields ...Fields)  { l := Get(); l.emit(l.logger.Warn(), msg, fields) }

func Error(msg string, err error, fields ...Fields) {
	l := Get()
	l.emit(l.logger.Error().Err(err), msg, fields)
}

func Fatal(msg string, err error, fields ...Fields) {
	l := Get()
	l.emit(l.logger.Fatal().Err(err), msg, fields)
}

func WithContext(fields Fields) *Logger {
	return Get().WithContext(fields)
}
