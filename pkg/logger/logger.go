package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wonny/underwriter/pkg/config"
)

// Service is attached to every entry so shared log pipelines can route on it
const Service = "underwriter"

// Logger is a structured logger wrapper around zerolog
// ⭐ SSOT: 모든 로깅은 이 패키지를 통해서만 수행
type Logger struct {
	zlog zerolog.Logger
}

// Options configures a Logger
type Options struct {
	Out    io.Writer // defaults to os.Stdout
	Format string    // json (default), console or pretty
	Level  string
	Env    string
}

// New creates the process logger from config
// ⭐ SSOT: zerolog 인스턴스는 여기서만 생성
func New(cfg *config.Config) *Logger {
	return NewWithOptions(Options{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
		Env:    cfg.Env,
	})
}

// NewWithOptions creates a Logger. The level applies to this logger only.
func NewWithOptions(opts Options) *Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Format == "console" || opts.Format == "pretty" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(parseLogLevel(opts.Level)).With().
		Timestamp().
		Str("service", Service)
	if opts.Env != "" {
		ctx = ctx.Str("env", opts.Env)
	}
	return &Logger{zlog: ctx.Logger()}
}

// NewWithWriter creates a JSON logger writing to w (tests, tooling)
func NewWithWriter(w io.Writer, level string) *Logger {
	return NewWithOptions(Options{Out: w, Level: level})
}

// NewNop returns a logger that discards everything (tests)
func NewNop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// parseLogLevel converts string log level to zerolog.Level
func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.zlog.Debug().Msg(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.zlog.Info().Msg(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.zlog.Warn().Msg(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string) {
	l.zlog.Error().Msg(msg)
}

// =============================================================================
// Fields
// =============================================================================

// WithField returns a new logger with an additional field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{zlog: l.zlog.With().Interface(key, value).Logger()}
}

// WithFields returns a new logger with multiple fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// WithError returns a new logger with an error field
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zlog: l.zlog.With().Err(err).Logger()}
}

// WithQuote scopes the logger to one quote
func (l *Logger) WithQuote(quoteID, variant string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("quote_id", quoteID).Str("variant", variant).Logger()}
}

// WithPII adds personal data (ssn, name, street, email) masked
func (l *Logger) WithPII(key, value string) *Logger {
	return &Logger{zlog: l.zlog.With().Str(key, Mask(value)).Logger()}
}

// Mask hides personal data before it reaches a log line or error message.
// 앞 2자리만 남기고 나머지는 '*'로 치환
func Mask(value string) string {
	runes := []rune(strings.TrimSpace(value))
	if len(runes) <= 2 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:2]) + strings.Repeat("*", len(runes)-2)
}
