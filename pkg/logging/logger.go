package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LevelTrace sits below debug and is only useful while developing
const LevelTrace = slog.LevelDebug - 4

type contextKey string

const requestIDKey contextKey = "requestID"

// Options selects the output format of the process-wide logger
type Options struct {
	Level  slog.Level
	JSON   bool
	Writer io.Writer // defaults to stderr
}

var (
	mu      sync.RWMutex
	options = Options{Level: slog.LevelInfo}
	logger  = slog.New(NewCompactHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// Configure replaces the process-wide logger. Loggers returned by New before
// the call keep their old handler.
func Configure(opts Options) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = NewCompactHandler(w, handlerOpts)
	}

	mu.Lock()
	options = opts
	logger = slog.New(h)
	mu.Unlock()
}

// SetLevel keeps the current format and changes the threshold
func SetLevel(level slog.Level) {
	mu.RLock()
	opts := options
	mu.RUnlock()
	opts.Level = level
	Configure(opts)
}

// ParseLevel accepts trace, debug, info, warn and error (any case)
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// LevelFromVerbosity maps a -v count onto a level: 0 info, 1 debug, 2+ trace
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelInfo
	case v == 1:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// New returns a logger tagged with the component name
func New(component string) *slog.Logger {
	return current().With("component", component)
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func withRequestID(ctx context.Context, args []any) []any {
	if requestID := GetRequestID(ctx); requestID != "" {
		return append([]any{"requestID", requestID}, args...)
	}
	return args
}

func Trace(msg string, args ...any) {
	current().Log(context.Background(), LevelTrace, msg, args...)
}

func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

func DebugContext(ctx context.Context, msg string, args ...any) {
	current().DebugContext(ctx, msg, withRequestID(ctx, args)...)
}

// Info logs user-facing operations
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	current().InfoContext(ctx, msg, withRequestID(ctx, args)...)
}

// Warn logs conditions that should be monitored, such as rejected loads
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	current().WarnContext(ctx, msg, withRequestID(ctx, args)...)
}

// Error logs bugs that shouldn't happen
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	current().ErrorContext(ctx, msg, withRequestID(ctx, args)...)
}

// Fatal logs at ERROR level and exits
func Fatal(msg string, args ...any) {
	current().Error(msg, args...)
	os.Exit(1)
}
