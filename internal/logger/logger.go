package logger

import (
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level is the severity of a log line.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes leveled key/value lines. Outside of development, user ids are
// replaced by a short hash.
type Logger struct {
	mu      sync.RWMutex
	level   Level
	out     *log.Logger
	isDev   bool
	context string
}

// New returns a Logger writing to w.
func New(w io.Writer, level Level, isDev bool) *Logger {
	return &Logger{
		level: level,
		out:   log.New(w, "", log.LstdFlags),
		isDev: isDev,
	}
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Initialize sets up the default logger. Only the first call has an effect.
func Initialize(level Level, isDev bool) {
	once.Do(func() {
		defaultLogger = New(os.Stdout, level, isDev)
	})
}

// Default returns the process-wide logger, initializing it at INFO if needed.
func Default() *Logger {
	Initialize(INFO, false)
	return defaultLogger
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *Logger {
	return New(io.Discard, ERROR+1, true)
}

// With returns a copy of l that prefixes every line with name.
func (l *Logger) With(name string) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &Logger{level: l.level, out: l.out, isDev: l.isDev, context: name}
}

// SetLevel changes the minimum level that gets written.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(DEBUG, msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.log(INFO, msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(WARN, msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.log(ERROR, msg, keysAndValues...)
}

func (l *Logger) log(level Level, msg string, keysAndValues ...interface{}) {
	l.mu.RLock()
	enabled := level >= l.level
	l.mu.RUnlock()
	if !enabled {
		return
	}
	l.out.Println(l.format(level, msg, keysAndValues...))
}

func (l *Logger) format(level Level, msg string, keysAndValues ...interface{}) string {
	var b strings.Builder

	b.WriteString("[" + level.String() + "] ")
	if l.context != "" {
		b.WriteString(l.context + ": ")
	}
	b.WriteString(msg)

	if len(keysAndValues) > 0 {
		b.WriteString(" {")
		for i := 0; i < len(keysAndValues); i += 2 {
			key := fmt.Sprintf("%v", keysAndValues[i])
			var value interface{} = ""
			if i+1 < len(keysAndValues) {
				value = keysAndValues[i+1]
			}
			if !l.isDev {
				value = redact(key, value)
			}
			fmt.Fprintf(&b, " %s=%v", key, value)
		}
		b.WriteString(" }")
	}
	return b.String()
}

func redact(key string, value interface{}) interface{} {
	k := strings.ToLower(key)
	if strings.Contains(k, "userid") || strings.Contains(k, "user_id") {
		s := fmt.Sprintf("%v", value)
		if s == "" {
			return s
		}
		sum := sha256.Sum256([]byte(s))
		return fmt.Sprintf("user_%x", sum[:4])
	}
	return value
}

// ParseLevel converts a level name to a Level, defaulting to INFO.
func ParseLevel(level string) Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}
