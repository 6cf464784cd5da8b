package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log zerolog.Logger
)

func init() {
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Setup mengganti logger default. format "console" untuk development, selain itu JSON.
func Setup(level, format string) {
	var out io.Writer = os.Stdout
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	mu.Lock()
	log = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	mu.Unlock()
}

// SetOutput is used by tests to capture log lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	log = zerolog.New(w).With().Timestamp().Logger()
	mu.Unlock()
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Info(msg string, v ...interface{}) {
	l := current()
	l.Info().Msg(format(msg, v...))
}

func Warn(msg string, v ...interface{}) {
	l := current()
	l.Warn().Msg(format(msg, v...))
}

// Error logs msg with err attached. Trailing context may be nil, a field map, or any value.
func Error(msg string, err error, v ...interface{}) {
	l := current()
	ev := l.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	for _, c := range v {
		switch ctx := c.(type) {
		case nil:
		case map[string]interface{}:
			ev = ev.Fields(ctx)
		default:
			ev = ev.Interface("context", ctx)
		}
	}
	ev.Msg(msg)
}

func format(msg string, v ...interface{}) string {
	if len(v) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, v...)
}
