package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Init configures the global logger. Development gets a human-readable
// console writer at debug level, everything else structured JSON at info.
func Init(environment string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if environment == "development" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger().Level(zerolog.DebugLevel)
		return
	}
	log = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

func Debug(msg string, args ...any) { emit(log.Debug(), msg, args) }

func Info(msg string, args ...any) { emit(log.Info(), msg, args) }

func Warn(msg string, args ...any) { emit(log.Warn(), msg, args) }

func Error(msg string, args ...any) { emit(log.Error(), msg, args) }

// Fatal logs and exits the process.
func Fatal(msg string, args ...any) { emit(log.Fatal(), msg, args) }

// emit attaches args as alternating key/value pairs. A trailing value without
// a key is logged under "error" when it is an error, otherwise "detail".
func emit(ev *zerolog.Event, msg string, args []any) {
	for i := 0; i < len(args); i++ {
		if key, ok := args[i].(string); ok && i+1 < len(args) {
			ev = ev.Interface(key, args[i+1])
			i++
			continue
		}
		if err, ok := args[i].(error); ok {
			ev = ev.AnErr("error", err)
			continue
		}
		ev = ev.Interface("detail", args[i])
	}
	ev.Msg(msg)
}
