package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// Level is a log verbosity, from most to least chatty
type Level logging.Level

// Levels accepted by SetLevel and IsEnabled.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	backend logging.LeveledBackend
	level   = Notice
)

// Logger is implemented by the go-logging loggers returned from New.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns a logger whose lines are tagged with module
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink sends all output to sink. The current level carries over.
func SetSink(sink io.Writer) {
	formatted := logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format)
	backend = logging.AddModuleLevel(formatted)
	backend.SetLevel(level.backendLevel(), "")
	logging.SetBackend(backend)
}

// SetLevel applies l to every module
func SetLevel(l Level) {
	level = l
	backend.SetLevel(l.backendLevel(), "")
}

// IsEnabled reports whether module would emit a message at l. Callers use it
// to skip building expensive debug output.
func IsEnabled(l Level, module string) bool {
	return backend.IsEnabledFor(l.backendLevel(), module)
}

// ForVerbosity maps a count of -v flags to a level: 0 is Notice, 1 Info,
// 2 or more Debug.
func ForVerbosity(count int) Level {
	switch {
	case count <= 0:
		return Notice
	case count == 1:
		return Info
	default:
		return Debug
	}
}

func (l Level) backendLevel() logging.Level {
	switch l {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Notice:
		return logging.NOTICE
	case Warning:
		return logging.WARNING
	default:
		return logging.ERROR
	}
}

func init() {
	SetSink(os.Stderr)
}
