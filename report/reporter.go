package report

import (
	"strings"
	"sync"
	"time"
)

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during program execution.  The reporter respects the set
// log level and is synchronized: its methods can be safely called from multiple
// goroutines.
type Reporter struct {
	// The mutex used to synchonize different error method calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The number of errors and warnings reported so far.
	errorCount, warningCount int

	// When the reporter was initialized.
	startTime time.Time
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user (default).
)

// logLevelNames maps the names accepted on the command line and in project
// files to log levels.
var logLevelNames = map[string]int{
	"silent":  LogLevelSilent,
	"error":   LogLevelError,
	"warn":    LogLevelWarn,
	"verbose": LogLevelVerbose,
}

// LogLevelNames returns the accepted log level names ordered from least to
// most verbose.
func LogLevelNames() []string {
	return []string{"silent", "error", "warn", "verbose"}
}

// LogLevelFromName converts a log level name into a log level.  The second
// return value is false if the name is not recognized.
func LogLevelFromName(name string) (int, bool) {
	lvl, ok := logLevelNames[strings.ToLower(strings.TrimSpace(name))]
	return lvl, ok
}

// rep is the global reporter instance.  It starts out silent so that library
// users and tests see no output unless they ask for it.
var rep = newReporter(LogLevelSilent)

func newReporter(logLevel int) *Reporter {
	return &Reporter{
		m:         &sync.Mutex{},
		logLevel:  logLevel,
		startTime: time.Now(),
	}
}

// InitReporter initializes the global error reporter to the given log level,
// discarding any previously recorded errors.
func InitReporter(logLevel int) {
	rep = newReporter(logLevel)
}

// LogLevel returns the log level of the global reporter.
func LogLevel() int {
	return rep.logLevel
}
