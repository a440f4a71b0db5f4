package report

import "time"

// -----------------------------------------------------------------------------
// Below are all the "aesthetic" reporting functions that will only run if the
// log level is set to verbose.  These provide additional information about the
// compilation process to the user so as to make the compiler more friendly.

// ReportCompileHeader reports the pre-compilation header: information about
// the compiler's version and its input.
func ReportCompileHeader(version, inputPath string) {
	if rep.logLevel == LogLevelVerbose {
		displayCompileHeader(version, inputPath)
	}
}

// ReportBeginPhase reports the beginning of a compilation phase.  Any phase
// still in progress is ended successfully first.
func ReportBeginPhase(phase string) {
	if rep.logLevel == LogLevelVerbose {
		displayEndPhase(true)
		displayBeginPhase(phase)
	}
}

// ReportEndPhase reports the end of the current compilation phase.  Whether the
// phase succeeded is determined by whether any errors have been reported.
func ReportEndPhase() {
	if rep.logLevel == LogLevelVerbose {
		displayEndPhase(!AnyErrors())
	}
}

// ReportCompilationFinished reports the concluding message for compilation.
func ReportCompilationFinished(outputPath string) {
	if rep.logLevel == LogLevelVerbose {
		displayCompilationFinished(
			!AnyErrors(),
			rep.errorCount,
			rep.warningCount,
			outputPath,
			time.Since(rep.startTime),
		)
	}
}

// DisplayInfoMessage displays an informational message regardless of the log
// level: it is used for output the user explicitly asked for.
func DisplayInfoMessage(tag, msg string) {
	printInfoMessage(tag, msg)
}

// DisplayErrorMessage displays a standard Go error regardless of the log level.
// It is used by interactive commands which recover from the error.
func DisplayErrorMessage(tag string, err error) {
	printErrorMessage(tag, err)
}
