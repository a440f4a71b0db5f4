package cmd

import (
	"garnet/common"
	"garnet/config"
	"garnet/report"
	"os"
	"path/filepath"

	"github.com/ComedicChimera/olive"
)

// Execute is the main entry point for the `garnet` CLI utility
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("garnet", "garnet compiles Ruby syntax trees into C for the Natalie runtime", true)
	cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, report.LogLevelNames())

	buildCmd := cli.AddSubcommand("build", "compile a serialized syntax tree to C", true)
	buildCmd.AddPrimaryArg("ast-path", "the path to the syntax tree to compile", true)
	buildCmd.AddStringArg("output", "o", "the path to write the generated C to", false)
	buildCmd.AddFlag("emit-ir", "ir", "write the lowered IR instead of C")

	initCmd := cli.AddSubcommand("init", "create a project file in the current directory", true)
	initCmd.AddPrimaryArg("name", "the name of the project", true)

	cli.AddSubcommand("repl", "compile syntax trees interactively", false)
	cli.AddSubcommand("version", "print the Garnet version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportFatal(err.Error())
	}

	logLevel, _ := result.Arguments["loglevel"].(string)

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		execBuildCommand(subResult, logLevel)
	case "init":
		execInitCommand(subResult)
	case "repl":
		execReplCommand(logLevel)
	case "version":
		report.DisplayInfoMessage("Garnet Version", common.GarnetVersion)
	}
}

// execBuildCommand executes the build subcommand and handles all errors
func execBuildCommand(result *olive.ArgParseResult, logLevel string) {
	inputPath, _ := result.PrimaryArg()

	proj := loadProject(filepath.Dir(inputPath), logLevel)

	c := NewCompiler(inputPath, proj)
	if output, ok := result.Arguments["output"].(string); ok && output != "" {
		c.outputPath = output
	}

	c.emitIR = result.HasFlag("emit-ir")

	c.Compile()

	// end whatever the final compilation phase was and display the concluding
	// message of compilation.
	report.ReportEndPhase()
	report.ReportCompilationFinished(c.outputPath)

	if report.AnyErrors() {
		os.Exit(1)
	}
}

// execInitCommand executes the `init` subcommand.
func execInitCommand(result *olive.ArgParseResult) {
	report.InitReporter(report.LogLevelVerbose)

	name, _ := result.PrimaryArg()

	wd, err := os.Getwd()
	if err != nil {
		report.ReportFatal("error getting working directory: %s", err)
	}

	if _, err := config.Init(wd, name); err != nil {
		report.ReportFatal("error creating project: %s", err)
	}

	report.DisplayInfoMessage("Created", filepath.Join(wd, common.ProjectFileName))
}

// -----------------------------------------------------------------------------

// loadProject loads the project file in dir if there is one and applies the
// environment to it.  The log level on the command line takes precedence over
// both.  The global reporter is initialized from the final log level.
func loadProject(dir, cliLogLevel string) *config.Project {
	// errors loading the project are displayed at the default level
	report.InitReporter(report.LogLevelVerbose)

	proj, err := config.Load(dir)
	if err == config.ErrNoProject {
		proj = config.Default(filepath.Base(dir))
	} else if err != nil {
		report.ReportFatal("error loading project: %s", err)
	}

	proj.ApplyEnv()

	if cliLogLevel != "" {
		proj.LogLevel = cliLogLevel
	}

	if _, ok := report.LogLevelFromName(proj.LogLevel); !ok {
		report.ReportFatal("unknown log level: `%s`", proj.LogLevel)
	}

	report.InitReporter(proj.LogLevelValue())
	return proj
}
