// Package config loads and creates Garnet project files.
package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"

	"garnet/common"
	"garnet/report"

	"github.com/pelletier/go-toml"
)

// Project is a Garnet project as it is encoded in TOML.
type Project struct {
	Name          string `toml:"name"`
	GarnetVersion string `toml:"garnet-version"`

	// Output is the path of the generated C file.  It defaults to the input
	// path with a `.c` extension.
	Output string `toml:"output,omitempty"`

	// VarPrefix is prepended to every synthesized C name.
	VarPrefix string `toml:"var-prefix"`

	// RuntimeHeader is the header declaring the runtime entry points.
	RuntimeHeader string `toml:"runtime-header"`

	LogLevel string `toml:"log-level"`
}

// Default returns the project used when there is no project file.
func Default(name string) *Project {
	return &Project{
		Name:          name,
		GarnetVersion: common.GarnetVersion,
		VarPrefix:     common.DefaultVarPrefix,
		RuntimeHeader: common.DefaultRuntimeHeader,
		LogLevel:      "verbose",
	}
}

// ErrNoProject is returned by Load if the directory contains no project file.
var ErrNoProject = errors.New("no project file")

// Load loads and validates the project file in the directory dir.  Settings the
// file leaves out take their default values.
func Load(dir string) (*Project, error) {
	path := filepath.Join(dir, common.ProjectFileName)

	buff, err := ioutil.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoProject
	} else if err != nil {
		return nil, fmt.Errorf("error reading project file at `%s`: %w", path, err)
	}

	proj := Default("")
	if err := toml.Unmarshal(buff, proj); err != nil {
		return nil, fmt.Errorf("error parsing project file at `%s`: %w", path, err)
	}

	if err := proj.Validate(path); err != nil {
		return nil, err
	}

	if proj.GarnetVersion != common.GarnetVersion {
		report.ReportCompileWarning(
			path,
			nil,
			"version of project `%s` (v%s) does not match current garnet version (v%s)",
			proj.Name,
			proj.GarnetVersion,
			common.GarnetVersion,
		)
	}

	return proj, nil
}

// identPattern matches the names valid as a project name or name prefix.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that the project settings are valid.  The path names the
// source of the settings in error messages.
func (p *Project) Validate(path string) error {
	if p.Name == "" {
		return fmt.Errorf("project file at `%s`: missing project name", path)
	}

	if !identPattern.MatchString(p.Name) {
		return fmt.Errorf("project file at `%s`: project name must be a valid identifier", path)
	}

	if p.VarPrefix != "" && !identPattern.MatchString(p.VarPrefix) {
		return fmt.Errorf("project file at `%s`: var-prefix must be a valid C identifier", path)
	}

	if _, ok := report.LogLevelFromName(p.LogLevel); !ok {
		return fmt.Errorf("project file at `%s`: unknown log level `%s`", path, p.LogLevel)
	}

	return nil
}

// Init writes a new project file named name into the directory dir.  It fails
// if the directory already has a project file.
func Init(dir, name string) (*Project, error) {
	proj := Default(name)
	path := filepath.Join(dir, common.ProjectFileName)

	if err := proj.Validate(path); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("project file already exists at `%s`", path)
	}

	buff, err := toml.Marshal(proj)
	if err != nil {
		return nil, fmt.Errorf("error encoding project file: %w", err)
	}

	if err := ioutil.WriteFile(path, buff, 0644); err != nil {
		return nil, fmt.Errorf("error writing project file at `%s`: %w", path, err)
	}

	return proj, nil
}

// LogLevelValue returns the project's log level as a reporter log level.
func (p *Project) LogLevelValue() int {
	lvl, ok := report.LogLevelFromName(p.LogLevel)
	if !ok {
		return report.LogLevelVerbose
	}

	return lvl
}
