package config

import (
	"errors"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"garnet/common"
	"garnet/report"

	"github.com/kr/pretty"
)

func writeProject(t *testing.T, text string) string {
	t.Helper()

	dir := t.TempDir()
	if err := ioutil.WriteFile(filepath.Join(dir, common.ProjectFileName), []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	return dir
}

func TestLoad(t *testing.T) {
	dir := writeProject(t, `
name = "hello"
garnet-version = "`+common.GarnetVersion+`"
var-prefix = "g_"
log-level = "warn"
`)

	got, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := &Project{
		Name:          "hello",
		GarnetVersion: common.GarnetVersion,
		VarPrefix:     "g_",
		RuntimeHeader: common.DefaultRuntimeHeader,
		LogLevel:      "warn",
	}

	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Errorf("unexpected project:\n%s", strings.Join(diff, "\n"))
	}

	if got.LogLevelValue() != report.LogLevelWarn {
		t.Errorf("log level %d, want %d", got.LogLevelValue(), report.LogLevelWarn)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); !errors.Is(err, ErrNoProject) {
		t.Errorf("expected ErrNoProject, got %v", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name, text, msg string
	}{
		{"syntax", `name = `, "error parsing"},
		{"no name", `log-level = "warn"`, "missing project name"},
		{"bad name", `name = "my project"`, "valid identifier"},
		{"bad prefix", "name = \"p\"\nvar-prefix = \"1x\"", "var-prefix"},
		{"bad log level", "name = \"p\"\nlog-level = \"loud\"", "unknown log level"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(writeProject(t, test.text))
			if err == nil {
				t.Fatal("expected an error")
			}

			if !strings.Contains(err.Error(), test.msg) {
				t.Errorf("error %q does not mention %q", err, test.msg)
			}
		})
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	created, err := Init(dir, "demo")
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	if diff := pretty.Diff(created, loaded); len(diff) > 0 {
		t.Errorf("loaded project differs from the one written:\n%s", strings.Join(diff, "\n"))
	}

	if _, err := Init(dir, "demo"); err == nil {
		t.Error("overwrote an existing project file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "silent")
	t.Setenv(EnvVarPrefix, "env_")
	t.Setenv(EnvOutput, "")

	proj := Default("p")
	proj.Output = "out.c"
	proj.ApplyEnv()

	if proj.LogLevel != "silent" || proj.VarPrefix != "env_" {
		t.Errorf("environment not applied: %# v", pretty.Formatter(proj))
	}

	if proj.Output != "out.c" {
		t.Errorf("unset variable changed the output to %q", proj.Output)
	}
}
