package cmd

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"garnet/config"
	"garnet/report"
)

func writeTree(t *testing.T, text string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "main.sexp")
	if err := ioutil.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestCompilerWritesC(t *testing.T) {
	report.InitReporter(report.LogLevelSilent)

	input := writeTree(t, `s(:call, nil, :puts, s(:str, "hi"))`)
	proj := config.Default("demo")
	proj.VarPrefix = "g_"

	c := NewCompiler(input, proj)
	if !c.Compile() {
		t.Fatal("compilation failed")
	}

	want := strings.TrimSuffix(input, ".sexp") + ".c"
	if c.outputPath != want {
		t.Errorf("output path %s, want %s", c.outputPath, want)
	}

	out, err := ioutil.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}

	for _, line := range []string{`#include "natalie.h"`, `nat_string(env, "hi")`, "NatObject *g_"} {
		if !strings.Contains(string(out), line) {
			t.Errorf("missing %q in:\n%s", line, out)
		}
	}
}

func TestCompilerOutputFromProject(t *testing.T) {
	report.InitReporter(report.LogLevelSilent)

	input := writeTree(t, `s(:lit, 1)`)
	proj := config.Default("demo")
	proj.Output = "out.ir"

	c := NewCompiler(input, proj)
	c.emitIR = true
	if !c.Compile() {
		t.Fatal("compilation failed")
	}

	out, err := ioutil.ReadFile(filepath.Join(filepath.Dir(input), "out.ir"))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(out), "nat_integer") {
		t.Errorf("expected the lowered IR, got:\n%s", out)
	}
}

func TestCompilerStopsOnError(t *testing.T) {
	report.InitReporter(report.LogLevelSilent)

	input := writeTree(t, `s(:break, nil)`)

	c := NewCompiler(input, config.Default("demo"))
	if c.Compile() {
		t.Fatal("compilation succeeded")
	}

	if !report.AnyErrors() {
		t.Error("error was not reported")
	}

	if _, err := os.Stat(c.outputPath); !os.IsNotExist(err) {
		t.Errorf("output written despite the error")
	}
}
