package cmd

import (
	"errors"
	"fmt"
	"garnet/build"
	"garnet/common"
	"garnet/config"
	"garnet/lower"
	"garnet/report"
	"garnet/syntax"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kr/pretty"
	"github.com/peterh/liner"
)

const (
	promptMain = "garnet> "
	promptCont = "   ...> "

	historyFileName = ".garnet_history"
)

// replMode selects what the REPL prints for each syntax tree.
type replMode int

const (
	modeC    replMode = iota // generated C
	modeIR                   // lowered IR
	modeTree                 // the parsed syntax tree
)

var replModeNames = map[string]replMode{
	":c":    modeC,
	":ir":   modeIR,
	":tree": modeTree,
}

// replSession holds the state of one REPL session.
type replSession struct {
	proj *config.Project
	mode replMode
}

// eval compiles a single syntax tree and returns the text to display.  Each
// tree gets a fresh naming context.
func (s *replSession) eval(src string) (string, error) {
	root, err := syntax.ParseString(src)
	if err != nil {
		return "", err
	}

	ctx := common.NewContext(s.proj.VarPrefix)

	switch s.mode {
	case modeIR:
		lowered, err := lower.Lower(ctx, root)
		if err != nil {
			return "", err
		}

		return lowered.Pretty(), nil
	case modeTree:
		return pretty.Sprintf("%# v", root), nil
	default:
		return build.Compile(ctx, root, s.proj.RuntimeHeader)
	}
}

// command runs a REPL command.  It returns a message to display and whether
// the session should end.
func (s *replSession) command(line string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(line))
	if name == ":quit" {
		return "", true
	}

	if mode, ok := replModeNames[name]; ok {
		s.mode = mode
		return "", false
	}

	return "unknown command: try :c, :ir, :tree or :quit", false
}

// execReplCommand runs the interactive REPL until the input ends.
func execReplCommand(logLevel string) {
	wd, err := os.Getwd()
	if err != nil {
		report.ReportFatal("error getting working directory: %s", err)
	}

	s := &replSession{proj: loadProject(wd, logLevel)}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFileName)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	for {
		src, ok := readUntilComplete(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}

		if strings.HasPrefix(src, ":") {
			msg, quit := s.command(src)
			if quit {
				break
			}

			if msg != "" {
				fmt.Println(msg)
			}

			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		text, err := s.eval(src)
		if err != nil {
			report.DisplayErrorMessage("error", err)
			continue
		}

		fmt.Println(strings.TrimRight(text, "\n"))
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
}

// readUntilComplete reads lines until they form a complete syntax tree or a
// syntax error that more input cannot fix.  It returns false at the end of
// input.
func readUntilComplete(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}

		if errors.Is(err, io.EOF) {
			return "", false
		} else if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		} else if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || strings.TrimSpace(src) == "" {
			return src, true
		}

		if _, err := syntax.ParseString(src); err != nil && syntax.IsIncomplete(err) {
			continue
		}

		return src, true
	}
}
