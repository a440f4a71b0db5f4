package cmd

import (
	"garnet/ast"
	"garnet/common"
	"garnet/config"
	"garnet/generate"
	"garnet/ir"
	"garnet/lower"
	"garnet/report"
	"garnet/syntax"
	"io/ioutil"
	"path/filepath"
	"strings"
)

// Compiler compiles a single serialized syntax tree into a C translation unit.
type Compiler struct {
	// inputPath is the path to the serialized syntax tree.
	inputPath string

	// outputPath is the path the generated text is written to.
	outputPath string

	// emitIR indicates that the lowered IR should be written instead of C.
	emitIR bool

	// project holds the settings of the project the input belongs to.
	project *config.Project

	// ctx is the naming context shared by lowering and generation.
	ctx *common.Context
}

// NewCompiler creates a new compiler for the syntax tree at inputPath.  The
// output path is taken from the project or else derived from the input path.
func NewCompiler(inputPath string, proj *config.Project) *Compiler {
	outputPath := proj.Output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".c"
	} else if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(filepath.Dir(inputPath), outputPath)
	}

	return &Compiler{
		inputPath:  inputPath,
		outputPath: outputPath,
		project:    proj,
		ctx:        common.NewContext(proj.VarPrefix),
	}
}

// Compile runs every phase of compilation.  It returns whether compilation
// succeeded: errors are reported as they occur.
func (c *Compiler) Compile() bool {
	report.ReportCompileHeader(common.GarnetVersion, c.inputPath)

	root, ok := c.read()
	if !ok {
		return false
	}

	lowered, ok := c.lower(root)
	if !ok {
		return false
	}

	if c.emitIR {
		return c.write(lowered.Pretty() + "\n")
	}

	text, ok := c.generate(lowered)
	if !ok {
		return false
	}

	return c.write(text)
}

// read runs the reading phase: parsing the serialized syntax tree.
func (c *Compiler) read() (*ast.Node, bool) {
	report.ReportBeginPhase("Reading")

	if filepath.Ext(c.inputPath) != common.ASTFileExt {
		report.ReportCompileWarning(c.inputPath, nil, "syntax tree files should end in `%s`", common.ASTFileExt)
	}

	root, err := syntax.ParseFile(c.inputPath)
	if err != nil {
		report.ReportError(c.inputPath, err)
		return nil, false
	}

	return root, true
}

// lower runs the lowering phase.
func (c *Compiler) lower(root *ast.Node) (*ir.Node, bool) {
	report.ReportBeginPhase("Lowering")

	lowered, err := lower.Lower(c.ctx, root)
	if err != nil {
		report.ReportError(c.inputPath, err)
		return nil, false
	}

	return lowered, true
}

// generate runs the generation phase.
func (c *Compiler) generate(root *ir.Node) (string, bool) {
	report.ReportBeginPhase("Generating")

	text, err := generate.Generate(c.ctx, root, c.project.RuntimeHeader)
	if err != nil {
		report.ReportError(c.inputPath, err)
		return "", false
	}

	return text, true
}

// write runs the writing phase.  The output file is only written once the
// whole translation unit has been generated.
func (c *Compiler) write(text string) bool {
	report.ReportBeginPhase("Writing")

	if err := ioutil.WriteFile(c.outputPath, []byte(text), 0644); err != nil {
		report.ReportStdError(c.outputPath, err)
		return false
	}

	return true
}
