// Command jactlc is the compiler-core CLI: it runs a script through the
// lexer, parser, and resolver, then emits bytecode via internal/codegen
// and internal/classgen, printing a disassembly (or, with -dump-ast /
// -dump-types, the intermediate forms instead).
//
// Grounded on the teacher's cmd/funxy/main.go, which assembles its own
// lex/parse/analyze/compile/run pipeline directly in main rather than
// through a CLI framework; this command does the same, using the
// standard flag package for its own flags (the teacher's cmd/funxy and
// cmd/lsp parse os.Args by hand, but flag is the idiomatic choice for a
// handful of independent boolean/string switches).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/checkpoint"
	"github.com/jactl-lang/jactl/internal/classgen"
	"github.com/jactl-lang/jactl/internal/codegen"
	"github.com/jactl-lang/jactl/internal/diagnostics"
	"github.com/jactl-lang/jactl/internal/jconfig"
	"github.com/jactl-lang/jactl/internal/jerr"
	"github.com/jactl-lang/jactl/internal/jtype"
	"github.com/jactl-lang/jactl/internal/parser"
	"github.com/jactl-lang/jactl/internal/resolver"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("jactlc", flag.ContinueOnError)
	var (
		debug          string
		out            string
		dumpAST        bool
		dumpTypes      bool
		checkpointPath string
	)
	fs.StringVar(&debug, "debug", "", "override jconfig's debug level (off|error|warn|trace)")
	fs.StringVar(&out, "o", "", "write disassembly/dump to this path instead of stdout")
	fs.BoolVar(&dumpAST, "dump-ast", false, "print the parsed statement tree instead of compiling")
	fs.BoolVar(&dumpTypes, "dump-types", false, "print resolved class/function types instead of disassembling")
	fs.StringVar(&checkpointPath, "checkpoint-store", "", "SQLite path for a checkpoint store to open (created if absent)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: jactlc [flags] <source-file>")
		return 2
	}
	sourcePath := fs.Arg(0)

	cfg, err := loadConfig(sourcePath, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jactlc: %v\n", err)
		return 1
	}

	out2 := os.Stdout
	var outFile *os.File
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jactlc: %v\n", err)
			return 1
		}
		defer f.Close()
		outFile = f
	}
	writer := pickWriter(outFile, out2)
	printer := diagnostics.NewPrinter(writer)

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jactlc: %v\n", err)
		return 1
	}

	if checkpointPath != "" {
		store, err := checkpoint.OpenStore(checkpointPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jactlc: opening checkpoint store: %v\n", err)
			return 1
		}
		defer store.Close()
	}

	prog, arena, err := parser.Parse(sourcePath, string(source))
	if err != nil {
		printCompileFailure(printer, err)
		return 1
	}

	if dumpAST {
		dumpProgram(writer, prog)
		return 0
	}

	r := resolver.New(arena)
	if err := r.Resolve(prog); err != nil {
		printCompileFailure(printer, err)
		return 1
	}

	if dumpTypes {
		dumpTypesOf(writer, prog)
		return 0
	}

	if cfg.Debug == "trace" {
		fmt.Fprintf(os.Stderr, "jactlc: compiling %s\n", sourcePath)
	}

	var hadErr bool
	for _, stmt := range prog.Statements {
		switch decl := stmt.(type) {
		case *ast.FuncDecl:
			chunk, errs := codegen.EmitFunc(decl, sourcePath, arena)
			hadErr = hadErr || printErrs(printer, errs)
			fmt.Fprintln(writer, codegen.Disassemble(chunk, decl.Name))
		case *ast.ClassDecl:
			class, errs := classgen.EmitClass(decl, sourcePath, arena)
			hadErr = hadErr || printErrs(printer, errs)
			dumpClass(writer, decl.Name, class)
		}
	}

	scriptChunk, errs := codegen.EmitScript(prog, arena)
	hadErr = hadErr || printErrs(printer, errs)
	fmt.Fprintln(writer, codegen.Disassemble(scriptChunk, "<script>"))

	if hadErr {
		return 1
	}
	return 0
}

// loadConfig merges an optional jactl.yaml discovered by walking up from
// sourcePath's directory with the -debug flag, which always wins.
func loadConfig(sourcePath, debugFlag string) (*jconfig.Config, error) {
	dir := "."
	if idx := lastSlash(sourcePath); idx >= 0 {
		dir = sourcePath[:idx]
	}
	cfg := jconfig.Default()
	if path, err := jconfig.FindConfig(dir); err == nil && path != "" {
		loaded, err := jconfig.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if debugFlag != "" {
		cfg.Debug = debugFlag
	}
	return cfg, nil
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

func pickWriter(preferred *os.File, fallback *os.File) *os.File {
	if preferred != nil {
		return preferred
	}
	return fallback
}

func printCompileFailure(p *diagnostics.Printer, err error) {
	p.PrintCompileErrors(err)
}

func printErrs(p *diagnostics.Printer, errs []error) bool {
	if len(errs) == 0 {
		return false
	}
	for _, e := range errs {
		if ce, ok := e.(*jerr.CompileError); ok {
			p.PrintCompileError(ce)
			continue
		}
		fmt.Fprintln(os.Stderr, e)
	}
	return true
}

func dumpProgram(w *os.File, prog *ast.Program) {
	for _, stmt := range prog.Statements {
		pos := stmt.Pos()
		fmt.Fprintf(w, "%T @ %s:%d:%d\n", stmt, pos.File, pos.Line, pos.Column)
	}
}

func dumpTypesOf(w *os.File, prog *ast.Program) {
	for _, stmt := range prog.Statements {
		switch decl := stmt.(type) {
		case *ast.FuncDecl:
			fmt.Fprintf(w, "func %s(", decl.Name)
			for i, p := range decl.Params {
				if i > 0 {
					fmt.Fprint(w, ", ")
				}
				fmt.Fprintf(w, "%s %s", p.Decl.Name, typeString(p.Decl.DeclaredType))
			}
			fmt.Fprintf(w, ") isAsync=%v\n", decl.IsAsync)
		case *ast.ClassDecl:
			dumpClassTypes(w, decl)
		}
	}
}

func dumpClassTypes(w *os.File, decl *ast.ClassDecl) {
	desc := decl.Descriptor
	if desc == nil {
		fmt.Fprintf(w, "class %s (unresolved)\n", decl.Name)
		return
	}
	fmt.Fprintf(w, "class %s\n", desc.Internal)
	for _, f := range desc.Fields {
		mandatory := ""
		if !f.HasDefault {
			mandatory = " (mandatory)"
		}
		fmt.Fprintf(w, "  %s %s%s\n", f.Name, typeString(f.Type), mandatory)
	}
	for _, inner := range decl.Inner {
		dumpClassTypes(w, inner)
	}
}

func typeString(t jtype.Type) string {
	if t == nil {
		return "var"
	}
	return t.String()
}

func dumpClass(w *os.File, name string, class *classgen.Class) {
	if class == nil {
		return
	}
	for methodName, chunk := range class.Methods {
		fmt.Fprintln(w, codegen.Disassemble(chunk, name+"."+methodName))
	}
	for _, inner := range class.Inner {
		dumpClass(w, name, inner)
	}
}
