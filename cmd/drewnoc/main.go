package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"drewnomars.dev/compiler/pkg/parser"
	"drewnomars.dev/compiler/pkg/sema"
	"drewnomars.dev/compiler/pkg/source"
	"drewnomars.dev/compiler/pkg/symtab"
	"drewnomars.dev/compiler/pkg/tac"
	"drewnomars.dev/compiler/pkg/unparse"
	"drewnomars.dev/compiler/pkg/x64"

	"github.com/teris-io/cli"
)

var Description = strings.ReplaceAll(`
The Drewno Mars compiler translates a single source file through parsing, name
analysis, type analysis, TAC lowering, and x86-64 codegen. Each pass only runs
once every earlier one it depends on has succeeded.
`, "\n", " ")

var Compiler = cli.New(Description).
	WithArg(cli.NewArg("input", "The source file to compile")).
	WithOption(cli.NewOption("parse", "Run the parser; error on syntax failure").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("unparse", "Run parse + plain unparse to <path>").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("named-unparse", "Run parse + name analysis; emit named unparse to <path>").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("check-types", "Run parse + name + type analysis").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("ac3-IR-generation", "Also lower to TAC; write the textual quad stream to <path>").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("output-assembly", "Also produce x86-64 assembly at <path>").
		WithType(cli.TypeString)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "ERROR: not enough arguments provided, use --help\n")
		return -1
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: unable to open input file: %s\n", err)
		return -1
	}
	doc := source.NewMap(string(content))

	p := parser.NewParser(bytes.NewReader(content))
	prog, err := p.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}

	unparsePath, doUnparse := options["unparse"]
	if doUnparse {
		if err := writeFile(unparsePath, unparse.Plain(prog)); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: unable to write unparse output: %s\n", err)
			return -1
		}
	}

	namedPath, doNamed := options["named-unparse"]
	_, doCheckTypes := options["check-types"]
	tacPath, doTAC := options["ac3-IR-generation"]
	asmPath, doAsm := options["output-assembly"]

	if !doNamed && !doCheckTypes && !doTAC && !doAsm {
		return 0
	}

	table := symtab.New()
	if errs := sema.Analyze(prog, table, doc); len(errs) > 0 {
		printErrors(errs)
		return -1
	}

	if doNamed {
		if err := writeFile(namedPath, unparse.Named(prog)); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: unable to write named-unparse output: %s\n", err)
			return -1
		}
	}

	if !doCheckTypes && !doTAC && !doAsm {
		return 0
	}

	if errs := sema.CheckTypes(prog, table, doc); len(errs) > 0 {
		printErrors(errs)
		return -1
	}

	if !doTAC && !doAsm {
		return 0
	}

	tacProg, err := tac.Lower(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: unable to complete 'lowering' pass: %s\n", err)
		return -1
	}

	if doTAC {
		if err := writeFile(tacPath, quadStreamText(tacProg)); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: unable to write TAC output: %s\n", err)
			return -1
		}
	}

	if !doAsm {
		return 0
	}

	asmText, err := x64.Generate(tacProg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: unable to complete 'codegen' pass: %s\n", err)
		return -1
	}
	if err := writeFile(asmPath, asmText); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: unable to write assembly output: %s\n", err)
		return -1
	}

	return 0
}

func quadStreamText(prog *tac.Program) string {
	var b strings.Builder
	for _, q := range prog.Quads {
		b.WriteString(q.String())
	}
	return b.String()
}

func printErrors(errs []error) {
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e)
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func main() { os.Exit(Compiler.Run(os.Args, os.Stdout)) }
