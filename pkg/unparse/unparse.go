// Package unparse implements the compiler's debug pretty-printer (spec
// §4.2, §4.8): a plain mode that reproduces valid source syntax with
// canonical indentation, and a named mode that additionally annotates
// every identifier use with its resolved type and every function
// declaration with its signature.
//
// Both modes walk the AST with the same switch-on-concrete-type
// dispatch style pkg/sema uses, rather than a visitor interface —
// styled after the teacher's "emit a string per node, join with
// newlines" habit in pkg/vm/codegen.go, since no pack repo unparses
// source back out of an AST.
package unparse

import (
	"fmt"
	"strings"

	"drewnomars.dev/compiler/pkg/ast"
	"drewnomars.dev/compiler/pkg/symtab"
)

// printer holds the one knob that distinguishes the two modes: whether
// identifier uses and function names get annotated.
type printer struct {
	named bool
	out   strings.Builder
}

// Plain reproduces prog as syntactically valid source, one tab per
// nesting level, with no annotations.
func Plain(prog *ast.Program) string {
	p := &printer{named: false}
	p.program(prog)
	return p.out.String()
}

// Named reproduces prog like Plain but appends `{type}` after every
// identifier use and `{(formalTypes)->retType}` after every function
// declaration's name. Name analysis must have already run so that
// Location.Entry and VarDecl/FuncDecl types are resolved; Named is
// informational only (spec §4.2).
func Named(prog *ast.Program) string {
	p := &printer{named: true}
	p.program(prog)
	return p.out.String()
}

func (p *printer) program(prog *ast.Program) {
	for _, d := range prog.Decls {
		p.decl(d, 0)
		p.out.WriteString("\n")
	}
}

func indent(level int) string { return strings.Repeat("\t", level) }

func (p *printer) decl(d ast.Decl, level int) {
	switch n := d.(type) {
	case *ast.ClassDecl:
		fmt.Fprintf(&p.out, "%s%s : class {\n", indent(level), n.Name.Name)
		for _, m := range n.Members {
			p.decl(m, level+1)
		}
		fmt.Fprintf(&p.out, "%s}\n", indent(level))
	case *ast.FuncDecl:
		p.funcDecl(n, level)
	case *ast.VarDecl:
		p.varDecl(n, level)
	}
}

func (p *printer) funcDecl(n *ast.FuncDecl, level int) {
	formals := make([]string, len(n.Formals))
	formalTypes := make([]string, len(n.Formals))
	for i, f := range n.Formals {
		formals[i] = fmt.Sprintf("%s : %s", f.Name.Name, f.DeclType.String())
		formalTypes[i] = f.DeclType.String()
	}
	fmt.Fprintf(&p.out, "%s%s%s : (%s) %s {\n",
		indent(level), n.Name.Name,
		p.funcAnnotation(formalTypes, n.RetType),
		strings.Join(formals, ", "), n.RetType.String())
	for _, s := range n.Body {
		p.stmt(s, level+1)
	}
	fmt.Fprintf(&p.out, "%s}\n", indent(level))
}

func (p *printer) funcAnnotation(formalTypes []string, ret ast.Type) string {
	if !p.named {
		return ""
	}
	return fmt.Sprintf("{(%s)->%s}", strings.Join(formalTypes, ","), ret.String())
}

func (p *printer) varDecl(n *ast.VarDecl, level int) {
	fmt.Fprintf(&p.out, "%s%s : %s", indent(level), n.Name.Name, n.DeclType.String())
	if n.Init != nil {
		p.out.WriteString(" = ")
		p.expr(n.Init)
	}
	p.out.WriteString(";\n")
}

func (p *printer) stmt(s ast.Stmt, level int) {
	if _, ok := s.(*ast.VarDeclStmt); ok {
		// varDecl writes its own indent; avoid doubling it here.
		p.varDecl(s.(*ast.VarDeclStmt).Decl, level)
		return
	}
	p.out.WriteString(indent(level))
	switch n := s.(type) {
	case *ast.AssignStmt:
		p.location(n.Lhs)
		p.out.WriteString(" = ")
		p.expr(n.Rhs)
		p.out.WriteString(";\n")
	case *ast.CallStmt:
		p.expr(n.Call)
		p.out.WriteString(";\n")
	case *ast.IncStmt:
		p.location(n.Operand)
		p.out.WriteString("++;\n")
	case *ast.DecStmt:
		p.location(n.Operand)
		p.out.WriteString("--;\n")
	case *ast.ExitStmt:
		p.out.WriteString("\"today I don't feel like doing any work\";\n")
	case *ast.GiveStmt:
		p.out.WriteString("give ")
		p.expr(n.Value)
		p.out.WriteString(";\n")
	case *ast.TakeStmt:
		p.out.WriteString("take ")
		p.location(n.Target)
		p.out.WriteString(";\n")
	case *ast.IfStmt:
		p.out.WriteString("if (")
		p.expr(n.Cond)
		p.out.WriteString(") {\n")
		for _, s := range n.Then {
			p.stmt(s, level+1)
		}
		if n.Else != nil {
			fmt.Fprintf(&p.out, "%s} else {\n", indent(level))
			for _, s := range n.Else {
				p.stmt(s, level+1)
			}
		}
		fmt.Fprintf(&p.out, "%s}\n", indent(level))
	case *ast.WhileStmt:
		p.out.WriteString("while (")
		p.expr(n.Cond)
		p.out.WriteString(") {\n")
		for _, s := range n.Body {
			p.stmt(s, level+1)
		}
		fmt.Fprintf(&p.out, "%s}\n", indent(level))
	case *ast.ReturnStmt:
		p.out.WriteString("return")
		if n.Value != nil {
			p.out.WriteString(" ")
			p.expr(n.Value)
		}
		p.out.WriteString(";\n")
	}
}

func (p *printer) expr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.BoolLit:
		if n.Value {
			p.out.WriteString("true")
		} else {
			p.out.WriteString("false")
		}
	case *ast.IntLit:
		fmt.Fprintf(&p.out, "%d", n.Value)
	case *ast.StringLit:
		fmt.Fprintf(&p.out, "%q", n.Value)
	case *ast.MagicLit:
		p.out.WriteString("24Kmagic")
	case *ast.UnaryExpr:
		p.out.WriteString(unaryOpText(n.Op))
		p.expr(n.Operand)
	case *ast.BinaryExpr:
		p.expr(n.Lhs)
		fmt.Fprintf(&p.out, " %s ", binaryOpText(n.Op))
		p.expr(n.Rhs)
	case *ast.LocationExpr:
		p.location(n.Loc)
	case *ast.CallExpr:
		p.location(n.Callee)
		p.out.WriteString("(")
		for i, a := range n.Args {
			if i > 0 {
				p.out.WriteString(", ")
			}
			p.expr(a)
		}
		p.out.WriteString(")")
	}
}

// location prints the dotted chain and, in named mode, the resolved
// type or signature of its last link (spec §4.2 "annotate each
// identifier use with {type}").
func (p *printer) location(loc *ast.Location) {
	cur := loc
	p.out.WriteString(cur.Link)
	for cur.NextLink != nil {
		cur = cur.NextLink
		p.out.WriteString("--")
		p.out.WriteString(cur.Link)
	}
	if p.named {
		p.out.WriteString(annotationFor(cur.Entry))
	}
}

func annotationFor(entry ast.SymbolEntry) string {
	switch e := entry.(type) {
	case *symtab.VariableEntry:
		return "{" + e.Type.String() + "}"
	case *symtab.FunctionEntry:
		formals := make([]string, len(e.Formals))
		for i, f := range e.Formals {
			formals[i] = f.String()
		}
		return fmt.Sprintf("{(%s)->%s}", strings.Join(formals, ","), e.Ret.String())
	case *symtab.ClassEntry:
		return "{class}"
	default:
		return ""
	}
}

func unaryOpText(op ast.UnaryOp) string {
	switch op {
	case ast.UnaryNeg:
		return "-"
	default:
		return "not "
	}
}

func binaryOpText(op ast.BinaryOp) string {
	switch op {
	case ast.BinAdd:
		return "+"
	case ast.BinSub:
		return "-"
	case ast.BinMul:
		return "*"
	case ast.BinDiv:
		return "/"
	case ast.BinLt:
		return "<"
	case ast.BinLe:
		return "<="
	case ast.BinGt:
		return ">"
	case ast.BinGe:
		return ">="
	case ast.BinEq:
		return "=="
	case ast.BinNe:
		return "!="
	case ast.BinAnd:
		return "and"
	default:
		return "or"
	}
}
