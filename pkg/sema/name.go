// Package sema implements name analysis (spec §4.4) and type analysis
// (spec §4.5): a uniform switch-dispatch walk over the concrete AST
// node types, in the style of the teacher's HandleStatement/
// HandleExpression dispatch (pkg/jack/lowering.go), rather than a
// per-node visitor interface (spec §9 DESIGN NOTES).
package sema

import (
	"drewnomars.dev/compiler/pkg/ast"
	"drewnomars.dev/compiler/pkg/diag"
	"drewnomars.dev/compiler/pkg/source"
	"drewnomars.dev/compiler/pkg/symtab"
)

// nameWalker collects every name-resolution error it finds (spec §7:
// "Name analysis attempts to report multiple errors by continuing
// traversal on siblings"), rather than stopping at the first one.
type nameWalker struct {
	table *symtab.Table
	doc   *source.Map
	errs  []error
}

// Analyze runs name analysis over every top-level declaration in prog,
// binding each identifier use to a symtab entry. It always traverses
// the whole program and returns every error found; the caller decides
// whether any error means the pass failed (spec §5/§7).
func Analyze(prog *ast.Program, table *symtab.Table, doc *source.Map) []error {
	w := &nameWalker{table: table, doc: doc}
	for _, d := range prog.Decls {
		w.visitDecl(d)
	}
	return w.errs
}

func (w *nameWalker) fail(r source.Range, msg string) {
	w.errs = append(w.errs, diag.New(w.doc, r, msg))
}

func (w *nameWalker) visitDecl(d ast.Decl) {
	switch n := d.(type) {
	case *ast.ClassDecl:
		if _, err := w.table.AddClass(n.Name.Name); err != nil {
			w.fail(n.Name.Range, err.Error())
			// AddClass pushed nothing; push a throwaway scope so the
			// members still get analyzed and ExitScope below stays balanced.
			w.table.EnterScope()
		}
		for _, m := range n.Members {
			w.visitDecl(m)
		}
		w.table.ExitScope()

	case *ast.FuncDecl:
		formalTypes := make([]ast.Type, len(n.Formals))
		for i, f := range n.Formals {
			formalTypes[i] = f.DeclType
		}
		entry := &symtab.FunctionEntry{Formals: formalTypes, Ret: n.RetType}
		if err := w.table.Add(n.Name.Name, entry); err != nil {
			w.fail(n.Name.Range, err.Error())
		}
		w.table.EnterScope()
		for _, f := range n.Formals {
			w.visitFormal(f)
		}
		for _, s := range n.Body {
			w.visitStmt(s)
		}
		w.table.ExitScope()

	case *ast.VarDecl:
		w.visitVarDecl(n)
	}
}

// visitFormal implements "Formal.visit: insert Variable(type)".
func (w *nameWalker) visitFormal(f *ast.VarDecl) {
	if err := w.table.Add(f.Name.Name, &symtab.VariableEntry{Type: f.DeclType}); err != nil {
		w.fail(f.Name.Range, err.Error())
	}
}

// visitVarDecl implements "VariableDeclaration.exit": the initializer
// (if any) is analyzed first (it is the node's only child), then the
// declared type is validated and the variable inserted.
func (w *nameWalker) visitVarDecl(d *ast.VarDecl) {
	if d.Init != nil {
		w.visitExpr(d.Init)
	}

	if d.DeclType.IsClass() {
		entry, err := w.table.Link(d.DeclType.ClassName)
		if err != nil {
			w.fail(d.Range, "Invalid type in declaration")
			return
		}
		if _, ok := entry.(*symtab.ClassEntry); !ok {
			w.fail(d.Range, "Invalid type in declaration")
			return
		}
	}

	if err := w.table.Add(d.Name.Name, &symtab.VariableEntry{Type: d.DeclType}); err != nil {
		w.fail(d.Name.Range, err.Error())
	}
}

func (w *nameWalker) visitBlock(stmts []ast.Stmt) {
	w.table.EnterScope()
	for _, s := range stmts {
		w.visitStmt(s)
	}
	w.table.ExitScope()
}

func (w *nameWalker) visitStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.AssignStmt:
		w.visitLocation(n.Lhs)
		w.visitExpr(n.Rhs)
	case *ast.CallStmt:
		w.visitExpr(n.Call)
	case *ast.IncStmt:
		w.visitLocation(n.Operand)
	case *ast.DecStmt:
		w.visitLocation(n.Operand)
	case *ast.ExitStmt:
		// no children
	case *ast.GiveStmt:
		w.visitExpr(n.Value)
	case *ast.TakeStmt:
		w.visitLocation(n.Target)
	case *ast.IfStmt:
		w.visitExpr(n.Cond)
		w.visitBlock(n.Then)
		if n.Else != nil {
			w.visitBlock(n.Else)
		}
	case *ast.WhileStmt:
		w.visitExpr(n.Cond)
		w.visitBlock(n.Body)
	case *ast.ReturnStmt:
		if n.Value != nil {
			w.visitExpr(n.Value)
		}
	case *ast.VarDeclStmt:
		w.visitVarDecl(n.Decl)
	}
}

func (w *nameWalker) visitExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.BoolLit, *ast.IntLit, *ast.StringLit, *ast.MagicLit:
		// literals: no children
	case *ast.UnaryExpr:
		w.visitExpr(n.Operand)
	case *ast.BinaryExpr:
		w.visitExpr(n.Lhs)
		w.visitExpr(n.Rhs)
	case *ast.LocationExpr:
		w.visitLocation(n.Loc)
	case *ast.CallExpr:
		w.visitLocation(n.Callee)
		for _, a := range n.Args {
			w.visitExpr(a)
		}
	}
}

// visitLocation implements "Location.visit" (spec §4.4), grounded on
// original_source/src/ast/nodes/location.rs's NameAnalysis::visit:
// resolve the current link (globally, or via the class member lookup
// when an enclosing class was propagated from the previous link),
// then propagate the resolved entry as the next link's enclosing
// class before moving on to that link.
func (w *nameWalker) visitLocation(loc *ast.Location) {
	cur := loc
	for cur != nil {
		var entry ast.SymbolEntry
		var err error
		if cur.EnclosingClass == nil {
			entry, err = w.table.Link(cur.Link)
		} else {
			entry, err = w.table.GetClassMember(cur.EnclosingClass, cur.Link)
		}
		if err != nil {
			w.fail(cur.Range, err.Error())
			return
		}
		cur.Entry = entry
		cur.IsLocal = cur.EnclosingClass == nil && w.table.IsLocal(cur.Link)
		if cur.NextLink != nil {
			cur.NextLink.EnclosingClass = entry
		}
		cur = cur.NextLink
	}
}
