package sema

import (
	"errors"

	"drewnomars.dev/compiler/pkg/ast"
	"drewnomars.dev/compiler/pkg/diag"
	"drewnomars.dev/compiler/pkg/source"
	"drewnomars.dev/compiler/pkg/symtab"
)

// typeWalker implements spec §4.5: a read-only walk computing a Kind
// per expression/location. Unlike name analysis, type analysis stops
// at the first error within a declaration and continues with the next
// declaration (spec §7) — every check function below returns as soon
// as an error occurs, rather than collecting one.
type typeWalker struct {
	table *symtab.Table
	doc   *source.Map

	// retType is the return type of the function currently being
	// checked, consulted by checkStmt for ReturnStmt.
	retType ast.Type
}

// CheckTypes runs type analysis over every top-level declaration in
// prog. It returns at most one error per declaration (spec §7).
func CheckTypes(prog *ast.Program, table *symtab.Table, doc *source.Map) []error {
	w := &typeWalker{table: table, doc: doc}
	var errs []error
	for _, d := range prog.Decls {
		if err := w.checkDecl(d); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (w *typeWalker) fail(r source.Range, msg string) error {
	return diag.New(w.doc, r, msg)
}

func (w *typeWalker) checkDecl(d ast.Decl) error {
	switch n := d.(type) {
	case *ast.ClassDecl:
		for _, m := range n.Members {
			if err := w.checkDecl(m); err != nil {
				return err
			}
		}
	case *ast.FuncDecl:
		prevRet := w.retType
		w.retType = n.RetType
		defer func() { w.retType = prevRet }()
		for _, s := range n.Body {
			if err := w.checkStmt(s); err != nil {
				return err
			}
		}
	case *ast.VarDecl:
		return w.checkVarDecl(n)
	}
	return nil
}

func (w *typeWalker) checkVarDecl(d *ast.VarDecl) error {
	if d.Init == nil {
		return nil
	}
	kind, err := w.exprEntry(d.Init)
	if err != nil {
		return err
	}
	v, ok := kind.(*symtab.VariableEntry)
	if !ok {
		return w.fail(d.Init.ExprRange(), "Invalid assignment operand")
	}
	if !v.Type.Equivalent(d.DeclType) {
		return w.fail(d.Init.ExprRange(), "Invalid assignment operation")
	}
	return nil
}

func (w *typeWalker) checkStmtList(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := w.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (w *typeWalker) checkStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.AssignStmt:
		return w.checkAssign(n.Lhs, n.Rhs, n.Range)

	case *ast.CallStmt:
		_, err := w.exprEntry(n.Call)
		return err

	case *ast.IncStmt:
		return w.checkIncDec(n.Operand, n.Range)
	case *ast.DecStmt:
		return w.checkIncDec(n.Operand, n.Range)

	case *ast.ExitStmt:
		return nil

	case *ast.GiveStmt:
		kind, err := w.exprEntry(n.Value)
		if err != nil {
			return err
		}
		v, ok := kind.(*symtab.VariableEntry)
		if !ok {
			switch kind.EntryKind() {
			case ast.EntryFunction:
				return w.fail(n.Range, "Attempt to output a function")
			default:
				return w.fail(n.Range, "Attempt to output a class")
			}
		}
		if v.Type.IsVoid() {
			return w.fail(n.Range, "Attempt to output a void")
		}
		return nil

	case *ast.TakeStmt:
		entry := n.Target.GetEntry()
		if entry == nil {
			return w.fail(n.Range, "Undeclared identifier")
		}
		switch entry.EntryKind() {
		case ast.EntryClass:
			return w.fail(n.Range, "Attempt to assign user input to class")
		case ast.EntryFunction:
			return w.fail(n.Range, "Attempt to assign user input to function")
		}
		return nil

	case *ast.IfStmt:
		if err := w.checkCondition(n.Cond); err != nil {
			return err
		}
		if err := w.checkStmtList(n.Then); err != nil {
			return err
		}
		if n.Else != nil {
			return w.checkStmtList(n.Else)
		}
		return nil

	case *ast.WhileStmt:
		if err := w.checkCondition(n.Cond); err != nil {
			return err
		}
		return w.checkStmtList(n.Body)

	case *ast.ReturnStmt:
		return w.checkReturn(n)

	case *ast.VarDeclStmt:
		return w.checkVarDecl(n.Decl)
	}
	return nil
}

func (w *typeWalker) checkCondition(cond ast.Expr) error {
	kind, err := w.exprEntry(cond)
	if err != nil {
		return err
	}
	v, ok := kind.(*symtab.VariableEntry)
	if !ok || v.Type.IsClass() || v.Type.Prim != ast.PrimBool {
		return w.fail(cond.ExprRange(), "Non-bool expression used as a condition")
	}
	return nil
}

func (w *typeWalker) checkAssign(lhs *ast.Location, rhs ast.Expr, r source.Range) error {
	lhsEntry := lhs.GetEntry()
	lv, ok := lhsEntry.(*symtab.VariableEntry)
	if !ok || lv.Type.IsPerfect() {
		return w.fail(r, "Non-Lval assignment")
	}
	kind, err := w.exprEntry(rhs)
	if err != nil {
		return err
	}
	rv, ok := kind.(*symtab.VariableEntry)
	if !ok {
		return w.fail(rhs.ExprRange(), "Invalid assignment operand")
	}
	if !rv.Type.Equivalent(lv.Type) {
		return w.fail(rhs.ExprRange(), "Invalid assignment operation")
	}
	return nil
}

// checkIncDec implements the Open Question decision recorded in
// DESIGN.md: a perfect int is rejected, consistent with assignment.
func (w *typeWalker) checkIncDec(loc *ast.Location, r source.Range) error {
	entry := loc.GetEntry()
	v, ok := entry.(*symtab.VariableEntry)
	if !ok || v.Type.IsPerfect() {
		return w.fail(r, "Non-Lval assignment")
	}
	if v.Type.IsClass() || v.Type.Prim != ast.PrimInt {
		return w.fail(r, "Arithmetic operator applied to invalid operand")
	}
	return nil
}

func (w *typeWalker) checkReturn(n *ast.ReturnStmt) error {
	if w.retType.IsVoid() {
		if n.Value != nil {
			return w.fail(n.Range, "Return with a value in void function")
		}
		return nil
	}
	if n.Value == nil {
		return w.fail(n.Range, "Missing return value")
	}
	kind, err := w.exprEntry(n.Value)
	if err != nil {
		return err
	}
	v, ok := kind.(*symtab.VariableEntry)
	if !ok || !v.Type.Equivalent(w.retType) {
		return w.fail(n.Value.ExprRange(), "Bad return value")
	}
	return nil
}

// exprEntry computes the Kind of e per spec §4.5's rule table,
// returning the first error encountered.
func (w *typeWalker) exprEntry(e ast.Expr) (ast.SymbolEntry, error) {
	switch n := e.(type) {
	case *ast.BoolLit:
		return &symtab.VariableEntry{Type: ast.PerfectPrimitiveType(ast.PrimBool)}, nil
	case *ast.MagicLit:
		return &symtab.VariableEntry{Type: ast.PerfectPrimitiveType(ast.PrimBool)}, nil
	case *ast.IntLit:
		return &symtab.VariableEntry{Type: ast.PerfectPrimitiveType(ast.PrimInt)}, nil
	case *ast.StringLit:
		return &symtab.VariableEntry{Type: ast.PerfectPrimitiveType(ast.PrimString)}, nil

	case *ast.UnaryExpr:
		return w.unaryEntry(n)
	case *ast.BinaryExpr:
		return w.binaryEntry(n)

	case *ast.LocationExpr:
		entry := n.Loc.GetEntry()
		if entry == nil {
			return nil, w.fail(n.ExprRange(), "Undeclared identifier")
		}
		return entry, nil

	case *ast.CallExpr:
		return w.callEntry(n)
	}
	return nil, errors.New("sema: unknown expression node")
}

func (w *typeWalker) unaryEntry(n *ast.UnaryExpr) (ast.SymbolEntry, error) {
	operand, err := w.exprEntry(n.Operand)
	if err != nil {
		return nil, err
	}
	v, ok := operand.(*symtab.VariableEntry)
	switch n.Op {
	case ast.UnaryNot:
		if !ok || v.Type.IsClass() || v.Type.Prim != ast.PrimBool {
			return nil, w.fail(n.ExprRange(), "Logical operator applied to non-bool operand")
		}
		return &symtab.VariableEntry{Type: ast.PerfectPrimitiveType(ast.PrimBool)}, nil
	default: // UnaryNeg
		if !ok || v.Type.IsClass() || v.Type.Prim != ast.PrimInt {
			return nil, w.fail(n.ExprRange(), "Arithmetic operator applied to invalid operand")
		}
		return &symtab.VariableEntry{Type: ast.PerfectPrimitiveType(ast.PrimInt)}, nil
	}
}

func (w *typeWalker) binaryEntry(n *ast.BinaryExpr) (ast.SymbolEntry, error) {
	lhs, err := w.exprEntry(n.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := w.exprEntry(n.Rhs)
	if err != nil {
		return nil, err
	}
	lv, lok := lhs.(*symtab.VariableEntry)
	rv, rok := rhs.(*symtab.VariableEntry)
	r := n.ExprRange()

	switch n.Op {
	case ast.BinAnd, ast.BinOr:
		if !lok || !rok || lv.Type.IsClass() || rv.Type.IsClass() ||
			lv.Type.Prim != ast.PrimBool || rv.Type.Prim != ast.PrimBool {
			return nil, w.fail(r, "Logical operator applied to non-bool operand")
		}
		return &symtab.VariableEntry{Type: ast.PerfectPrimitiveType(ast.PrimBool)}, nil

	case ast.BinAdd, ast.BinSub, ast.BinMul, ast.BinDiv:
		if !lok || !rok || lv.Type.IsClass() || rv.Type.IsClass() ||
			lv.Type.Prim != ast.PrimInt || rv.Type.Prim != ast.PrimInt {
			return nil, w.fail(r, "Arithmetic operator applied to invalid operand")
		}
		return &symtab.VariableEntry{Type: ast.PerfectPrimitiveType(ast.PrimInt)}, nil

	case ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
		if !lok || !rok || lv.Type.IsClass() || rv.Type.IsClass() ||
			lv.Type.Prim != ast.PrimInt || rv.Type.Prim != ast.PrimInt {
			return nil, w.fail(r, "Relational operator applied to non-numeric operand")
		}
		return &symtab.VariableEntry{Type: ast.PerfectPrimitiveType(ast.PrimBool)}, nil

	case ast.BinEq, ast.BinNe:
		if !lok || !rok || lv.Type.IsVoid() || rv.Type.IsVoid() {
			return nil, w.fail(r, "Invalid equality operand")
		}
		if !lv.Type.Equivalent(rv.Type) {
			return nil, w.fail(r, "Invalid equality operation")
		}
		return &symtab.VariableEntry{Type: ast.PerfectPrimitiveType(ast.PrimBool)}, nil
	}
	return nil, errors.New("sema: unknown binary operator")
}

func (w *typeWalker) callEntry(n *ast.CallExpr) (ast.SymbolEntry, error) {
	calleeEntry := n.Callee.GetEntry()
	fn, ok := calleeEntry.(*symtab.FunctionEntry)
	if !ok {
		return nil, w.fail(n.Range, "Attempt to call a non-function")
	}
	if len(n.Args) != len(fn.Formals) {
		return nil, w.fail(n.Range, "Function call with wrong number of args")
	}
	for i, arg := range n.Args {
		kind, err := w.exprEntry(arg)
		if err != nil {
			return nil, err
		}
		v, ok := kind.(*symtab.VariableEntry)
		if !ok || !v.Type.Equivalent(fn.Formals[i]) {
			return nil, w.fail(arg.ExprRange(), "Type of actual does not match type of formal")
		}
	}
	if fn.Ret.IsClass() {
		return &symtab.VariableEntry{Type: ast.PerfectClassType(fn.Ret.ClassName)}, nil
	}
	return &symtab.VariableEntry{Type: ast.PerfectPrimitiveType(fn.Ret.Prim)}, nil
}
