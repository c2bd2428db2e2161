package tac

import (
	"drewnomars.dev/compiler/pkg/ast"
	"drewnomars.dev/compiler/pkg/ordered"
	"drewnomars.dev/compiler/pkg/symtab"
)

// StringConst is a collected string literal, assigned a str_N label
// the first time its exact text is seen.
type StringConst struct {
	Label string
	Value string
}

// Program is the Lowerer's output: the quad stream plus the string
// table the backend needs to emit `.string` entries for (spec §4.7).
type Program struct {
	Quads   []Quad
	Strings []StringConst
}

// Lowerer walks a name/type-analyzed ast.Program into a Program of
// quads. It assumes its input is well-typed (spec §7): name analysis
// must have resolved every Location's Entry/IsLocal already, so
// Lowerer never consults pkg/symtab itself — it only reads the
// annotations analysis left on the AST.
//
// Class declarations carry no TAC lowering contract in spec §4.6 (only
// global variables and functions do); per DESIGN.md, class bodies are
// a naming/typing construct only and contribute nothing to the quad
// stream.
type Lowerer struct {
	ctx        *Context
	exitLabel  string
	strings    *ordered.Map[string, string] // value -> label, insertion order
}

// Lower produces the quad stream for prog.
func Lower(prog *ast.Program) (*Program, error) {
	l := &Lowerer{ctx: NewContext(), strings: ordered.NewMap[string, string]()}

	globals := ordered.NewMap[string, *ast.VarDecl]()
	var funcs []*ast.FuncDecl
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *ast.VarDecl:
			globals.Set(n.Name.Name, n)
		case *ast.FuncDecl:
			funcs = append(funcs, n)
		case *ast.ClassDecl:
			// intentionally not lowered; see Lowerer doc comment.
		}
	}

	var quads []Quad
	quads = append(quads, &Globals{Names: globals.Keys()})
	for _, decl := range globals.Values() {
		if decl.Init == nil {
			continue
		}
		initQuads, arg := l.lowerExpr(decl.Init)
		quads = append(quads, initQuads...)
		quads = append(quads, &Assignment{Dest: Global(decl.Name.Name), Src: arg})
	}

	for _, fn := range funcs {
		quads = append(quads, l.lowerFunc(fn)...)
	}

	quads = append(quads, &Label{Name: "main"}, &Goto{Label: "fn_main"})

	strs := make([]StringConst, 0, l.strings.Len())
	l.strings.All()(func(value, label string) bool {
		strs = append(strs, StringConst{Label: label, Value: value})
		return true
	})
	return &Program{Quads: quads, Strings: strs}, nil
}

func (l *Lowerer) lowerFunc(fn *ast.FuncDecl) []Quad {
	tmpBefore := l.ctx.TempCount()
	prevExit := l.exitLabel
	l.exitLabel = l.ctx.NewLabel()
	defer func() { l.exitLabel = prevExit }()

	var body []Quad
	formalNames := make([]string, len(fn.Formals))
	for i, f := range fn.Formals {
		formalNames[i] = f.Name.Name
		body = append(body, &GetArg{N: i + 1, Dest: Local(f.Name.Name)})
	}

	bodyQuads, locals := l.lowerStmts(fn.Body)
	body = append(body, bodyQuads...)
	body = append(body, &Leave{Label: l.exitLabel, FnName: fn.Name.Name})

	header := &Locals{
		FnName:    fn.Name.Name,
		Formals:   formalNames,
		LocalVars: locals,
		TempRange: [2]int{tmpBefore, l.ctx.TempCount()},
	}

	out := make([]Quad, 0, len(body)+2)
	out = append(out, header, &Enter{FnName: fn.Name.Name})
	out = append(out, body...)
	return out
}

func (l *Lowerer) lowerStmts(stmts []ast.Stmt) ([]Quad, []string) {
	var quads []Quad
	var locals []string
	for _, s := range stmts {
		qs, ls := l.lowerStmt(s)
		quads = append(quads, qs...)
		locals = append(locals, ls...)
	}
	return quads, locals
}

func (l *Lowerer) lowerStmt(s ast.Stmt) ([]Quad, []string) {
	switch n := s.(type) {
	case *ast.AssignStmt:
		qs, arg := l.lowerExpr(n.Rhs)
		qs = append(qs, &Assignment{Dest: l.argForLocation(n.Lhs), Src: arg})
		return qs, nil

	case *ast.CallStmt:
		qs, _ := l.lowerCall(n.Call)
		return qs, nil

	case *ast.IncStmt:
		dest := l.argForLocation(n.Operand)
		return []Quad{NewAdd(dest, dest, Literal(1))}, nil

	case *ast.DecStmt:
		dest := l.argForLocation(n.Operand)
		return []Quad{NewSubtract(dest, dest, Literal(1))}, nil

	case *ast.ExitStmt:
		return []Quad{&Exit{}}, nil

	case *ast.GiveStmt:
		qs, arg := l.lowerExpr(n.Value)
		if isStringValued(n.Value) {
			qs = append(qs, &WriteStr{Arg: arg})
		} else {
			qs = append(qs, &WriteInt{Arg: arg})
		}
		return qs, nil

	case *ast.TakeStmt:
		return []Quad{&Read{Dest: l.argForLocation(n.Target)}}, nil

	case *ast.IfStmt:
		return l.lowerIf(n)

	case *ast.WhileStmt:
		return l.lowerWhile(n)

	case *ast.ReturnStmt:
		var qs []Quad
		if n.Value != nil {
			var arg Arg
			qs, arg = l.lowerExpr(n.Value)
			qs = append(qs, &SetRet{Arg: arg})
		}
		qs = append(qs, &Goto{Label: l.exitLabel})
		return qs, nil

	case *ast.VarDeclStmt:
		d := n.Decl
		var qs []Quad
		if d.Init != nil {
			var arg Arg
			qs, arg = l.lowerExpr(d.Init)
			qs = append(qs, &Assignment{Dest: Local(d.Name.Name), Src: arg})
		}
		return qs, []string{d.Name.Name}
	}
	return nil, nil
}

// lowerIf implements spec §4.6's if/else contract: "two fresh labels
// (else, after)... If there is no else branch, only one label is
// needed" — so the else label is only ever allocated when it exists,
// keeping the label counter deterministic and minimal.
func (l *Lowerer) lowerIf(n *ast.IfStmt) ([]Quad, []string) {
	condQuads, condArg := l.lowerExpr(n.Cond)

	if n.Else == nil {
		after := l.ctx.NewLabel()
		quads := append(condQuads, &Ifz{Cond: condArg, Label: after})
		thenQuads, locals := l.lowerStmts(n.Then)
		quads = append(quads, thenQuads...)
		quads = append(quads, &Label{Name: after})
		return quads, locals
	}

	elseLbl := l.ctx.NewLabel()
	after := l.ctx.NewLabel()
	quads := append(condQuads, &Ifz{Cond: condArg, Label: elseLbl})
	thenQuads, thenLocals := l.lowerStmts(n.Then)
	quads = append(quads, thenQuads...)
	quads = append(quads, &Goto{Label: after}, &Label{Name: elseLbl})
	elseQuads, elseLocals := l.lowerStmts(n.Else)
	quads = append(quads, elseQuads...)
	quads = append(quads, &Label{Name: after})
	return quads, append(thenLocals, elseLocals...)
}

func (l *Lowerer) lowerWhile(n *ast.WhileStmt) ([]Quad, []string) {
	head := l.ctx.NewLabel()
	after := l.ctx.NewLabel()

	quads := []Quad{&Label{Name: head}}
	condQuads, condArg := l.lowerExpr(n.Cond)
	quads = append(quads, condQuads...)
	quads = append(quads, &Ifz{Cond: condArg, Label: after})
	bodyQuads, locals := l.lowerStmts(n.Body)
	quads = append(quads, bodyQuads...)
	quads = append(quads, &Goto{Label: head}, &Label{Name: after})
	return quads, locals
}

// lowerExpr implements spec §4.6's expression-lowering contract,
// returning the code needed to compute the expression plus the
// Argument naming its value.
func (l *Lowerer) lowerExpr(e ast.Expr) ([]Quad, Arg) {
	switch n := e.(type) {
	case *ast.BoolLit:
		if n.Value {
			return nil, Literal(1)
		}
		return nil, Literal(0)

	case *ast.IntLit:
		return nil, Literal(uint64(n.Value))

	case *ast.StringLit:
		return nil, Global(l.internString(n.Value))

	case *ast.MagicLit:
		// Open Question decision (DESIGN.md): magic lowers to a fixed,
		// type-correct Bool value.
		return nil, Literal(1)

	case *ast.LocationExpr:
		return nil, l.argForLocation(n.Loc)

	case *ast.UnaryExpr:
		return l.lowerUnary(n)

	case *ast.BinaryExpr:
		return l.lowerBinary(n)

	case *ast.CallExpr:
		return l.lowerCall(n)
	}
	panic("tac: unknown expression node")
}

func (l *Lowerer) lowerUnary(n *ast.UnaryExpr) ([]Quad, Arg) {
	qs, arg := l.lowerExpr(n.Operand)
	dest := Local(l.ctx.NewTemp())
	if n.Op == ast.UnaryNot {
		qs = append(qs, &Not{Dest: dest, Src: arg})
	} else {
		// Unary negation has no dedicated quad (spec §3's catalog has
		// no Negate): lower as 0 - x.
		qs = append(qs, NewSubtract(dest, Literal(0), arg))
	}
	return qs, dest
}

func (l *Lowerer) lowerBinary(n *ast.BinaryExpr) ([]Quad, Arg) {
	lqs, larg := l.lowerExpr(n.Lhs)
	rqs, rarg := l.lowerExpr(n.Rhs)
	dest := Local(l.ctx.NewTemp())
	quads := append(lqs, rqs...)

	var q Quad
	switch n.Op {
	case ast.BinAdd:
		q = NewAdd(dest, larg, rarg)
	case ast.BinSub:
		q = NewSubtract(dest, larg, rarg)
	case ast.BinMul:
		q = NewMultiply(dest, larg, rarg)
	case ast.BinDiv:
		q = NewDivide(dest, larg, rarg)
	case ast.BinAnd:
		q = NewAnd(dest, larg, rarg)
	case ast.BinOr:
		q = NewOr(dest, larg, rarg)
	case ast.BinEq:
		q = NewEquals(dest, larg, rarg)
	case ast.BinNe:
		q = NewNotEq(dest, larg, rarg)
	case ast.BinLt:
		q = NewLess(dest, larg, rarg)
	case ast.BinLe:
		q = NewLessEq(dest, larg, rarg)
	case ast.BinGt:
		q = NewGreater(dest, larg, rarg)
	case ast.BinGe:
		q = NewGreaterEq(dest, larg, rarg)
	default:
		panic("tac: unknown binary operator")
	}
	return append(quads, q), dest
}

func (l *Lowerer) lowerCall(n *ast.CallExpr) ([]Quad, Arg) {
	var quads []Quad
	for i, a := range n.Args {
		qs, arg := l.lowerExpr(a)
		quads = append(quads, qs...)
		quads = append(quads, &SetArg{N: i + 1, Arg: arg})
	}
	quads = append(quads, &Call{FnName: n.Callee.GetLastLink().Link})
	dest := Local(l.ctx.NewTemp())
	quads = append(quads, &GetRet{Dest: dest})
	return quads, dest
}

func (l *Lowerer) argForLocation(loc *ast.Location) Arg {
	if loc.IsLocal {
		return Local(loc.Link)
	}
	return Global(loc.Link)
}

func (l *Lowerer) internString(value string) string {
	if label, ok := l.strings.Get(value); ok {
		return label
	}
	label := l.ctx.NewStringLabel()
	l.strings.Set(value, label)
	return label
}

// isStringValued decides `give`'s WriteInt vs WriteStr choice (spec
// §4.6): String-kinded operands use WriteStr, everything else
// (Int/Bool) uses WriteInt.
func isStringValued(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.StringLit:
		return true
	case *ast.LocationExpr:
		v, ok := n.Loc.GetEntry().(*symtab.VariableEntry)
		return ok && !v.Type.IsClass() && v.Type.Prim == ast.PrimString
	case *ast.CallExpr:
		fn, ok := n.Callee.GetEntry().(*symtab.FunctionEntry)
		return ok && !fn.Ret.IsClass() && fn.Ret.Prim == ast.PrimString
	default:
		return false
	}
}
