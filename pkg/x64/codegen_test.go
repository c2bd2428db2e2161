package x64_test

import (
	"strings"
	"testing"

	"drewnomars.dev/compiler/pkg/tac"
	"drewnomars.dev/compiler/pkg/x64"
)

func TestGenerateArithmeticUsesFixedScratchRegisters(t *testing.T) {
	prog := &tac.Program{
		Quads: []tac.Quad{
			&tac.Globals{Names: nil},
			&tac.Locals{FnName: "main", TempRange: [2]int{0, 1}},
			&tac.Enter{FnName: "main"},
			tac.NewAdd(tac.Local("tmp_0"), tac.Literal(1), tac.Literal(2)),
			&tac.Leave{Label: "lbl_0", FnName: "main"},
		},
	}

	out, err := x64.Generate(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "movq $1, %rax") || !strings.Contains(out, "movq $2, %rcx") {
		t.Fatalf("expected lhs in %%rax and rhs in %%rcx, got:\n%s", out)
	}
	if !strings.Contains(out, "addq %rcx, %rax") {
		t.Fatalf("expected addq %%rcx, %%rax, got:\n%s", out)
	}
}

func TestGenerateComparisonUsesSetccNotFlagsRead(t *testing.T) {
	prog := &tac.Program{
		Quads: []tac.Quad{
			&tac.Globals{},
			&tac.Locals{FnName: "main", TempRange: [2]int{0, 1}},
			&tac.Enter{FnName: "main"},
			tac.NewLess(tac.Local("tmp_0"), tac.Literal(1), tac.Literal(2)),
			&tac.Leave{Label: "lbl_0", FnName: "main"},
		},
	}

	out, err := x64.Generate(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "setl %al") || !strings.Contains(out, "movzbq %al, %rax") {
		t.Fatalf("expected setl+movzbq zero-extension sequence, got:\n%s", out)
	}
}

func TestGenerateFrameSizeIsAlignedTo16(t *testing.T) {
	// Three 8-byte slots (formal, local, one temp) sum to 24 bytes,
	// which must round up to 32 to keep %rsp 16-byte aligned.
	prog := &tac.Program{
		Quads: []tac.Quad{
			&tac.Globals{},
			&tac.Locals{FnName: "f", Formals: []string{"a"}, LocalVars: []string{"b"}, TempRange: [2]int{0, 1}},
			&tac.Enter{FnName: "f"},
			&tac.Leave{Label: "lbl_0", FnName: "f"},
		},
	}

	out, err := x64.Generate(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "subq $32, %rsp") {
		t.Fatalf("expected a 16-byte-aligned frame of 32 bytes, got:\n%s", out)
	}
}

func TestGenerateGlobalsEmitsBssSlots(t *testing.T) {
	prog := &tac.Program{
		Quads: []tac.Quad{
			&tac.Globals{Names: []string{"x", "y"}},
		},
	}

	out, err := x64.Generate(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "x: .zero 8") || !strings.Contains(out, "y: .zero 8") {
		t.Fatalf("expected one .zero 8 slot per global, got:\n%s", out)
	}
}

func TestGenerateWriteStrUsesAddressNotValue(t *testing.T) {
	prog := &tac.Program{
		Strings: []tac.StringConst{{Label: "str_0", Value: "hi"}},
		Quads: []tac.Quad{
			&tac.Globals{},
			&tac.Locals{FnName: "main"},
			&tac.Enter{FnName: "main"},
			&tac.WriteStr{Arg: tac.Global("str_0")},
			&tac.Leave{Label: "lbl_0", FnName: "main"},
		},
	}

	out, err := x64.Generate(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "leaq str_0(%rip), %rdi") {
		t.Fatalf("expected leaq (address-of) for a string constant, got:\n%s", out)
	}
	if !strings.Contains(out, `str_0: .string "hi"`) {
		t.Fatalf("expected a .string entry for str_0, got:\n%s", out)
	}
}
