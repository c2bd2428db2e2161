package ast

import "drewnomars.dev/compiler/pkg/source"

// Prim enumerates the primitive kinds a Type may carry.
type Prim int

const (
	PrimBool Prim = iota
	PrimInt
	PrimString
	PrimVoid
)

func (p Prim) String() string {
	switch p {
	case PrimBool:
		return "bool"
	case PrimInt:
		return "int"
	case PrimString:
		return "string"
	case PrimVoid:
		return "void"
	default:
		return "?prim"
	}
}

// TypeTag distinguishes the four Type shapes from spec §3: a type is
// either primitive or class-valued, and either mutable or "perfect"
// (immutable).
type TypeTag int

const (
	TagPrimitive TypeTag = iota
	TagPerfectPrimitive
	TagClass
	TagPerfectClass
)

// Type is the tagged union from spec §3. Exactly one of Prim /
// ClassName is meaningful, selected by Tag.
type Type struct {
	Tag       TypeTag
	Prim      Prim
	ClassName string
	Range     source.Range
}

// IsPerfect reports whether t is immutable (may not appear as an
// assignment lvalue).
func (t Type) IsPerfect() bool {
	return t.Tag == TagPerfectPrimitive || t.Tag == TagPerfectClass
}

// IsClass reports whether t names a class type.
func (t Type) IsClass() bool {
	return t.Tag == TagClass || t.Tag == TagPerfectClass
}

// IsVoid reports whether t is the primitive Void type (perfect or not).
func (t Type) IsVoid() bool {
	return !t.IsClass() && t.Prim == PrimVoid
}

// Equivalent implements spec §3's type-equivalence relation: both
// primitive and the same Prim, or both class and the same class name.
// Perfectness never affects equivalence.
func (t Type) Equivalent(other Type) bool {
	if t.IsClass() != other.IsClass() {
		return false
	}
	if t.IsClass() {
		return t.ClassName == other.ClassName
	}
	return t.Prim == other.Prim
}

func (t Type) String() string {
	prefix := ""
	if t.IsPerfect() {
		prefix = "perfect "
	}
	if t.IsClass() {
		return prefix + t.ClassName
	}
	return prefix + t.Prim.String()
}

// PerfectPrimitiveType builds a Variable-kind perfect primitive Type,
// the shape every literal expression resolves to (spec §4.5).
func PerfectPrimitiveType(p Prim) Type {
	return Type{Tag: TagPerfectPrimitive, Prim: p}
}

// PrimitiveType builds a mutable primitive Type.
func PrimitiveType(p Prim) Type {
	return Type{Tag: TagPrimitive, Prim: p}
}

// PerfectClassType builds a Variable-kind perfect class Type, the
// shape an object-returning call resolves to.
func PerfectClassType(name string) Type {
	return Type{Tag: TagPerfectClass, ClassName: name}
}

// ClassType builds a mutable class Type.
func ClassType(name string) Type {
	return Type{Tag: TagClass, ClassName: name}
}
