package ir

// Type is the family of types the bytecode encoder's type interner
// (bc component C) knows how to lower to a BCType record. A nil Type
// is treated as Void, matching the upstream IR convention that an
// instruction with no data type produces no result.
type Type interface {
	// Canonical returns the normal form of the type under alias
	// collapsing. Concrete types other than AliasType return
	// themselves.
	Canonical() Type

	typeInner()
}

// VoidType is the unit type, used for instructions with no result
// value (Store, Return, ReturnVoid).
type VoidType struct{}

func (VoidType) typeInner()        {}
func (t VoidType) Canonical() Type { return t }

// BoolType is the boolean type.
type BoolType struct{}

func (BoolType) typeInner()        {}
func (t BoolType) Canonical() Type { return t }

// Int32Type is a 32-bit signed integer.
type Int32Type struct{}

func (Int32Type) typeInner()        {}
func (t Int32Type) Canonical() Type { return t }

// UInt32Type is a 32-bit unsigned integer.
type UInt32Type struct{}

func (UInt32Type) typeInner()        {}
func (t UInt32Type) Canonical() Type { return t }

// UInt64Type is a 64-bit unsigned integer.
type UInt64Type struct{}

func (UInt64Type) typeInner()        {}
func (t UInt64Type) Canonical() Type { return t }

// Float16Type is an IEEE-754 binary16 float.
type Float16Type struct{}

func (Float16Type) typeInner()        {}
func (t Float16Type) Canonical() Type { return t }

// Float32Type is an IEEE-754 binary32 float.
type Float32Type struct{}

func (Float32Type) typeInner()        {}
func (t Float32Type) Canonical() Type { return t }

// Float64Type is an IEEE-754 binary64 float.
type Float64Type struct{}

func (Float64Type) typeInner()        {}
func (t Float64Type) Canonical() Type { return t }

// FuncType is a function signature: Result followed by Params, in
// that order, matching the BCType encoding where arg[0] is the result
// type and args[1..] are parameter types.
type FuncType struct {
	Result Type
	Params []Type
}

func (FuncType) typeInner()        {}
func (t FuncType) Canonical() Type { return t }

// PtrType is a pointer to a single value type.
type PtrType struct {
	Elem Type
}

func (PtrType) typeInner()        {}
func (t PtrType) Canonical() Type { return t }

// StructuredBufferType is a read-only structured buffer of Elem.
type StructuredBufferType struct {
	Elem Type
}

func (StructuredBufferType) typeInner()        {}
func (t StructuredBufferType) Canonical() Type { return t }

// RWStructuredBufferType is a read-write structured buffer of Elem.
type RWStructuredBufferType struct {
	Elem Type
}

func (RWStructuredBufferType) typeInner()        {}
func (t RWStructuredBufferType) Canonical() Type { return t }

// AliasType names another type without changing its representation.
// Canonical resolves through the alias chain so that two aliases of
// the same underlying type intern to a single BCType, matching
// spec.md's "canonicalization is a function" invariant.
type AliasType struct {
	Name       string
	Underlying Type
}

func (AliasType) typeInner() {}

func (t AliasType) Canonical() Type {
	if t.Underlying == nil {
		return VoidType{}
	}
	return t.Underlying.Canonical()
}

// Canonical returns the canonical form of t, treating a nil Type as
// Void — the one piece of canonicalization logic that must live
// outside the Type interface itself, since nil has no methods.
func Canonical(t Type) Type {
	if t == nil {
		return VoidType{}
	}
	return t.Canonical()
}
