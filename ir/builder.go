package ir

// The constructors below build individual Insts. They do not append
// to any Block themselves — callers append via Block.Append — so the
// same Inst literal shape works whether it is being wired into a
// function body under construction or built ad hoc for a unit test.

// NewParam returns a block-parameter instruction of type t.
func NewParam(t Type) *Inst {
	return &Inst{Op: OpParam, Type: t}
}

// NewVar returns an alloca-style instruction. Its Type is the pointer
// type produced by the allocation (Ptr(elem)); per spec.md §3, a Var
// occupies two consecutive registers: the pointer, then the pointee
// storage.
func NewVar(elem Type) *Inst {
	return &Inst{Op: OpVar, Type: PtrType{Elem: elem}}
}

// NewIntLit returns an integer literal of type t and bit pattern v.
func NewIntLit(t Type, v uint64) *Inst {
	return &Inst{Op: OpIntLit, Type: t, IntVal: v}
}

// NewFloatLit returns a floating-point literal of type t.
func NewFloatLit(t Type, v float64) *Inst {
	return &Inst{Op: OpFloatLit, Type: t, FloatVal: v}
}

// NewBoolConst returns a boolean literal.
func NewBoolConst(v bool) *Inst {
	return &Inst{Op: OpBoolConst, Type: BoolType{}, BoolVal: v}
}

// NewLoad returns a load of *ptr, whose result type is resultType.
func NewLoad(resultType Type, ptr *Inst) *Inst {
	return &Inst{Op: OpLoad, Type: resultType, Operands: []*Inst{ptr}}
}

// NewStore returns a store of value through ptr. Store has no result.
func NewStore(ptr, value *Inst) *Inst {
	return &Inst{Op: OpStore, Operands: []*Inst{ptr, value}}
}

// NewReturn returns a value-returning return instruction.
func NewReturn(value *Inst) *Inst {
	return &Inst{Op: OpReturn, Operands: []*Inst{value}}
}

// NewReturnVoid returns a return-with-no-value instruction.
func NewReturnVoid() *Inst {
	return &Inst{Op: OpReturnVoid}
}

// NewCall returns a call to callee with the given arguments.
func NewCall(resultType Type, callee *Inst, args ...*Inst) *Inst {
	operands := make([]*Inst, 0, len(args)+1)
	operands = append(operands, callee)
	operands = append(operands, args...)
	return &Inst{Op: OpCall, Type: resultType, Operands: operands}
}

// NewBinary returns a binary arithmetic instruction.
func NewBinary(op Op, resultType Type, lhs, rhs *Inst) *Inst {
	return &Inst{Op: op, Type: resultType, Operands: []*Inst{lhs, rhs}}
}
