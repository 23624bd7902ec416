package ir

// Op identifies the operation an Inst performs. The bytecode encoder
// treats Op values as opcodes directly (see bc/instruction.go), so the
// numeric values here are part of the wire format and must not be
// renumbered casually once a container has been written.
type Op uint32

const (
	OpInvalid Op = iota

	// Global-value ops. An Inst with one of these ops sits directly in
	// Module.Globals and is assigned a dense global ID by the encoder's
	// symbol table (bc component D).
	OpFunc
	OpGlobalVar
	OpGlobalConstant

	// Block-local ops.
	OpParam
	OpVar
	OpLoad
	OpStore
	OpReturn
	OpReturnVoid
	OpIntLit
	OpFloatLit
	OpBoolConst
	OpCall
	OpAdd
	OpSub
	OpMul
	OpFAdd
	OpFSub
	OpFMul
)

var opNames = map[Op]string{
	OpInvalid:      "invalid",
	OpFunc:         "func",
	OpGlobalVar:    "global_var",
	OpGlobalConstant: "global_constant",
	OpParam:        "param",
	OpVar:          "var",
	OpLoad:         "load",
	OpStore:        "store",
	OpReturn:       "return",
	OpReturnVoid:   "return_void",
	OpIntLit:       "int_lit",
	OpFloatLit:     "float_lit",
	OpBoolConst:    "bool_const",
	OpCall:         "call",
	OpAdd:          "add",
	OpSub:          "sub",
	OpMul:          "mul",
	OpFAdd:         "fadd",
	OpFSub:         "fsub",
	OpFMul:         "fmul",
}

// String returns the mnemonic for op, or a numeric fallback for an
// opcode this package doesn't know about (front-ends may extend the
// opcode space; the encoder's default instruction path handles any Op
// it hasn't special-cased).
func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "op(" + itoa(uint32(op)) + ")"
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// Decoration attaches side information to an Inst, mirroring the
// upstream IR's decoration list (used e.g. for name-of-declaration
// lookup). The encoder only ever queries decorations through Inst's
// helper methods below, never by type-switching on Decoration
// directly, so front-ends are free to define decorations this package
// doesn't know about.
type Decoration interface {
	decoration()
}

// NameDecoration records the source-level name of a global value, if
// any. Absence of a NameDecoration means the symbol is emitted
// without a name (see bc component D).
type NameDecoration struct {
	Name string
}

func (NameDecoration) decoration() {}

// Inst is a single IR value: a global (Func, GlobalVar,
// GlobalConstant), a block parameter, or an ordinary instruction.
//
// Inst is a flat tagged struct rather than an inheritance hierarchy:
// which of the trailing fields are meaningful is determined by Op.
// This mirrors the "sum type over a capability set" discipline the
// bytecode records themselves use, and keeps the encoder's dispatch a
// single switch on Op instead of a type switch over a class tree.
type Inst struct {
	Op          Op
	Type        Type // result/operand type; nil is treated as Void
	Operands    []*Inst
	Decorations []Decoration

	// Next links this instruction to the following one within its
	// owning Block, in program order. Next is nil for the last
	// instruction of a block. Global values (Op == OpFunc,
	// OpGlobalVar, OpGlobalConstant) do not use Next; their order is
	// given by Module.Globals directly.
	Next *Inst

	// Blocks holds the function body when Op == OpFunc; empty
	// otherwise.
	Blocks []*Block

	// Literal payloads, meaningful only for the matching Op.
	IntVal   uint64
	FloatVal float64
	BoolVal  bool
}

// Name returns the instruction's declared name, if any.
func (inst *Inst) Name() (string, bool) {
	for _, d := range inst.Decorations {
		if nd, ok := d.(NameDecoration); ok {
			return nd.Name, true
		}
	}
	return "", false
}

// Block is an ordered sequence of instructions. Parameters of the
// block, if any, are the leading run of OpParam instructions.
type Block struct {
	first *Inst
	last  *Inst
}

// NewBlock returns an empty block.
func NewBlock() *Block {
	return &Block{}
}

// Append adds inst to the end of the block's instruction list.
func (b *Block) Append(inst *Inst) *Inst {
	if b.last == nil {
		b.first = inst
	} else {
		b.last.Next = inst
	}
	b.last = inst
	return inst
}

// Insts returns the block's instructions in program order. It walks
// the Next linkage fresh on every call, exactly the way the encoder
// consumes it, rather than caching a slice on the Block.
func (b *Block) Insts() []*Inst {
	var out []*Inst
	for ii := b.first; ii != nil; ii = ii.Next {
		out = append(out, ii)
	}
	return out
}

// ParamCount returns the number of leading OpParam instructions.
func (b *Block) ParamCount() int {
	n := 0
	for ii := b.first; ii != nil && ii.Op == OpParam; ii = ii.Next {
		n++
	}
	return n
}

// Module is the global scope: an ordered list of global values. Each
// global value's position in Globals becomes its global ID (see bc
// component D); the encoder keeps no separate module-scope local-ID
// map.
type Module struct {
	Globals []*Inst
}

// AddFunc appends a new function global value to the module and
// returns it for further construction (append blocks, etc).
func (m *Module) AddFunc(name string, fnType Type) *Inst {
	fn := &Inst{Op: OpFunc, Type: fnType}
	if name != "" {
		fn.Decorations = append(fn.Decorations, NameDecoration{Name: name})
	}
	m.Globals = append(m.Globals, fn)
	return fn
}

// AddGlobalVar appends a global variable to the module.
func (m *Module) AddGlobalVar(name string, t Type) *Inst {
	gv := &Inst{Op: OpGlobalVar, Type: t}
	if name != "" {
		gv.Decorations = append(gv.Decorations, NameDecoration{Name: name})
	}
	m.Globals = append(m.Globals, gv)
	return gv
}

// AddGlobalConstant appends a global constant to the module.
func (m *Module) AddGlobalConstant(name string, t Type) *Inst {
	gc := &Inst{Op: OpGlobalConstant, Type: t}
	if name != "" {
		gc.Decorations = append(gc.Decorations, NameDecoration{Name: name})
	}
	m.Globals = append(m.Globals, gc)
	return gc
}
