package bc

// This file lays out the exact byte layout of every on-disk record
// named in spec.md §3. All records live in a single Arena and
// reference each other exclusively by uint64 offsets from the arena
// base; every multi-byte scalar is little-endian (spec.md §6). Each
// record kind gets its own Handle marker type purely for compile-time
// documentation — Handle itself never dereferences memory, it is
// always the Arena that reads or writes at a given offset.

// Record marker types, used only as Handle[T] type parameters.
type (
	HeaderRecord   struct{}
	ModuleRecord   struct{}
	TypeRecord     struct{}
	SymbolRecord   struct{}
	FuncRecord     struct{}
	BlockRecord    struct{}
	RegRecord      struct{}
	ConstRecord    struct{}
	ConstantRecord struct{}
)

// bcMagic is the container's 8-byte magic number, written verbatim.
var bcMagic = [8]byte{'s', 'l', 'a', 'n', 'g', 0, 'b', 'c'}

// bcVersion is the current (and only) container version.
const bcVersion uint32 = 0

// --- BCHeader ---------------------------------------------------------
//
//	offset 0:  magic          [8]byte
//	offset 8:  version        uint32
//	offset 12: moduleCount    uint32
//	offset 16: modulesOffset  uint64  -> [moduleCount]uint64 module offsets
const (
	headerSize            = 24
	headerAlign           = 8
	headerMagicOff        = 0
	headerVersionOff      = 8
	headerModuleCountOff  = 12
	headerModulesOffOff   = 16
)

// AllocateHeader allocates the BCHeader and writes its fixed magic and
// version fields. moduleCount and the modules array offset are
// patched in later by PatchHeaderModules, once the translation units
// have all been encoded (component H).
func (a *Arena) AllocateHeader() (Handle[HeaderRecord], error) {
	off, err := a.AllocateRaw(headerSize, headerAlign)
	if err != nil {
		return Handle[HeaderRecord]{}, err
	}
	a.PutBytes(off+headerMagicOff, bcMagic[:])
	a.PutUint32(off+headerVersionOff, bcVersion)
	return Handle[HeaderRecord]{Offset: off}, nil
}

// PatchHeaderModules fills in the header's module count and the
// offset of its module-offset array, once both are known.
func (a *Arena) PatchHeaderModules(h Handle[HeaderRecord], moduleCount uint32, modulesOffset uint64) {
	a.PutUint32(h.Offset+headerModuleCountOff, moduleCount)
	a.PutUint64(h.Offset+headerModulesOffOff, modulesOffset)
}

// --- BCModule -----------------------------------------------------------
//
//	offset 0:  symbolCount    uint32
//	offset 4:  typeCount      uint32
//	offset 8:  constantCount  uint32
//	offset 12: (padding)
//	offset 16: symbolsOffset  uint64 -> [symbolCount]uint64 symbol offsets (0 == empty slot)
//	offset 24: typesOffset    uint64 -> [typeCount]uint64 type offsets
//	offset 32: constantsOffset uint64 -> [constantCount]BCConstant, contiguous
const (
	moduleSize             = 40
	moduleAlign            = 8
	moduleSymbolCountOff   = 0
	moduleTypeCountOff     = 4
	moduleConstantCountOff = 8
	moduleSymbolsOffOff    = 16
	moduleTypesOffOff      = 24
	moduleConstantsOffOff  = 32
)

// AllocateModule allocates an empty BCModule record.
func (a *Arena) AllocateModule() (Handle[ModuleRecord], error) {
	off, err := a.AllocateRaw(moduleSize, moduleAlign)
	if err != nil {
		return Handle[ModuleRecord]{}, err
	}
	return Handle[ModuleRecord]{Offset: off}, nil
}

// SetModuleSymbols records the module's symbol table.
func (a *Arena) SetModuleSymbols(m Handle[ModuleRecord], count uint32, offset uint64) {
	a.PutUint32(m.Offset+moduleSymbolCountOff, count)
	a.PutUint64(m.Offset+moduleSymbolsOffOff, offset)
}

// SetModuleTypes records the module's type table.
func (a *Arena) SetModuleTypes(m Handle[ModuleRecord], count uint32, offset uint64) {
	a.PutUint32(m.Offset+moduleTypeCountOff, count)
	a.PutUint64(m.Offset+moduleTypesOffOff, offset)
}

// SetModuleConstants records the module's constant pool.
func (a *Arena) SetModuleConstants(m Handle[ModuleRecord], count uint32, offset uint64) {
	a.PutUint32(m.Offset+moduleConstantCountOff, count)
	a.PutUint64(m.Offset+moduleConstantsOffOff, offset)
}

// --- BCType ---------------------------------------------------------------
//
//	offset 0:  opcode    uint32
//	offset 4:  id        uint32
//	offset 8:  argCount  uint32
//	offset 12: (padding)
//	offset 16: args[0..argCount) uint64, each an offset to a BCType
const (
	typeHeaderSize = 16
	typeAlign      = 8
	typeOpcodeOff  = 0
	typeIDOff      = 4
	typeArgCountOff = 8
	typeArgsOff    = 16
)

// AllocateType allocates a BCType record with the given opcode, dense
// id, and argument type offsets (already-emitted BCType handles,
// post-order per component C).
func (a *Arena) AllocateType(opcode uint32, id uint32, args []uint64) (Handle[TypeRecord], error) {
	size := typeHeaderSize + uint64(len(args))*8
	off, err := a.AllocateRaw(size, typeAlign)
	if err != nil {
		return Handle[TypeRecord]{}, err
	}
	a.PutUint32(off+typeOpcodeOff, opcode)
	a.PutUint32(off+typeIDOff, id)
	a.PutUint32(off+typeArgCountOff, uint32(len(args)))
	for i, argOff := range args {
		a.PutUint64(off+typeArgsOff+uint64(i)*8, argOff)
	}
	return Handle[TypeRecord]{Offset: off}, nil
}

// --- BCSymbol (base record, used as-is for GlobalVar/GlobalConstant) ------
//
//	offset 0: opcode      uint32
//	offset 4: typeID      uint32
//	offset 8: nameOffset  uint64 -> string record, or 0 if unnamed
const (
	symbolSize       = 16
	symbolAlign      = 8
	symbolOpcodeOff  = 0
	symbolTypeIDOff  = 4
	symbolNameOffOff = 8
)

// AllocateSymbol allocates a bare BCSymbol record.
func (a *Arena) AllocateSymbol(opcode, typeID uint32, nameOffset uint64) (Handle[SymbolRecord], error) {
	off, err := a.AllocateRaw(symbolSize, symbolAlign)
	if err != nil {
		return Handle[SymbolRecord]{}, err
	}
	a.PutUint32(off+symbolOpcodeOff, opcode)
	a.PutUint32(off+symbolTypeIDOff, typeID)
	a.PutUint64(off+symbolNameOffOff, nameOffset)
	return Handle[SymbolRecord]{Offset: off}, nil
}

// --- BCFunc (BCSymbol fields, then function-specific fields) --------------
//
//	offset 0:  opcode       uint32   (shared BCSymbol prefix)
//	offset 4:  typeID       uint32
//	offset 8:  nameOffset   uint64
//	offset 16: blockCount   uint32
//	offset 20: (padding)
//	offset 24: blocksOffset uint64 -> [blockCount]BCBlock, contiguous
//	offset 32: regCount     uint32
//	offset 36: (padding)
//	offset 40: regsOffset   uint64 -> [regCount]BCReg, contiguous
//	offset 48: constCount   uint32
//	offset 52: (padding)
//	offset 56: constsOffset uint64 -> [constCount]BCConst, contiguous
const (
	funcSize          = 64
	funcAlign         = 8
	funcOpcodeOff     = 0
	funcTypeIDOff     = 4
	funcNameOffOff    = 8
	funcBlockCountOff = 16
	funcBlocksOffOff  = 24
	funcRegCountOff   = 32
	funcRegsOffOff    = 40
	funcConstCountOff = 48
	funcConstsOffOff  = 56
)

// AllocateFunc allocates an empty BCFunc record. Its fields are filled
// in as the function encoder learns them, in the order component F
// computes them.
func (a *Arena) AllocateFunc() (Handle[FuncRecord], error) {
	off, err := a.AllocateRaw(funcSize, funcAlign)
	if err != nil {
		return Handle[FuncRecord]{}, err
	}
	return Handle[FuncRecord]{Offset: off}, nil
}

// SetFuncHeader records the BCSymbol prefix common to every symbol.
func (a *Arena) SetFuncHeader(f Handle[FuncRecord], opcode, typeID uint32, nameOffset uint64) {
	a.PutUint32(f.Offset+funcOpcodeOff, opcode)
	a.PutUint32(f.Offset+funcTypeIDOff, typeID)
	a.PutUint64(f.Offset+funcNameOffOff, nameOffset)
}

// SetFuncBlocks records the function's block array.
func (a *Arena) SetFuncBlocks(f Handle[FuncRecord], count uint32, offset uint64) {
	a.PutUint32(f.Offset+funcBlockCountOff, count)
	a.PutUint64(f.Offset+funcBlocksOffOff, offset)
}

// SetFuncRegs records the function's register array.
func (a *Arena) SetFuncRegs(f Handle[FuncRecord], count uint32, offset uint64) {
	a.PutUint32(f.Offset+funcRegCountOff, count)
	a.PutUint64(f.Offset+funcRegsOffOff, offset)
}

// SetFuncConsts records the function's imported-constant table.
func (a *Arena) SetFuncConsts(f Handle[FuncRecord], count uint32, offset uint64) {
	a.PutUint32(f.Offset+funcConstCountOff, count)
	a.PutUint64(f.Offset+funcConstsOffOff, offset)
}

// --- BCBlock ----------------------------------------------------------------
//
//	offset 0:  paramCount    uint32
//	offset 4:  (padding)
//	offset 8:  paramsOffset  uint64 -> first BCReg belonging to this block
//	offset 16: codeOffset    uint64 -> first code byte of this block
const (
	blockSize          = 24
	blockAlign         = 8
	blockParamCountOff = 0
	blockParamsOffOff  = 8
	blockCodeOffOff    = 16
)

// AllocateBlockArray allocates a contiguous array of n BCBlock records.
func (a *Arena) AllocateBlockArray(n int) (Handle[BlockRecord], error) {
	if n == 0 {
		return Handle[BlockRecord]{}, nil
	}
	off, err := a.AllocateRaw(uint64(n)*blockSize, blockAlign)
	if err != nil {
		return Handle[BlockRecord]{}, err
	}
	return Handle[BlockRecord]{Offset: off}, nil
}

func (a *Arena) blockAt(base Handle[BlockRecord], i int) uint64 {
	return base.Offset + uint64(i)*blockSize
}

// SetBlockParams records a block's parameter count and the offset of
// its first owned register.
func (a *Arena) SetBlockParams(base Handle[BlockRecord], i int, paramCount uint32, paramsOffset uint64) {
	off := a.blockAt(base, i)
	a.PutUint32(off+blockParamCountOff, paramCount)
	a.PutUint64(off+blockParamsOffOff, paramsOffset)
}

// PatchBlockCode fills in a block's code offset once the function's
// code buffer has been copied into the arena (component F, pass 5).
func (a *Arena) PatchBlockCode(base Handle[BlockRecord], i int, codeOffset uint64) {
	off := a.blockAt(base, i)
	a.PutUint64(off+blockCodeOffOff, codeOffset)
}

// --- BCReg --------------------------------------------------------------
//
//	offset 0:  opcode                   uint32
//	offset 4:  typeID                   uint32
//	offset 8:  previousVarIndexPlusOne  uint32
//	offset 12: (padding)
const (
	regSize          = 16
	regAlign         = 4
	regOpcodeOff     = 0
	regTypeIDOff     = 4
	regPrevVarIdxOff = 8
)

// AllocateRegArray allocates a contiguous array of n BCReg records.
func (a *Arena) AllocateRegArray(n int) (Handle[RegRecord], error) {
	if n == 0 {
		return Handle[RegRecord]{}, nil
	}
	off, err := a.AllocateRaw(uint64(n)*regSize, regAlign)
	if err != nil {
		return Handle[RegRecord]{}, err
	}
	return Handle[RegRecord]{Offset: off}, nil
}

// RegAt returns the offset of the i-th register in an array starting
// at base -- exported so the function encoder can hand block-relative
// register offsets to SetBlockParams without a second record kind.
func (a *Arena) RegAt(base Handle[RegRecord], i int) uint64 {
	return base.Offset + uint64(i)*regSize
}

// SetReg writes the fields of the i-th register in the array at base.
func (a *Arena) SetReg(base Handle[RegRecord], i int, opcode, typeID uint32, previousVarIndexPlusOne uint32) {
	off := a.RegAt(base, i)
	a.PutUint32(off+regOpcodeOff, opcode)
	a.PutUint32(off+regTypeIDOff, typeID)
	a.PutUint32(off+regPrevVarIdxOff, previousVarIndexPlusOne)
}

// --- BCConst (per-function imported-symbol entry) --------------------------
//
//	offset 0: flavor  uint32  (0 = GlobalSymbol, 1 = Constant)
//	offset 4: id      uint32
const (
	constSize      = 8
	constAlign     = 4
	constFlavorOff = 0
	constIDOff     = 4
)

// ConstFlavor distinguishes the two kinds of BCConst import-table
// entries.
type ConstFlavor uint32

const (
	FlavorGlobalSymbol ConstFlavor = 0
	FlavorConstant     ConstFlavor = 1
)

// AllocateConstArray allocates a contiguous array of n BCConst
// entries.
func (a *Arena) AllocateConstArray(n int) (Handle[ConstRecord], error) {
	if n == 0 {
		return Handle[ConstRecord]{}, nil
	}
	off, err := a.AllocateRaw(uint64(n)*constSize, constAlign)
	if err != nil {
		return Handle[ConstRecord]{}, err
	}
	return Handle[ConstRecord]{Offset: off}, nil
}

// SetConst writes the i-th BCConst entry in the array at base.
func (a *Arena) SetConst(base Handle[ConstRecord], i int, flavor ConstFlavor, id uint32) {
	off := base.Offset + uint64(i)*constSize
	a.PutUint32(off+constFlavorOff, uint32(flavor))
	a.PutUint32(off+constIDOff, id)
}

// --- BCConstant (module-level constant-pool entry) --------------------------
//
//	offset 0: opcode         uint32
//	offset 4: typeID         uint32
//	offset 8: payloadOffset  uint64 -> raw payload bytes
const (
	constantSize          = 16
	constantAlign         = 8
	constantOpcodeOff     = 0
	constantTypeIDOff     = 4
	constantPayloadOffOff = 8
)

// AllocateConstantArray allocates a contiguous array of n BCConstant
// records.
func (a *Arena) AllocateConstantArray(n int) (Handle[ConstantRecord], error) {
	if n == 0 {
		return Handle[ConstantRecord]{}, nil
	}
	off, err := a.AllocateRaw(uint64(n)*constantSize, constantAlign)
	if err != nil {
		return Handle[ConstantRecord]{}, err
	}
	return Handle[ConstantRecord]{Offset: off}, nil
}

// SetConstant writes the i-th BCConstant record in the array at base.
func (a *Arena) SetConstant(base Handle[ConstantRecord], i int, opcode, typeID uint32, payloadOffset uint64) {
	off := base.Offset + uint64(i)*constantSize
	a.PutUint32(off+constantOpcodeOff, opcode)
	a.PutUint32(off+constantTypeIDOff, typeID)
	a.PutUint64(off+constantPayloadOffOff, payloadOffset)
}

// --- Flat uint64 offset arrays (module list, symbol list, type list) -------

// AllocateOffsetArray allocates a contiguous array of n uint64
// offsets, zero-initialized (spec.md treats a zero entry as "empty
// slot" for the symbol table, and offset 0 is otherwise unreachable —
// see Handle's doc comment).
func (a *Arena) AllocateOffsetArray(n int) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	return a.AllocateRaw(uint64(n)*8, 8)
}

// SetOffsetArrayEntry writes the i-th entry of an offset array
// allocated by AllocateOffsetArray.
func (a *Arena) SetOffsetArrayEntry(base uint64, i int, value uint64) {
	a.PutUint64(base+uint64(i)*8, value)
}

// --- Strings and scalar payloads --------------------------------------------

// AllocateString allocates a length-prefixed UTF-8 string record and
// returns its offset, or 0 for the empty string (matching the
// BCSymbol convention that an absent name is a null offset).
func (a *Arena) AllocateString(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	b := []byte(s)
	off, err := a.AllocateRaw(uint64(4+len(b)), 4)
	if err != nil {
		return 0, err
	}
	a.PutUint32(off, uint32(len(b)))
	a.PutBytes(off+4, b)
	return off, nil
}

// AllocatePayloadUint64 allocates an 8-byte payload slot holding the
// raw bit pattern of an integer or float constant.
func (a *Arena) AllocatePayloadUint64(bits uint64) (uint64, error) {
	off, err := a.AllocateRaw(8, 8)
	if err != nil {
		return 0, err
	}
	a.PutUint64(off, bits)
	return off, nil
}

// AllocateCode copies code into the arena as a contiguous byte array
// and returns its offset (component F, pass 5).
func (a *Arena) AllocateCode(code []byte) (uint64, error) {
	if len(code) == 0 {
		return 0, nil
	}
	off, err := a.AllocateRaw(uint64(len(code)), 1)
	if err != nil {
		return 0, err
	}
	a.PutBytes(off, code)
	return off, nil
}
