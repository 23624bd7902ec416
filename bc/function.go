package bc

import "github.com/gogpu/slangbc/ir"

// varElemType returns the pointee type of a Var instruction's pointer
// type, for the reserved storage register described in NewVar's doc
// comment.
func varElemType(inst *ir.Inst) ir.Type {
	if ptr, ok := ir.Canonical(inst.Type).(ir.PtrType); ok {
		return ptr.Elem
	}
	return nil
}

// getLocalID resolves an operand instruction to the signed value its
// use site encodes: a non-negative local register ID if operand
// belongs to this function, or the bitwise complement of an index
// into this function's imported-constant table otherwise. A value is
// imported either because it is a module-scope global (function,
// global variable or global constant) or because it is a literal
// pooled at module scope — both cases share one table because both
// are read the same way by a decoder, through BCConst.Flavor.
func (fc *FuncContext) getLocalID(operand *ir.Inst) (int64, error) {
	if id, ok := fc.mapInstToLocalID[operand]; ok {
		return id, nil
	}

	var bcConst BCConst
	switch operand.Op {
	case ir.OpIntLit, ir.OpFloatLit:
		id, err := fc.Shared.GetConstantID(operand)
		if err != nil {
			return 0, err
		}
		bcConst = BCConst{Flavor: FlavorConstant, ID: id}
	default:
		id, err := fc.Shared.GetGlobalID(operand)
		if err != nil {
			return 0, err
		}
		bcConst = BCConst{Flavor: FlavorGlobalSymbol, ID: id}
	}

	for i, existing := range fc.remappedGlobalSymbols {
		if existing == bcConst {
			return ^int64(i), nil
		}
	}
	idx := len(fc.remappedGlobalSymbols)
	fc.remappedGlobalSymbols = append(fc.remappedGlobalSymbols, bcConst)
	return ^int64(idx), nil
}

// EncodeFunction runs the five-pass algorithm of component F over fn
// (an *ir.Inst with Op == OpFunc) and returns the arena offset of the
// finished BCFunc record.
func (shared *SharedContext) EncodeFunction(fn *ir.Inst) (uint64, error) {
	fc := NewFuncContext(shared)
	fc.Func = fn
	blocks := fn.Blocks

	// Pass 1: block enumeration. Each block gets a dense local ID in
	// source order from its own counter, independent of the register
	// counter assigned in passes 2-3 — the two counters are allowed to
	// produce the same numeric value for a block and a register because
	// nothing in this IR can reference a block as an operand, so no
	// decoder ever needs to disambiguate them (see bytecode.cpp's
	// comment on this exact point). Nothing in the current IR consumes
	// mapBlockToLocalID yet, since every function encoded today has a
	// single block and no branch opcode exists to reference another
	// one, but the pass runs regardless so a future branch-capable
	// opcode has a real ID to resolve against.
	for bi, blk := range blocks {
		fc.mapBlockToLocalID[blk] = int64(bi)
	}

	// Pass 2 + 3: count registers and assign each instruction its
	// dense local ID, per block, in program order. A literal
	// instruction that is not appended to any block (ir/builder.go's
	// constructors never append) receives no local ID here; every
	// reference to one resolves through the constant pool instead. An instruction
	// produces a register iff its data type exists and is not the Void
	// basic type (Param is always typed, so it is counted
	// uniformly by this same rule without special-casing). A Var
	// claims its own local ID for the pointer it produces, plus one
	// further reserved slot for the pointee's storage (see
	// ir/builder.go's NewVar), so the following instruction's local ID
	// is two past the Var's, not one. Void-typed instructions (Store,
	// Return, ReturnVoid) consume no register at all.
	blockInsts := make([][]*ir.Inst, len(blocks))
	localID := int64(0)
	for bi, blk := range blocks {
		insts := blk.Insts()
		blockInsts[bi] = insts
		for _, inst := range insts {
			if inst.Op != ir.OpVar && ir.Canonical(inst.Type) == (ir.VoidType{}) {
				continue
			}
			fc.mapInstToLocalID[inst] = localID
			localID++
			if inst.Op == ir.OpVar {
				localID++
			}
		}
	}
	regCount := int(localID)

	// Pass 4: emit every block's instructions into the function's code
	// buffer, recording each block's starting byte offset within it.
	// Param instructions are not emitted: a block's parameters are
	// populated by whatever transfers control into it, not by
	// executing code, and are already described by BCBlock's own
	// paramCount/paramsOffset fields.
	blockCodeStart := make([]int, len(blocks))
	for bi, insts := range blockInsts {
		blockCodeStart[bi] = fc.Code.Len()
		for _, inst := range insts {
			if inst.Op == ir.OpParam {
				continue
			}
			if err := fc.emitInst(inst); err != nil {
				return 0, err
			}
		}
	}

	// Register array: one BCReg per local ID, holding just enough to
	// re-derive a register's type and opcode without decoding code.
	// previousVarIndexPlusOne is always set to the register's own index
	// (identity) for every register, Var's second slot included — the
	// source sets it this way unconditionally rather than threading any
	// actual chain, and per spec this looks like an unfinished
	// live-range-chain feature rather than a bug to silently correct,
	// so it is reproduced exactly as observed rather than "fixed" into
	// a working chain.
	regs, err := shared.Arena.AllocateRegArray(regCount)
	if err != nil {
		return 0, err
	}
	i := 0
	for _, insts := range blockInsts {
		for _, inst := range insts {
			if _, ok := fc.mapInstToLocalID[inst]; !ok {
				continue
			}
			typeID, err := shared.GetTypeID(inst.Type)
			if err != nil {
				return 0, err
			}
			shared.Arena.SetReg(regs, i, uint32(inst.Op), typeID, uint32(i))
			i++

			if inst.Op == ir.OpVar {
				elemTypeID, err := shared.GetTypeID(varElemType(inst))
				if err != nil {
					return 0, err
				}
				shared.Arena.SetReg(regs, i, uint32(inst.Op), elemTypeID, uint32(i))
				i++
			}
		}
	}

	// Pass 5: copy the accumulated code buffer into the arena as one
	// contiguous byte array, then patch each block's absolute code
	// offset now that the buffer's own arena offset is known.
	codeOff, err := shared.Arena.AllocateCode(fc.Code.Bytes())
	if err != nil {
		return 0, err
	}

	blockArr, err := shared.Arena.AllocateBlockArray(len(blocks))
	if err != nil {
		return 0, err
	}
	for bi, insts := range blockInsts {
		paramCount := blocks[bi].ParamCount()
		var paramsOff uint64
		if paramCount > 0 {
			firstLocal := fc.mapInstToLocalID[insts[0]]
			paramsOff = shared.Arena.RegAt(regs, int(firstLocal))
		}
		shared.Arena.SetBlockParams(blockArr, bi, uint32(paramCount), paramsOff)
		shared.Arena.PatchBlockCode(blockArr, bi, codeOff+uint64(blockCodeStart[bi]))
	}

	// Imported-constant table: every global or pooled literal this
	// function ended up referencing, in first-use order.
	constArr, err := shared.Arena.AllocateConstArray(len(fc.remappedGlobalSymbols))
	if err != nil {
		return 0, err
	}
	for idx, c := range fc.remappedGlobalSymbols {
		shared.Arena.SetConst(constArr, idx, c.Flavor, c.ID)
	}

	funcTypeID, err := shared.GetTypeID(fn.Type)
	if err != nil {
		return 0, err
	}
	name, _ := fn.Name()
	nameOff, err := shared.Arena.AllocateString(name)
	if err != nil {
		return 0, err
	}

	rec, err := shared.Arena.AllocateFunc()
	if err != nil {
		return 0, err
	}
	shared.Arena.SetFuncHeader(rec, uint32(ir.OpFunc), funcTypeID, nameOff)
	shared.Arena.SetFuncBlocks(rec, uint32(len(blocks)), blockArr.Offset)
	shared.Arena.SetFuncRegs(rec, uint32(regCount), regs.Offset)
	shared.Arena.SetFuncConsts(rec, uint32(len(fc.remappedGlobalSymbols)), constArr.Offset)

	return rec.Offset, nil
}
