package bc

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/slangbc/ir"
)

// emitInst writes one instruction's encoding to fc.Code: its opcode,
// then whatever payload, operand list, or destination that opcode's
// encoding carries. Component G. Most opcodes fall through to the
// default path; ReturnVoid, the three literal-producing opcodes, and
// Store/Load each have a specialized layout.
func (fc *FuncContext) emitInst(inst *ir.Inst) error {
	fc.Code.EncodeUint(uint64(inst.Op))

	switch inst.Op {
	case ir.OpReturnVoid:
		return nil
	case ir.OpIntLit:
		return fc.emitIntLit(inst)
	case ir.OpFloatLit:
		return fc.emitFloatLit(inst)
	case ir.OpBoolConst:
		return fc.emitBoolConst(inst)
	case ir.OpStore:
		return fc.emitStore(inst)
	case ir.OpLoad:
		return fc.emitLoad(inst)
	default:
		return fc.emitDefault(inst)
	}
}

// emitDefault writes the default layout: typeID, operandCount, each
// operand's signed local/imported id, then the destination register if
// inst produces a result. This covers Return, Call and every binary
// arithmetic op without any per-opcode special casing.
func (fc *FuncContext) emitDefault(inst *ir.Inst) error {
	typeID, err := fc.Shared.GetTypeID(inst.Type)
	if err != nil {
		return err
	}
	fc.Code.EncodeUint(uint64(typeID))
	fc.Code.EncodeUint(uint64(len(inst.Operands)))
	if err := fc.emitOperands(inst); err != nil {
		return err
	}
	return fc.emitDestination(inst)
}

// emitOperands writes inst.Operands as a sequence of zig-zag varints,
// one per operand, in order.
func (fc *FuncContext) emitOperands(inst *ir.Inst) error {
	for _, operand := range inst.Operands {
		id, err := fc.getLocalID(operand)
		if err != nil {
			return err
		}
		fc.Code.EncodeSInt(id)
	}
	return nil
}

// emitDestination writes inst's own local id as its destination
// register, iff inst has a result: per spec, an instruction produces a
// register iff its data type exists and is not the Void basic type.
func (fc *FuncContext) emitDestination(inst *ir.Inst) error {
	if ir.Canonical(inst.Type) == (ir.VoidType{}) {
		return nil
	}
	id, ok := fc.mapInstToLocalID[inst]
	if !ok {
		return errf(InvariantViolation, "instruction %s has a result type but no local id assigned", inst.Op)
	}
	fc.Code.EncodeSInt(id)
	return nil
}

// emitIntLit writes IntLit's layout: typeID, unsigned-encoded bit
// pattern, destination.
func (fc *FuncContext) emitIntLit(inst *ir.Inst) error {
	typeID, err := fc.Shared.GetTypeID(inst.Type)
	if err != nil {
		return err
	}
	fc.Code.EncodeUint(uint64(typeID))
	fc.Code.EncodeUint(inst.IntVal)
	return fc.emitDestination(inst)
}

// emitFloatLit writes FloatLit's layout: typeID, a fixed 8-byte raw
// copy of the value's bit pattern (matching bytecode.cpp's memcpy
// rather than a varint), destination.
func (fc *FuncContext) emitFloatLit(inst *ir.Inst) error {
	typeID, err := fc.Shared.GetTypeID(inst.Type)
	if err != nil {
		return err
	}
	fc.Code.EncodeUint(uint64(typeID))
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], math.Float64bits(inst.FloatVal))
	fc.Code.EncodeRaw(raw[:])
	return fc.emitDestination(inst)
}

// emitBoolConst writes BoolConst's layout: a single 0/1 byte,
// destination. Unlike the other literals it carries no typeID — its
// type is always Bool.
func (fc *FuncContext) emitBoolConst(inst *ir.Inst) error {
	var b uint8
	if inst.BoolVal {
		b = 1
	}
	fc.Code.EncodeUint8(b)
	return fc.emitDestination(inst)
}

// emitStore writes Store's layout: typeID of the stored value
// (operand 1's data type), pointer operand, value operand. No
// destination — Store has no result.
func (fc *FuncContext) emitStore(inst *ir.Inst) error {
	typeID, err := fc.Shared.GetTypeID(inst.Operands[1].Type)
	if err != nil {
		return err
	}
	fc.Code.EncodeUint(uint64(typeID))
	return fc.emitOperands(inst)
}

// emitLoad writes Load's layout: result typeID, pointer operand,
// destination.
func (fc *FuncContext) emitLoad(inst *ir.Inst) error {
	typeID, err := fc.Shared.GetTypeID(inst.Type)
	if err != nil {
		return err
	}
	fc.Code.EncodeUint(uint64(typeID))
	if err := fc.emitOperands(inst); err != nil {
		return err
	}
	return fc.emitDestination(inst)
}
