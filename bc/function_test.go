package bc

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/slangbc/ir"
)

func TestEncodeFunctionIdentityHasOneRegisterAndReturnCode(t *testing.T) {
	// f(x: Int32) -> Int32 { return x } — S2. The parameter is the only
	// register; Return is Void-typed and consumes none.
	shared := newSharedForTest()
	fnType := ir.FuncType{Result: ir.Int32Type{}, Params: []ir.Type{ir.Int32Type{}}}
	fn := &ir.Inst{Op: ir.OpFunc, Type: fnType}

	block := ir.NewBlock()
	param := ir.NewParam(ir.Int32Type{})
	block.Append(param)
	block.Append(ir.NewReturn(param))
	fn.Blocks = []*ir.Block{block}

	fnOff, err := shared.EncodeFunction(fn)
	if err != nil {
		t.Fatalf("EncodeFunction: %v", err)
	}

	arena := shared.Arena.Bytes()
	regCount := binary.LittleEndian.Uint32(arena[fnOff+funcRegCountOff : fnOff+funcRegCountOff+4])
	if regCount != 1 {
		t.Fatalf("regCount = %d, want 1", regCount)
	}

	blocksOff := binary.LittleEndian.Uint64(arena[fnOff+funcBlocksOffOff : fnOff+funcBlocksOffOff+8])
	codeOff := binary.LittleEndian.Uint64(arena[blocksOff+blockCodeOffOff : blocksOff+blockCodeOffOff+8])
	code := arena[codeOff:]

	voidID, err := shared.GetTypeID(nil)
	if err != nil {
		t.Fatalf("GetTypeID(nil): %v", err)
	}

	opcode, n := decodeUint(code)
	code = code[n:]
	if ir.Op(opcode) != ir.OpReturn {
		t.Fatalf("opcode = %d, want Return", opcode)
	}
	typeID, n := decodeUint(code)
	code = code[n:]
	if uint32(typeID) != voidID {
		t.Errorf("typeID = %d, want void %d", typeID, voidID)
	}
	operandCount, n := decodeUint(code)
	code = code[n:]
	if operandCount != 1 {
		t.Fatalf("operandCount = %d, want 1", operandCount)
	}
	operand, _ := decodeSInt(code)
	if operand != 0 {
		t.Errorf("operand = %d, want 0 (the parameter's local id)", operand)
	}
}

func TestEncodeFunctionLoadStoreHasThreeRegisters(t *testing.T) {
	// var p: Int32; store p, 7; return load p — S3. Registers: 0,1 for
	// the Var's pointer and storage slots, 2 for Load's result. Store
	// and Return are Void-typed and consume no register.
	shared := newSharedForTest()
	fnType := ir.FuncType{Result: ir.Int32Type{}}
	fn := &ir.Inst{Op: ir.OpFunc, Type: fnType}

	block := ir.NewBlock()
	v := ir.NewVar(ir.Int32Type{})
	seven := ir.NewIntLit(ir.Int32Type{}, 7)
	load := ir.NewLoad(ir.Int32Type{}, v)
	block.Append(v)
	block.Append(ir.NewStore(v, seven))
	block.Append(load)
	block.Append(ir.NewReturn(load))
	fn.Blocks = []*ir.Block{block}

	fnOff, err := shared.EncodeFunction(fn)
	if err != nil {
		t.Fatalf("EncodeFunction: %v", err)
	}

	arena := shared.Arena.Bytes()
	regCount := binary.LittleEndian.Uint32(arena[fnOff+funcRegCountOff : fnOff+funcRegCountOff+4])
	if regCount != 3 {
		t.Fatalf("regCount = %d, want 3", regCount)
	}

	constCount := binary.LittleEndian.Uint32(arena[fnOff+funcConstCountOff : fnOff+funcConstCountOff+4])
	if constCount != 1 {
		t.Fatalf("constCount = %d, want 1 (the pooled literal 7)", constCount)
	}
	constsOff := binary.LittleEndian.Uint64(arena[fnOff+funcConstsOffOff : fnOff+funcConstsOffOff+8])
	flavor := binary.LittleEndian.Uint32(arena[constsOff+constFlavorOff : constsOff+constFlavorOff+4])
	if ConstFlavor(flavor) != FlavorConstant {
		t.Errorf("imported constant flavor = %d, want FlavorConstant", flavor)
	}

	blocksOff := binary.LittleEndian.Uint64(arena[fnOff+funcBlocksOffOff : fnOff+funcBlocksOffOff+8])
	codeOff := binary.LittleEndian.Uint64(arena[blocksOff+blockCodeOffOff : blocksOff+blockCodeOffOff+8])
	code := arena[codeOff:]

	ptrTypeID, err := shared.GetTypeID(ir.PtrType{Elem: ir.Int32Type{}})
	if err != nil {
		t.Fatalf("GetTypeID(Ptr<Int32>): %v", err)
	}
	i32ID, err := shared.GetTypeID(ir.Int32Type{})
	if err != nil {
		t.Fatalf("GetTypeID(Int32): %v", err)
	}
	voidID, err := shared.GetTypeID(nil)
	if err != nil {
		t.Fatalf("GetTypeID(nil): %v", err)
	}

	// Var: opcode, typeID(Ptr<Int32>), operandCount=0, destination=0.
	opcode, n := decodeUint(code)
	code = code[n:]
	if ir.Op(opcode) != ir.OpVar {
		t.Fatalf("first opcode = %d, want Var", opcode)
	}
	typeID, n := decodeUint(code)
	code = code[n:]
	if uint32(typeID) != ptrTypeID {
		t.Errorf("Var typeID = %d, want %d", typeID, ptrTypeID)
	}
	operandCount, n := decodeUint(code)
	code = code[n:]
	if operandCount != 0 {
		t.Fatalf("Var operandCount = %d, want 0", operandCount)
	}
	dest, n := decodeSInt(code)
	code = code[n:]
	if dest != 0 {
		t.Errorf("Var destination = %d, want 0", dest)
	}

	// Store: opcode, typeID(Int32), ptr operand=0, value operand=~0.
	opcode, n = decodeUint(code)
	code = code[n:]
	if ir.Op(opcode) != ir.OpStore {
		t.Fatalf("second opcode = %d, want Store", opcode)
	}
	typeID, n = decodeUint(code)
	code = code[n:]
	if uint32(typeID) != i32ID {
		t.Errorf("Store typeID = %d, want %d", typeID, i32ID)
	}
	ptrOperand, n := decodeSInt(code)
	code = code[n:]
	if ptrOperand != 0 {
		t.Errorf("Store pointer operand = %d, want 0", ptrOperand)
	}
	valOperand, n := decodeSInt(code)
	code = code[n:]
	if valOperand != ^int64(0) {
		t.Errorf("Store value operand = %d, want ~0 (first imported constant)", valOperand)
	}

	// Load: opcode, typeID(Int32), ptr operand=0, destination=2.
	opcode, n = decodeUint(code)
	code = code[n:]
	if ir.Op(opcode) != ir.OpLoad {
		t.Fatalf("third opcode = %d, want Load", opcode)
	}
	typeID, n = decodeUint(code)
	code = code[n:]
	if uint32(typeID) != i32ID {
		t.Errorf("Load typeID = %d, want %d", typeID, i32ID)
	}
	ptrOperand, n = decodeSInt(code)
	code = code[n:]
	if ptrOperand != 0 {
		t.Errorf("Load pointer operand = %d, want 0", ptrOperand)
	}
	dest, n = decodeSInt(code)
	code = code[n:]
	if dest != 2 {
		t.Errorf("Load destination = %d, want 2", dest)
	}

	// Return: opcode, typeID(Void), operandCount=1, operand=2.
	opcode, n = decodeUint(code)
	code = code[n:]
	if ir.Op(opcode) != ir.OpReturn {
		t.Fatalf("fourth opcode = %d, want Return", opcode)
	}
	typeID, n = decodeUint(code)
	code = code[n:]
	if uint32(typeID) != voidID {
		t.Errorf("Return typeID = %d, want void %d", typeID, voidID)
	}
	operandCount, n = decodeUint(code)
	code = code[n:]
	if operandCount != 1 {
		t.Fatalf("Return operandCount = %d, want 1", operandCount)
	}
	operand, _ := decodeSInt(code)
	if operand != 2 {
		t.Errorf("Return operand = %d, want 2 (the load's local id)", operand)
	}
}

func TestEncodeFunctionRegPrevVarIndexIsIdentity(t *testing.T) {
	// previousVarIndexPlusOne is set to a register's own index for
	// every register, Var's second slot included, matching
	// bytecode.cpp's `bcRegs[localID].previousVarIndexPlusOne =
	// (uint32_t)localID` exactly rather than threading an actual chain.
	shared := newSharedForTest()
	fnType := ir.FuncType{Result: ir.Int32Type{}}
	fn := &ir.Inst{Op: ir.OpFunc, Type: fnType}

	block := ir.NewBlock()
	v := ir.NewVar(ir.Int32Type{})
	load := ir.NewLoad(ir.Int32Type{}, v)
	block.Append(v)
	block.Append(load)
	block.Append(ir.NewReturn(load))
	fn.Blocks = []*ir.Block{block}

	fnOff, err := shared.EncodeFunction(fn)
	if err != nil {
		t.Fatalf("EncodeFunction: %v", err)
	}

	arena := shared.Arena.Bytes()
	regsOff := binary.LittleEndian.Uint64(arena[fnOff+funcRegsOffOff : fnOff+funcRegsOffOff+8])
	regCount := binary.LittleEndian.Uint32(arena[fnOff+funcRegCountOff : fnOff+funcRegCountOff+4])
	if regCount != 3 {
		t.Fatalf("regCount = %d, want 3", regCount)
	}
	for i := 0; i < int(regCount); i++ {
		off := regsOff + uint64(i)*regSize
		got := binary.LittleEndian.Uint32(arena[off+regPrevVarIdxOff : off+regPrevVarIdxOff+4])
		if got != uint32(i) {
			t.Errorf("register %d: previousVarIndexPlusOne = %d, want %d (identity)", i, got, i)
		}
	}
}

func TestEncodeFunctionBoolConstIsNotPooledAsConstant(t *testing.T) {
	// A BoolConst reached through getLocalID without a prior local-id
	// mapping is not a global and not poolable — it must surface
	// MissingGlobalID rather than silently join the constant pool.
	shared := newSharedForTest()
	fnType := ir.FuncType{Result: ir.BoolType{}}
	fn := &ir.Inst{Op: ir.OpFunc, Type: fnType}

	block := ir.NewBlock()
	block.Append(ir.NewReturn(ir.NewBoolConst(true)))
	fn.Blocks = []*ir.Block{block}

	_, err := shared.EncodeFunction(fn)
	if err == nil {
		t.Fatal("EncodeFunction: expected an error, got nil")
	}
	if !errors.Is(err, &Error{Kind: MissingGlobalID}) {
		t.Errorf("EncodeFunction error = %v, want kind MissingGlobalID", err)
	}
}
