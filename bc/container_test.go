package bc

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/slangbc/ir"
)

func TestGenerateBytecodeEmptyModule(t *testing.T) {
	req := &CompileRequest{
		TranslationUnits: []TranslationUnit{
			{Name: "empty", Module: &ir.Module{}},
		},
	}
	if err := GenerateBytecodeForCompileRequest(req); err != nil {
		t.Fatalf("GenerateBytecodeForCompileRequest: %v", err)
	}
	if len(req.GeneratedBytecode) < headerSize {
		t.Fatalf("GeneratedBytecode is smaller than a bare header: %d bytes", len(req.GeneratedBytecode))
	}

	got := req.GeneratedBytecode[:8]
	for i, b := range bcMagic {
		if got[i] != b {
			t.Fatalf("magic mismatch at byte %d: got %#x, want %#x", i, got[i], b)
		}
	}
	moduleCount := binary.LittleEndian.Uint32(req.GeneratedBytecode[headerModuleCountOff : headerModuleCountOff+4])
	if moduleCount != 1 {
		t.Errorf("moduleCount = %d, want 1", moduleCount)
	}
}

func TestGenerateBytecodeNilModuleIsPresentButEmpty(t *testing.T) {
	req := &CompileRequest{
		TranslationUnits: []TranslationUnit{
			{Name: "no-ir", Module: nil},
		},
	}
	if err := GenerateBytecodeForCompileRequest(req); err != nil {
		t.Fatalf("GenerateBytecodeForCompileRequest: %v", err)
	}
	moduleCount := binary.LittleEndian.Uint32(req.GeneratedBytecode[headerModuleCountOff : headerModuleCountOff+4])
	if moduleCount != 1 {
		t.Errorf("moduleCount = %d, want 1 (a slot for the nil module, not zero modules)", moduleCount)
	}
}

func TestGenerateBytecodeIdentityFunction(t *testing.T) {
	mod := &ir.Module{}
	fnType := ir.FuncType{Result: ir.Int32Type{}, Params: []ir.Type{ir.Int32Type{}}}
	fn := mod.AddFunc("identity", fnType)

	block := ir.NewBlock()
	param := ir.NewParam(ir.Int32Type{})
	block.Append(param)
	block.Append(ir.NewReturn(param))
	fn.Blocks = []*ir.Block{block}

	req := &CompileRequest{TranslationUnits: []TranslationUnit{{Name: "m", Module: mod}}}
	if err := GenerateBytecodeForCompileRequest(req); err != nil {
		t.Fatalf("GenerateBytecodeForCompileRequest: %v", err)
	}
	if len(req.GeneratedBytecode) == 0 {
		t.Fatal("expected non-empty bytecode")
	}
}

func TestGenerateBytecodeLoadStoreThroughPointer(t *testing.T) {
	mod := &ir.Module{}
	fnType := ir.FuncType{Result: ir.Int32Type{}, Params: []ir.Type{ir.Int32Type{}}}
	fn := mod.AddFunc("loadstore", fnType)

	block := ir.NewBlock()
	param := ir.NewParam(ir.Int32Type{})
	slot := ir.NewVar(ir.Int32Type{})
	load := ir.NewLoad(ir.Int32Type{}, slot)
	block.Append(param)
	block.Append(slot)
	block.Append(ir.NewStore(slot, param))
	block.Append(load)
	block.Append(ir.NewReturn(load))
	fn.Blocks = []*ir.Block{block}

	req := &CompileRequest{TranslationUnits: []TranslationUnit{{Name: "m", Module: mod}}}
	if err := GenerateBytecodeForCompileRequest(req); err != nil {
		t.Fatalf("GenerateBytecodeForCompileRequest: %v", err)
	}
}

func TestTypeInterningDedupsAcrossTwoModuleGlobals(t *testing.T) {
	mod := &ir.Module{}
	mod.AddGlobalVar("a", ir.PtrType{Elem: ir.Int32Type{}})
	mod.AddGlobalVar("b", ir.PtrType{Elem: ir.Int32Type{}})

	arena := NewArena()
	modOff, err := encodeModule(arena, mod)
	if err != nil {
		t.Fatalf("encodeModule: %v", err)
	}

	buf := arena.Bytes()
	typeCount := binary.LittleEndian.Uint32(buf[modOff+moduleTypeCountOff : modOff+moduleTypeCountOff+4])
	if typeCount != 2 {
		t.Errorf("typeCount = %d, want 2 (Int32 and Ptr<Int32>)", typeCount)
	}
	symbolsOff := binary.LittleEndian.Uint64(buf[modOff+moduleSymbolsOffOff : modOff+moduleSymbolsOffOff+8])
	var typeIDs [2]uint32
	for i := range typeIDs {
		entry := symbolsOff + uint64(i)*8
		symOff := binary.LittleEndian.Uint64(buf[entry : entry+8])
		typeIDs[i] = binary.LittleEndian.Uint32(buf[symOff+symbolTypeIDOff : symOff+symbolTypeIDOff+4])
	}
	if typeIDs[0] != typeIDs[1] {
		t.Errorf("globals a and b have typeIDs %d and %d, want the same Ptr<Int32> id", typeIDs[0], typeIDs[1])
	}
}

func TestFloatLiteralRawBytesPreserved(t *testing.T) {
	shared := NewSharedContext(NewArena())
	lit := ir.NewFloatLit(ir.Float64Type{}, 3.5)

	id, err := shared.GetConstantID(lit)
	if err != nil {
		t.Fatalf("GetConstantID: %v", err)
	}
	if id != 0 {
		t.Fatalf("first constant should get id 0, got %d", id)
	}

	offset, count, err := shared.FlushConstants()
	if err != nil {
		t.Fatalf("FlushConstants: %v", err)
	}
	if count != 1 {
		t.Fatalf("constant count = %d, want 1", count)
	}

	payloadOff := binary.LittleEndian.Uint64(shared.Arena.Bytes()[offset+constantPayloadOffOff : offset+constantPayloadOffOff+8])
	bits := binary.LittleEndian.Uint64(shared.Arena.Bytes()[payloadOff : payloadOff+8])
	got := math.Float64frombits(bits)
	if got != 3.5 {
		t.Errorf("round-tripped float payload = %v, want 3.5", got)
	}
}

func TestCrossFunctionGlobalReferenceUsesImportTable(t *testing.T) {
	mod := &ir.Module{}
	calleeType := ir.FuncType{Result: ir.Int32Type{}}
	callee := mod.AddFunc("callee", calleeType)
	calleeBlock := ir.NewBlock()
	calleeBlock.Append(ir.NewReturn(ir.NewIntLit(ir.Int32Type{}, 0)))
	callee.Blocks = []*ir.Block{calleeBlock}

	callerType := ir.FuncType{Result: ir.Int32Type{}}
	caller := mod.AddFunc("caller", callerType)
	callerBlock := ir.NewBlock()
	call := ir.NewCall(ir.Int32Type{}, callee)
	callerBlock.Append(call)
	callerBlock.Append(ir.NewReturn(call))
	caller.Blocks = []*ir.Block{callerBlock}

	shared := NewSharedContext(NewArena())
	shared.RegisterGlobals(mod)

	if _, err := shared.EncodeFunction(callee); err != nil {
		t.Fatalf("EncodeFunction(callee): %v", err)
	}
	callerOff, err := shared.EncodeFunction(caller)
	if err != nil {
		t.Fatalf("EncodeFunction(caller): %v", err)
	}

	arena := shared.Arena.Bytes()
	constCount := binary.LittleEndian.Uint32(arena[callerOff+funcConstCountOff : callerOff+funcConstCountOff+4])
	if constCount != 1 {
		t.Fatalf("caller constCount = %d, want 1 (the imported callee)", constCount)
	}
	constsOff := binary.LittleEndian.Uint64(arena[callerOff+funcConstsOffOff : callerOff+funcConstsOffOff+8])
	flavor := binary.LittleEndian.Uint32(arena[constsOff+constFlavorOff : constsOff+constFlavorOff+4])
	if ConstFlavor(flavor) != FlavorGlobalSymbol {
		t.Errorf("imported constant flavor = %d, want FlavorGlobalSymbol", flavor)
	}
	calleeID, err := shared.GetGlobalID(callee)
	if err != nil {
		t.Fatalf("GetGlobalID(callee): %v", err)
	}
	if id := binary.LittleEndian.Uint32(arena[constsOff+constIDOff : constsOff+constIDOff+4]); id != calleeID {
		t.Errorf("imported constant id = %d, want callee's global id %d", id, calleeID)
	}

	// Call: opcode, typeID, operandCount=1, callee operand=~0.
	blocksOff := binary.LittleEndian.Uint64(arena[callerOff+funcBlocksOffOff : callerOff+funcBlocksOffOff+8])
	codeOff := binary.LittleEndian.Uint64(arena[blocksOff+blockCodeOffOff : blocksOff+blockCodeOffOff+8])
	code := arena[codeOff:]
	opcode, n := decodeUint(code)
	code = code[n:]
	if ir.Op(opcode) != ir.OpCall {
		t.Fatalf("opcode = %d, want Call", opcode)
	}
	_, n = decodeUint(code)
	code = code[n:]
	operandCount, n := decodeUint(code)
	code = code[n:]
	if operandCount != 1 {
		t.Fatalf("Call operandCount = %d, want 1", operandCount)
	}
	if operand, _ := decodeSInt(code); operand != ^int64(0) {
		t.Errorf("callee operand = %d, want ~0 (first imported constant)", operand)
	}
}

