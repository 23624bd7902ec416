package bc

import "github.com/gogpu/slangbc/ir"

// TranslationUnit pairs one IR module with the name it should be
// identified by in diagnostics.
type TranslationUnit struct {
	Name   string
	Module *ir.Module
}

// CompileRequest is the external interface of the encoder (spec.md
// §6): a batch of translation units in, one arena's worth of bytecode
// out.
type CompileRequest struct {
	TranslationUnits []TranslationUnit

	// GeneratedBytecode is populated by
	// GenerateBytecodeForCompileRequest on success. It aliases the
	// arena's backing buffer, so it must not be mutated in place.
	GeneratedBytecode []byte
}

// GenerateBytecodeForCompileRequest is the encoder's single entry
// point (component H). It allocates the container header, encodes
// each translation unit as one BCModule in order, then patches the
// header's module table once every module's own offset is known.
func GenerateBytecodeForCompileRequest(req *CompileRequest) error {
	arena := NewArena()
	header, err := arena.AllocateHeader()
	if err != nil {
		return err
	}

	moduleOffs := make([]uint64, len(req.TranslationUnits))
	for i, tu := range req.TranslationUnits {
		off, err := encodeModule(arena, tu.Module)
		if err != nil {
			return wrapf(InvariantViolation, err, "encoding translation unit %q", tu.Name)
		}
		moduleOffs[i] = off
	}

	modulesArrOff, err := arena.AllocateOffsetArray(len(moduleOffs))
	if err != nil {
		return err
	}
	for i, off := range moduleOffs {
		arena.SetOffsetArrayEntry(modulesArrOff, i, off)
	}
	arena.PatchHeaderModules(header, uint32(len(moduleOffs)), modulesArrOff)

	req.GeneratedBytecode = arena.Bytes()
	return nil
}

// encodeModule encodes mod as a BCModule record: every global value
// (function, global variable, global constant), then the type table
// and constant pool that emerged from encoding them.
//
// mod may be nil — a translation unit that produced no IR (e.g. an
// empty source file) still occupies a slot in the container's module
// table, as a present-but-empty BCModule, rather than leaving that
// slot unrepresentable (see DESIGN.md, OQ-2).
func encodeModule(arena *Arena, mod *ir.Module) (uint64, error) {
	var globals []*ir.Inst
	if mod != nil {
		globals = mod.Globals
	}

	shared := NewSharedContext(arena)
	shared.RegisterGlobals(mod)

	symbolOffs := make([]uint64, len(globals))
	for i, global := range globals {
		off, err := encodeGlobal(shared, global)
		if err != nil {
			return 0, err
		}
		symbolOffs[i] = off
	}

	modRec, err := arena.AllocateModule()
	if err != nil {
		return 0, err
	}

	symbolsOff, err := arena.AllocateOffsetArray(len(symbolOffs))
	if err != nil {
		return 0, err
	}
	for i, off := range symbolOffs {
		arena.SetOffsetArrayEntry(symbolsOff, i, off)
	}
	arena.SetModuleSymbols(modRec, uint32(len(symbolOffs)), symbolsOff)

	// The type table is only complete once every global above has
	// been encoded, since encoding a global lazily interns whatever
	// types it references.
	typeOffs := shared.TypeOffsets()
	typesOff, err := arena.AllocateOffsetArray(len(typeOffs))
	if err != nil {
		return 0, err
	}
	for i, off := range typeOffs {
		arena.SetOffsetArrayEntry(typesOff, i, off)
	}
	arena.SetModuleTypes(modRec, uint32(len(typeOffs)), typesOff)

	constantsOff, constantCount, err := shared.FlushConstants()
	if err != nil {
		return 0, err
	}
	arena.SetModuleConstants(modRec, constantCount, constantsOff)

	return modRec.Offset, nil
}

// encodeGlobal encodes a single module-scope global value: a function
// gets the full five-pass treatment of component F; a global variable
// or global constant gets a bare BCSymbol record, since initializer
// emission is deferred (see DESIGN.md).
func encodeGlobal(shared *SharedContext, global *ir.Inst) (uint64, error) {
	switch global.Op {
	case ir.OpFunc:
		return shared.EncodeFunction(global)
	case ir.OpGlobalVar, ir.OpGlobalConstant:
		typeID, err := shared.GetTypeID(global.Type)
		if err != nil {
			return 0, err
		}
		name, _ := global.Name()
		nameOff, err := shared.Arena.AllocateString(name)
		if err != nil {
			return 0, err
		}
		rec, err := shared.Arena.AllocateSymbol(uint32(global.Op), typeID, nameOff)
		if err != nil {
			return 0, err
		}
		return rec.Offset, nil
	default:
		return 0, errf(InvariantViolation, "value with op %s is not a valid module-scope global", global.Op)
	}
}
