package bc

import "github.com/gogpu/slangbc/ir"

// BCConst is the in-memory counterpart of the on-disk BCConst record:
// either a reference to a module-scope global symbol, or to an entry
// in the module's constant pool. It is what a value resolves to the
// first time anything asks "how do I refer to this IR value".
type BCConst struct {
	Flavor ConstFlavor
	ID     uint32
}

// SharedContext is the scope shared by every function of one module:
// the type table, the global-value map, the literal constant pool, and
// the arena everything is ultimately written into. encodeModule creates
// a fresh SharedContext for each translation unit, so only the arena is
// shared across the modules of one compile request; type tables, global
// maps and constant pools are not. It is mutated sequentially and never
// touched concurrently.
type SharedContext struct {
	Arena *Arena

	typeIDs  map[string]uint32 // canonical type key -> dense id
	typeOffs []uint64          // bcTypes, indexed by id

	mapValueToGlobal map[*ir.Inst]BCConst

	constants []*ir.Inst // module-scope literal pool, in discovery order
}

// NewSharedContext returns a SharedContext writing into a.
func NewSharedContext(a *Arena) *SharedContext {
	return &SharedContext{
		Arena:            a,
		typeIDs:          make(map[string]uint32),
		mapValueToGlobal: make(map[*ir.Inst]BCConst),
	}
}

// FuncContext is the transient, per-function scope described in
// spec.md §5: the current code buffer, the function being encoded (nil
// while acting as the module-scope "outer function"), the
// instruction-to-local-ID map, the block-to-local-ID map, and the list
// of global values this scope has imported as per-scope constants.
type FuncContext struct {
	Shared *SharedContext
	Code   CodeWriter

	// Func is the ir.Inst (Op == OpFunc) currently being encoded, or
	// nil when this FuncContext represents module scope itself.
	Func *ir.Inst

	mapInstToLocalID  map[*ir.Inst]int64
	mapBlockToLocalID map[*ir.Block]int64

	remappedGlobalSymbols []BCConst
}

// NewFuncContext returns a fresh per-function (or per-module) scope
// under shared.
func NewFuncContext(shared *SharedContext) *FuncContext {
	return &FuncContext{
		Shared:            shared,
		mapInstToLocalID:  make(map[*ir.Inst]int64),
		mapBlockToLocalID: make(map[*ir.Block]int64),
	}
}
