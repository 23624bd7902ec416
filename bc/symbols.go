package bc

import "github.com/gogpu/slangbc/ir"

// RegisterGlobals assigns a dense global ID to every value in
// mod.Globals, in order, and records it in the shared value-to-global
// map. This is pass one of component D: it must run to completion
// before any function body is encoded, because a function may
// reference a global (e.g. calling a function defined later in the
// module) before that global's own BCFunc/BCSymbol record has been
// written — the ID is stable and known up front even though the
// record's arena offset is only known once the global is actually
// encoded. mod may be nil, in which case there is nothing to
// register.
func (shared *SharedContext) RegisterGlobals(mod *ir.Module) {
	if mod == nil {
		return
	}
	for i, global := range mod.Globals {
		shared.mapValueToGlobal[global] = BCConst{
			Flavor: FlavorGlobalSymbol,
			ID:     uint32(i),
		}
	}
}

// GetGlobalID returns the dense global ID previously assigned to
// value by RegisterGlobals. It is an *Error of kind MissingGlobalID
// for any value that is not a registered global — in particular, for
// an ordinary block-local instruction, which must instead be resolved
// through a FuncContext's local ID map.
func (shared *SharedContext) GetGlobalID(value *ir.Inst) (uint32, error) {
	bcConst, ok := shared.mapValueToGlobal[value]
	if !ok || bcConst.Flavor != FlavorGlobalSymbol {
		return 0, errf(MissingGlobalID, "value with op %s was never registered as a module global", value.Op)
	}
	return bcConst.ID, nil
}

// GlobalCount reports how many globals RegisterGlobals has assigned
// IDs to.
func (shared *SharedContext) GlobalCount() int {
	count := 0
	for _, v := range shared.mapValueToGlobal {
		if v.Flavor == FlavorGlobalSymbol {
			count++
		}
	}
	return count
}
