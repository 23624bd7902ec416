package bc

import (
	"math"

	"github.com/gogpu/slangbc/ir"
)

// GetConstantID returns the pool ID for a literal instruction (OpIntLit,
// OpFloatLit), registering it in the module-scope constant pool the
// first time it is referenced from any function body. Component E. Any
// other instruction kind reached here without a prior mapping is not
// poolable — the source only materializes integer (and, by extension,
// float) literals at module scope, so anything else falls through to
// MissingGlobalID.
//
// The pool is keyed by *ir.Inst identity, not by value: two distinct
// IntLit instructions holding the same integer are two distinct pool
// entries, matching the source format's "constants belong to whichever
// instruction produced them" model rather than a value-interning one.
func (shared *SharedContext) GetConstantID(lit *ir.Inst) (uint32, error) {
	if existing, ok := shared.mapValueToGlobal[lit]; ok {
		if existing.Flavor != FlavorConstant {
			return 0, errf(InvariantViolation, "value with op %s is already registered as a global symbol, not a constant", lit.Op)
		}
		return existing.ID, nil
	}

	switch lit.Op {
	case ir.OpIntLit, ir.OpFloatLit:
	default:
		return 0, errf(MissingGlobalID, "value with op %s cannot be pooled as a constant", lit.Op)
	}

	id := uint32(len(shared.constants))
	shared.constants = append(shared.constants, lit)
	shared.mapValueToGlobal[lit] = BCConst{Flavor: FlavorConstant, ID: id}
	return id, nil
}

// FlushConstants materializes the module's constant pool as a
// contiguous BCConstant array, once every function body has been
// encoded and no further literal can be added. It returns the array's
// arena offset and entry count for BCModule.constantsOffset /
// constantCount.
func (shared *SharedContext) FlushConstants() (offset uint64, count uint32, err error) {
	n := len(shared.constants)
	if n == 0 {
		return 0, 0, nil
	}

	arr, err := shared.Arena.AllocateConstantArray(n)
	if err != nil {
		return 0, 0, err
	}

	for i, lit := range shared.constants {
		typeID, err := shared.GetTypeID(lit.Type)
		if err != nil {
			return 0, 0, err
		}

		var payload uint64
		switch lit.Op {
		case ir.OpIntLit:
			payload = lit.IntVal
		case ir.OpFloatLit:
			payload = math.Float64bits(lit.FloatVal)
		default:
			return 0, 0, errf(InvariantViolation, "constant pool entry %d has unexpected op %s", i, lit.Op)
		}

		payloadOff, err := shared.Arena.AllocatePayloadUint64(payload)
		if err != nil {
			return 0, 0, err
		}
		shared.Arena.SetConstant(arr, i, uint32(lit.Op), typeID, payloadOff)
	}

	return arr.Offset, uint32(n), nil
}
