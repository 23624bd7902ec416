package bc

import "github.com/gogpu/slangbc/ir"

// TypeOp is the BCType opcode tag (spec.md §3's "opcode identifying
// kind"). Values are part of the wire format.
type TypeOp uint32

const (
	TypeVoid TypeOp = iota
	TypeBool
	TypeInt32
	TypeUInt32
	TypeUInt64
	TypeFloat16
	TypeFloat32
	TypeFloat64
	TypeFunc
	TypePtr
	TypeStructuredBuffer
	TypeRWStructuredBuffer
)

// typeKey computes a dedup key for an already-canonicalized type,
// following the same "build a string that two structurally identical
// types produce identically" discipline as the teacher's
// ir.TypeRegistry.normalizeType, adapted to this package's smaller,
// closed type family. The second return value is false for any type
// outside the family the interner supports.
func typeKey(canon ir.Type) (string, bool) {
	switch v := canon.(type) {
	case ir.VoidType:
		return "void", true
	case ir.BoolType:
		return "bool", true
	case ir.Int32Type:
		return "i32", true
	case ir.UInt32Type:
		return "u32", true
	case ir.UInt64Type:
		return "u64", true
	case ir.Float16Type:
		return "f16", true
	case ir.Float32Type:
		return "f32", true
	case ir.Float64Type:
		return "f64", true
	case ir.PtrType:
		elemKey, ok := typeKey(ir.Canonical(v.Elem))
		if !ok {
			return "", false
		}
		return "ptr<" + elemKey + ">", true
	case ir.StructuredBufferType:
		elemKey, ok := typeKey(ir.Canonical(v.Elem))
		if !ok {
			return "", false
		}
		return "sbuf<" + elemKey + ">", true
	case ir.RWStructuredBufferType:
		elemKey, ok := typeKey(ir.Canonical(v.Elem))
		if !ok {
			return "", false
		}
		return "rwsbuf<" + elemKey + ">", true
	case ir.FuncType:
		key := "func("
		resultKey, ok := typeKey(ir.Canonical(v.Result))
		if !ok {
			return "", false
		}
		key += resultKey
		for _, p := range v.Params {
			pKey, ok := typeKey(ir.Canonical(p))
			if !ok {
				return "", false
			}
			key += "," + pKey
		}
		return key + ")", true
	default:
		return "", false
	}
}

// GetTypeID canonicalizes t, interning it (and, post-order, any
// argument types it references) into the shared type table if it
// hasn't been seen before, and returns its dense id. Component C.
func (shared *SharedContext) GetTypeID(t ir.Type) (uint32, error) {
	canon := ir.Canonical(t)
	key, ok := typeKey(canon)
	if !ok {
		return 0, errf(UnsupportedType, "type %T is not one of the type families the interner supports", canon)
	}
	if id, exists := shared.typeIDs[key]; exists {
		return id, nil
	}

	opcode, argOffsets, err := shared.internTypeArgs(canon)
	if err != nil {
		return 0, err
	}

	// Re-check: interning an argument type recursively may have
	// interned this exact key already if the type graph shares a
	// substructure through more than one path (e.g. two Ptr<T> args
	// of a Func referencing the same T twice).
	if id, exists := shared.typeIDs[key]; exists {
		return id, nil
	}

	id := uint32(len(shared.typeOffs))
	rec, err := shared.Arena.AllocateType(uint32(opcode), id, argOffsets)
	if err != nil {
		return 0, err
	}
	shared.typeIDs[key] = id
	shared.typeOffs = append(shared.typeOffs, rec.Offset)
	return id, nil
}

// internTypeArgs interns canon's argument types (post-order) and
// returns the opcode tag and the resulting argument offsets to embed
// in canon's own BCType record.
func (shared *SharedContext) internTypeArgs(canon ir.Type) (TypeOp, []uint64, error) {
	switch v := canon.(type) {
	case ir.VoidType:
		return TypeVoid, nil, nil
	case ir.BoolType:
		return TypeBool, nil, nil
	case ir.Int32Type:
		return TypeInt32, nil, nil
	case ir.UInt32Type:
		return TypeUInt32, nil, nil
	case ir.UInt64Type:
		return TypeUInt64, nil, nil
	case ir.Float16Type:
		return TypeFloat16, nil, nil
	case ir.Float32Type:
		return TypeFloat32, nil, nil
	case ir.Float64Type:
		return TypeFloat64, nil, nil
	case ir.PtrType:
		off, err := shared.internArg(v.Elem)
		if err != nil {
			return 0, nil, err
		}
		return TypePtr, []uint64{off}, nil
	case ir.StructuredBufferType:
		off, err := shared.internArg(v.Elem)
		if err != nil {
			return 0, nil, err
		}
		return TypeStructuredBuffer, []uint64{off}, nil
	case ir.RWStructuredBufferType:
		off, err := shared.internArg(v.Elem)
		if err != nil {
			return 0, nil, err
		}
		return TypeRWStructuredBuffer, []uint64{off}, nil
	case ir.FuncType:
		args := make([]uint64, 0, 1+len(v.Params))
		resultOff, err := shared.internArg(v.Result)
		if err != nil {
			return 0, nil, err
		}
		args = append(args, resultOff)
		for _, p := range v.Params {
			pOff, err := shared.internArg(p)
			if err != nil {
				return 0, nil, err
			}
			args = append(args, pOff)
		}
		return TypeFunc, args, nil
	default:
		return 0, nil, errf(UnsupportedType, "type %T is not one of the type families the interner supports", canon)
	}
}

// internArg interns an argument type and returns the arena offset of
// its BCType record (not its id — records embed offsets, not ids, per
// spec.md §3's "followed inline by arg-count offset-pointers").
func (shared *SharedContext) internArg(t ir.Type) (uint64, error) {
	id, err := shared.GetTypeID(t)
	if err != nil {
		return 0, err
	}
	return shared.typeOffs[id], nil
}

// TypeCount returns the number of distinct types interned so far.
func (shared *SharedContext) TypeCount() int { return len(shared.typeOffs) }

// TypeOffsets returns the module type table: bcTypes[i] is the arena
// offset of the BCType with id i.
func (shared *SharedContext) TypeOffsets() []uint64 { return shared.typeOffs }
