// Package ir defines the intermediate representation consumed by the
// bytecode encoder (package bc).
//
// The IR models a typed, SSA-form program: a Module holds an ordered
// list of global values (functions, global variables, global
// constants); a Func holds an ordered list of Blocks; a Block holds an
// ordered, singly-linked list of Insts, the first of which may be
// Param instructions carrying the block's parameters.
//
// # Structure
//
// The IR is organized so that the encoder never needs to consult
// anything but this package:
//   - Module: the global scope, an ordered list of *Inst global values
//   - Func: a global value refining Inst with an ordered []*Block
//   - Block: an ordered instruction list (via Inst.Next) plus a
//     leading run of Param instructions
//   - Type: the type family enumerated in the encoder's type interner
//
// # Origin
//
// This shape mirrors the instruction/basic-block IR used by
// production shader and language front-ends (SSA values linked by
// intra-block "next" pointers, block parameters standing in for phi
// nodes) rather than an expression-tree IR, because the encoder's
// contract requires per-block, per-instruction register numbering.
package ir
