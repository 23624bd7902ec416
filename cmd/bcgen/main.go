// Command bcgen drives the bytecode encoder over a small,
// fixed demonstration module and writes the resulting container to a
// file or to stdout.
//
// There is no textual front-end for the IR this package encodes —
// callers are expected to construct an *ir.Module in Go, the same way
// this command's -demo modules are built — so bcgen exists to exercise
// and inspect the encoder, not to compile shader source.
//
// Usage:
//
//	bcgen [options]
//
// Examples:
//
//	bcgen                       # encode the default demo module to stdout
//	bcgen -o out.bc             # encode to a file
//	bcgen -demo=identity -debug # pick a demo module, print diagnostics
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gogpu/slangbc/bc"
	"github.com/gogpu/slangbc/ir"
)

var (
	output  = flag.String("o", "", "output file (default: stdout)")
	demo    = flag.String("demo", "identity", "demo module to encode: identity, loadstore, call, empty")
	debug   = flag.Bool("debug", false, "print the encoded byte count and global count to stderr instead of staying silent")
	version = flag.Bool("version", false, "print version")
)

const bcgenVersion = "0.1.0-dev"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("bcgen version %s\n", bcgenVersion)
		return
	}

	mod, err := buildDemoModule(*demo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		usage()
		os.Exit(1)
	}

	req := &bc.CompileRequest{
		TranslationUnits: []bc.TranslationUnit{
			{Name: *demo, Module: mod},
		},
	}
	if err := bc.GenerateBytecodeForCompileRequest(req); err != nil {
		fmt.Fprintf(os.Stderr, "Encoding error: %v\n", err)
		os.Exit(1)
	}

	if *debug {
		fmt.Fprintf(os.Stderr, "bcgen: encoded %q: %d bytes, %d global(s)\n",
			*demo, len(req.GeneratedBytecode), len(mod.Globals))
	}

	if *output != "" {
		if err := os.WriteFile(*output, req.GeneratedBytecode, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Successfully encoded %q to %s (%d bytes)\n", *demo, *output, len(req.GeneratedBytecode))
		return
	}

	if _, err := os.Stdout.Write(req.GeneratedBytecode); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}

// buildDemoModule constructs one of the fixed sample modules this
// command knows how to encode.
func buildDemoModule(name string) (*ir.Module, error) {
	switch name {
	case "empty":
		return &ir.Module{}, nil
	case "identity":
		return buildIdentityModule(), nil
	case "loadstore":
		return buildLoadStoreModule(), nil
	case "call":
		return buildCallModule(), nil
	default:
		return nil, fmt.Errorf("unknown demo module %q", name)
	}
}

// buildIdentityModule builds a single function of type i32(i32) whose
// body returns its own parameter.
func buildIdentityModule() *ir.Module {
	mod := &ir.Module{}
	fnType := ir.FuncType{Result: ir.Int32Type{}, Params: []ir.Type{ir.Int32Type{}}}
	fn := mod.AddFunc("identity", fnType)

	block := ir.NewBlock()
	param := ir.NewParam(ir.Int32Type{})
	block.Append(param)
	block.Append(ir.NewReturn(param))
	fn.Blocks = []*ir.Block{block}

	return mod
}

// buildLoadStoreModule builds a function that allocates a local i32
// slot, stores its own parameter into it, then loads and returns it —
// exercising Var/Store/Load in addition to Param/Return.
func buildLoadStoreModule() *ir.Module {
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

	return mod
}

// buildCallModule builds two functions, callee and caller, where
// caller calls callee and returns its result — exercising the
// cross-function global reference path (a call operand resolved
// through the callee's global ID and imported into caller's
// per-function constant table).
func buildCallModule() *ir.Module {
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

	return mod
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: bcgen [options]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  bcgen                        Encode the default demo module to stdout\n")
	fmt.Fprintf(os.Stderr, "  bcgen -o out.bc              Encode to a file\n")
	fmt.Fprintf(os.Stderr, "  bcgen -demo=loadstore -debug Pick a demo module, print diagnostics\n")
	fmt.Fprintf(os.Stderr, "  bcgen -demo=call             Encode a two-function cross-call module\n")
}
