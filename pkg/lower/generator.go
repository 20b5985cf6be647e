// Package lower implements the control-flow lowering pass: it converts a
// stream of recorded opcodes describing a generator or async function body
// into a flat, label-addressed switch statement driven by a small runtime
// ABI (a `__state` object carrying `label`, `trys`, and `error`, and
// `["tag", value?]` completion tuples for break/return/yield/endfinally).
//
// A CodeGenerator bundles four cooperating subsystems: the opcode recorder
// (this file + recorder.go), the symbol table (symboltable.go), the label
// allocator and block-scope stack (labels.go, blockscope.go), and the
// switch-body assembler plus output builder (assembler.go,
// outputbuilder.go). A CodeGenerator is single-use: it accumulates state
// during caller-driven emission and is consumed by exactly one Finalize
// call.
package lower

import (
	"fmt"
	"os"

	"genlower/pkg/ast"
	"genlower/pkg/source"
)

// DebugFlags gates the fmt.Fprintf tracing the generator can emit to
// stderr. All flags default to false.
type DebugFlags struct {
	Ops       bool // trace every recorded opcode
	Blocks    bool // trace block scope open/close
	Assembler bool // trace the finalization pass
}

func (d DebugFlags) tracef(enabled bool, format string, args ...any) {
	if enabled {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// CodeGeneratorOptions configures a CodeGenerator at construction.
type CodeGeneratorOptions struct {
	// Source, if non-nil, is attached to Range values built while no more
	// specific range is available. Entirely optional: this package tracks
	// only the most recently set range, not full source-map fidelity.
	Source *source.File
	Debug  DebugFlags
}

// CodeGenerator is the single-use handle this package builds around: one
// opcode log, one symbol table, one label allocator, one block-scope
// stack, and one label table, all created together and consumed by one
// Finalize call.
type CodeGenerator struct {
	opts CodeGeneratorOptions

	// Opcode recorder state.
	operations []Operation

	// Symbol table state.
	parameters  []*ast.Parameter
	locals      []*ast.Identifier
	namedLocals []*ast.Identifier
	localNames  map[string]bool // disjointness guard: __l{n} vs caller names
	functions   []*ast.FunctionLike
	nextLocalID int

	// Label allocator + block-scope stack state.
	nextLabel           Label
	labels              map[Label]int
	blockStack          []Block
	blockEvents         []blockEvent
	hasProtectedRegions bool
	labelTable          *labelTable

	// Location stack.
	relatedLocation source.Range
	locationStack   []source.Range

	finalized bool
}

// NewCodeGenerator returns a fresh CodeGenerator with all four data
// structures initialized and ready for caller-driven emission.
func NewCodeGenerator(opts CodeGeneratorOptions) *CodeGenerator {
	cg := &CodeGenerator{
		opts:       opts,
		labels:     make(map[Label]int),
		localNames: make(map[string]bool),
		labelTable: newLabelTable(),
	}
	if opts.Source != nil {
		cg.relatedLocation = source.Range{File: opts.Source}
	}
	return cg
}

// SetLocation replaces the current related location outright.
func (cg *CodeGenerator) SetLocation(r source.Range) {
	cg.relatedLocation = r
}

// PushLocation saves the current related location and installs a new one;
// pair with PopLocation to scope a location change across a recursive
// traversal.
func (cg *CodeGenerator) PushLocation(r source.Range) {
	cg.locationStack = append(cg.locationStack, cg.relatedLocation)
	cg.relatedLocation = r
}

// PopLocation restores the related location saved by the matching
// PushLocation. Panics if the stack is empty — an unpaired pop is a
// caller bug, not a user-input error.
func (cg *CodeGenerator) PopLocation() {
	n := len(cg.locationStack)
	if n == 0 {
		Internal("PopLocation with no matching PushLocation")
	}
	cg.relatedLocation = cg.locationStack[n-1]
	cg.locationStack = cg.locationStack[:n-1]
}
