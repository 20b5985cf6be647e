package lower

import (
	"genlower/pkg/ast"
	"genlower/pkg/source"
)

// OpCode tags one entry in the opcode log.
type OpCode int

const (
	OpStatement OpCode = iota
	OpAssign
	OpBreak
	OpBrTrue
	OpBrFalse
	OpYield
	OpReturn
	OpThrow
	OpEndfinally
)

func (c OpCode) String() string {
	switch c {
	case OpStatement:
		return "Statement"
	case OpAssign:
		return "Assign"
	case OpBreak:
		return "Break"
	case OpBrTrue:
		return "BrTrue"
	case OpBrFalse:
		return "BrFalse"
	case OpYield:
		return "Yield"
	case OpReturn:
		return "Return"
	case OpThrow:
		return "Throw"
	case OpEndfinally:
		return "Endfinally"
	default:
		return "Unknown"
	}
}

// Operation is one append-only entry in the opcode log: a tagged variant
// over the nine opcode kinds, its argument tuple, and the text range that
// was current when it was recorded. Entries are never mutated once
// appended, so the assembler can safely replay the log in a single forward
// pass without worrying about earlier entries shifting underneath it.
//
// Only the fields relevant to Code are populated; this flattens the
// argument tuple into named fields rather than a generic []any, which
// keeps dispatch in the assembler a plain type-free switch instead of a
// series of type assertions.
type Operation struct {
	Code     OpCode
	Node     ast.Node // Statement
	Lhs, Rhs ast.Expr // Assign
	Label    Label    // Break, BrTrue, BrFalse
	Cond     ast.Expr // BrTrue, BrFalse
	Value    ast.Expr // Yield, Return (optional), Throw (required)
	Location source.Range
}
