package lower

import (
	"genlower/pkg/ast"
	"genlower/pkg/factory"
)

// append is the one place an Operation ever enters the log: it is
// append-only, and no entry is ever mutated afterward. The opcode recorder
// never inspects or rewrites previously recorded operations — every
// Emit* method below only ever calls append with a fresh Operation.
func (cg *CodeGenerator) append(op Operation) {
	if cg.finalized {
		Internal("cannot record further operations after Finalize")
	}
	op.Location = cg.relatedLocation
	cg.operations = append(cg.operations, op)
	cg.opts.Debug.tracef(cg.opts.Debug.Ops, "[lower] #%d %s\n", len(cg.operations)-1, op.Code)
}

// EmitStatement records a Statement opcode. A nil node is silently
// dropped — the caller uses this to emit conditional statements without
// special-casing the "nothing to emit" branch itself.
func (cg *CodeGenerator) EmitStatement(node ast.Node) {
	if node == nil {
		return
	}
	cg.append(Operation{Code: OpStatement, Node: node})
}

// EmitGeneratedStatement is sugar for the common case of emitting a
// templated text fragment directly, without the caller constructing an
// *ast.Generated by hand.
func (cg *CodeGenerator) EmitGeneratedStatement(template string, subs map[string]ast.Node) {
	cg.EmitStatement(factory.Generated(template, subs, cg.relatedLocation))
}

// EmitAssign records an Assign opcode.
func (cg *CodeGenerator) EmitAssign(lhs, rhs ast.Expr) {
	cg.append(Operation{Code: OpAssign, Lhs: lhs, Rhs: rhs})
}

// EmitGeneratedAssign is EmitAssign's counterpart to EmitGeneratedStatement:
// the rhs is a templated text fragment rather than an already-built
// expression node.
func (cg *CodeGenerator) EmitGeneratedAssign(lhs ast.Expr, template string, subs map[string]ast.Node) {
	cg.EmitAssign(lhs, factory.Generated(template, subs, cg.relatedLocation))
}

// EmitBreak records a Break opcode targeting label.
func (cg *CodeGenerator) EmitBreak(label Label) {
	cg.append(Operation{Code: OpBreak, Label: label})
}

// EmitBrTrue records a conditional jump taken when cond is truthy.
func (cg *CodeGenerator) EmitBrTrue(label Label, cond ast.Expr) {
	cg.append(Operation{Code: OpBrTrue, Label: label, Cond: cond})
}

// EmitBrFalse records a conditional jump taken when cond is falsy.
func (cg *CodeGenerator) EmitBrFalse(label Label, cond ast.Expr) {
	cg.append(Operation{Code: OpBrFalse, Label: label, Cond: cond})
}

// EmitYield records a Yield opcode. value may be nil for a bare yield.
func (cg *CodeGenerator) EmitYield(value ast.Expr) {
	cg.append(Operation{Code: OpYield, Value: value})
}

// EmitReturn records a Return opcode. value may be nil for a bare return.
func (cg *CodeGenerator) EmitReturn(value ast.Expr) {
	cg.append(Operation{Code: OpReturn, Value: value})
}

// EmitThrow records a Throw opcode.
func (cg *CodeGenerator) EmitThrow(value ast.Expr) {
	cg.append(Operation{Code: OpThrow, Value: value})
}

// EmitEndFinally records an Endfinally opcode.
func (cg *CodeGenerator) EmitEndFinally() {
	cg.append(Operation{Code: OpEndfinally})
}

// EmitNode either recurses into the statements of a compound block node
// (an *ast.Block, which stands for plain blocks, function bodies and
// try/catch/finally blocks, or an *ast.CaseClause for a switch case) or
// issues a single Statement opcode.
func (cg *CodeGenerator) EmitNode(node ast.Node) {
	if node == nil {
		return
	}
	if blk, ok := node.(*ast.Block); ok {
		for _, s := range blk.Statements {
			cg.EmitNode(s)
		}
		return
	}
	if cc, ok := node.(*ast.CaseClause); ok {
		for _, s := range *cc.Statements {
			cg.EmitNode(s)
		}
		return
	}
	cg.EmitStatement(node)
}

// CreateInlineBreak returns `return ["break", L];`. The label reference is
// a thunk over this generator's label table, so it is safe to call before
// Finalize has run.
func (cg *CodeGenerator) CreateInlineBreak(label Label) *ast.ReturnStatement {
	return factory.InlineBreak(cg.labelRef(label), cg.relatedLocation)
}

// CreateInlineReturn returns `return ["return", e];` or `return
// ["return"];` when value is nil.
func (cg *CodeGenerator) CreateInlineReturn(value ast.Expr) *ast.ReturnStatement {
	return factory.InlineReturn(value, cg.relatedLocation)
}

// labelRef wraps a label id as a thunk over cg's label table, or returns
// nil for the zero label — callers that serialize the result (e.g.
// PushTry's absent catch/finally slots) treat a nil ref as falsy/null.
func (cg *CodeGenerator) labelRef(l Label) *ast.LabelRef {
	if l == 0 {
		return nil
	}
	return ast.NewLabelRef(int(l), cg.labelTable, cg.relatedLocation)
}
