// Package factory synthesizes the AST fragments the lowering pass needs
// to emit: completion tuples, protected-region registrations, state
// assignments, and the generator/async wrapper shapes. Kept separate from
// pkg/ast (which only defines node shapes) and from pkg/lower (which only
// decides *when* to call the factory, never how a node is built) — the
// same separation of concerns a real parser/checker and its own node
// factory would have.
package factory

import (
	"genlower/pkg/ast"
	"genlower/pkg/source"
)

// StateIdentifier is the name of the state parameter threaded through the
// generator body, e.g. `__state.label`.
const StateIdentifier = "__state"

// Generated wraps template text with a substitution map.
func Generated(template string, subs map[string]ast.Node, rng source.Range) *ast.Generated {
	return ast.NewGenerated(template, subs, rng)
}

// Identifier builds a bare identifier reference.
func Identifier(name string, rng source.Range) *ast.Identifier {
	return ast.NewIdentifier(name, rng)
}

// StateProperty builds `__state.<name>`.
func StateProperty(name string, rng source.Range) *ast.MemberExpression {
	return ast.NewMemberExpression(Identifier(StateIdentifier, rng), name, rng)
}

// Assign builds `target = value;` as a statement.
func Assign(target, value ast.Expr, rng source.Range) *ast.ExpressionStatement {
	return ast.NewExpressionStatement(ast.NewAssignmentExpression(target, value, rng), rng)
}

// LabelAssign builds `__state.label = <index>;`, the fall-through fix-up
// the assembler inserts when a case neither transfers control out nor
// completes before the next label.
func LabelAssign(index int, rng source.Range) *ast.ExpressionStatement {
	return Assign(StateProperty("label", rng), ast.NewNumberLiteral(float64(index), rng), rng)
}

// EmptyTrys builds `__state.trys = [];`, emitted once at case 0 when the
// function contains any protected region.
func EmptyTrys(rng source.Range) *ast.ExpressionStatement {
	return Assign(StateProperty("trys", rng), ast.NewArrayLiteral(nil, rng), rng)
}

// labelOrNull renders a LabelRef if present, or a literal null when the
// slot is absent: a protected region's absent catch/finally labels
// serialize as falsy/null in the `trys` tuple rather than a real index.
func labelOrNull(ref *ast.LabelRef, rng source.Range) ast.Expr {
	if ref == nil {
		return ast.NewGenerated("null", nil, rng)
	}
	return ref
}

// PushTry builds `__state.trys.push([start, catch, finally, end]);` for
// one protected region.
func PushTry(start, catchL, finallyL, end *ast.LabelRef, rng source.Range) *ast.ExpressionStatement {
	trys := StateProperty("trys", rng)
	push := ast.NewMemberExpression(trys, "push", rng)
	tuple := ast.NewArrayLiteral([]ast.Expr{
		labelOrNull(start, rng),
		labelOrNull(catchL, rng),
		labelOrNull(finallyL, rng),
		labelOrNull(end, rng),
	}, rng)
	call := ast.NewCallExpression(push, []ast.Expr{tuple}, rng)
	return ast.NewExpressionStatement(call, rng)
}

// BindCaughtError builds `<variable> = __state.error;`, the same
// catch-handler entry assignment the assembler produces for the Assign
// opcode BeginCatchBlock records when a protected region advances into its
// Catch state. BeginCatchBlock itself does not call this function.
func BindCaughtError(variable ast.Expr, rng source.Range) *ast.ExpressionStatement {
	return Assign(variable, StateProperty("error", rng), rng)
}

// completionTuple builds `return [tag, value?];` — the shape every
// inline completion factory below emits.
func completionTuple(tag string, value ast.Expr, rng source.Range) *ast.ReturnStatement {
	elems := []ast.Expr{ast.NewStringLiteral(tag, rng)}
	if value != nil {
		elems = append(elems, value)
	}
	return ast.NewReturnStatement(ast.NewArrayLiteral(elems, rng), rng)
}

// InlineBreak builds `return ["break", L];`.
func InlineBreak(label *ast.LabelRef, rng source.Range) *ast.ReturnStatement {
	return completionTuple("break", label, rng)
}

// InlineReturn builds `return ["return", e];` or `return ["return"];`
// when e is nil.
func InlineReturn(value ast.Expr, rng source.Range) *ast.ReturnStatement {
	return completionTuple("return", value, rng)
}

// InlineYield builds `return ["yield", e];` or `return ["yield"];`
// when e is nil.
func InlineYield(value ast.Expr, rng source.Range) *ast.ReturnStatement {
	return completionTuple("yield", value, rng)
}

// InlineEndFinally builds `return ["endfinally"];`.
func InlineEndFinally(rng source.Range) *ast.ReturnStatement {
	return completionTuple("endfinally", nil, rng)
}

// ConditionalBreak builds `if (cond) { return ["break", L]; }` — used by
// BrTrue — or `if (!(cond)) { return ["break", L]; }` when negate is true
// — used by BrFalse.
func ConditionalBreak(cond ast.Expr, negate bool, label *ast.LabelRef, rng source.Range) *ast.IfStatement {
	test := cond
	if negate {
		test = Generated("!({cond})", map[string]ast.Node{"cond": cond}, rng)
	}
	return ast.NewIfStatement(test, InlineBreak(label, rng), rng)
}

// Throw builds `throw e;`.
func Throw(value ast.Expr, rng source.Range) *ast.ThrowStatement {
	return ast.NewThrowStatement(value, rng)
}

// ExpressionStatement wraps an expression that isn't already a statement:
// the assembler's Statement dispatch wraps non-statement nodes this way
// before pushing them into the current case's buffer.
func ExpressionStatement(expr ast.Expr, rng source.Range) *ast.ExpressionStatement {
	return ast.NewExpressionStatement(expr, rng)
}
