package testdata

import (
	"genlower/pkg/ast"
	"genlower/pkg/lower"
	"genlower/pkg/source"
)

// Builder drives a fresh CodeGenerator through one recording session. It
// never calls Finalize/Build*Function itself — the driver (a test or
// cmd/lowerdump) owns that choice, since the same recording can in
// principle be wrapped as either a generator or an async function.
type Builder func(cg *lower.CodeGenerator)

// Registry maps a fixture's PROGRAM name to the builder that reproduces
// it. Names follow the end-to-end scenario labels used across this
// package's fixtures (S1..S6).
var Registry = map[string]Builder{
	"s1_empty_generator":       BuildS1,
	"s2_single_yield":          BuildS2,
	"s4_try_finally":           BuildS4,
	"s5_try_catch":             BuildS5,
	"s6_conditional_fallthrough": BuildS6,
}

func num(v float64) ast.Expr { return ast.NewNumberLiteral(v, source.Range{}) }

// BuildS1 records nothing: the empty-generator scenario.
func BuildS1(cg *lower.CodeGenerator) {}

// BuildS2 records a single yield.
func BuildS2(cg *lower.CodeGenerator) {
	cg.EmitYield(num(42))
}

// BuildS4 reproduces the try/finally scenario:
// beginExceptionBlock → Statement(a) → beginFinallyBlock → Statement(b) →
// endExceptionBlock.
func BuildS4(cg *lower.CodeGenerator) {
	cg.BeginExceptionBlock()
	cg.EmitStatement(ast.NewOpaqueStatement(nil, "a();", source.Range{}))
	cg.BeginFinallyBlock()
	cg.EmitStatement(ast.NewOpaqueStatement(nil, "b();", source.Range{}))
	cg.EndExceptionBlock()
}

// BuildS5 reproduces the try/catch scenario:
// begin → Statement(a) → beginCatchBlock(e) → Statement(b) → end.
func BuildS5(cg *lower.CodeGenerator) {
	e := cg.DeclareLocal("e")
	cg.BeginExceptionBlock()
	cg.EmitStatement(ast.NewOpaqueStatement(nil, "a();", source.Range{}))
	cg.BeginCatchBlock(e)
	cg.EmitStatement(ast.NewOpaqueStatement(nil, "b();", source.Range{}))
	cg.EndExceptionBlock()
}

// BuildS6 reproduces the conditional-branch-with-fall-through scenario:
// define label L, BrTrue(L, cond), Statement(a), mark L, Statement(b).
func BuildS6(cg *lower.CodeGenerator) {
	l := cg.DefineLabel()
	cond := ast.NewIdentifier("cond", source.Range{})
	cg.EmitBrTrue(l, cond)
	cg.EmitStatement(ast.NewOpaqueStatement(nil, "a();", source.Range{}))
	cg.MarkLabel(l)
	cg.EmitStatement(ast.NewOpaqueStatement(nil, "b();", source.Range{}))
}
