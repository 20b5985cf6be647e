// Package ast defines the minimal node surface the lowering pass consumes
// and produces. It is deliberately small: the real parser, checker and
// node factory are external collaborators outside this subsystem's scope,
// so this package only carries the node kinds the recorder, the assembler
// and the output builder actually touch (plain statements/expressions
// passed through verbatim, plus the handful of shapes the assembler
// synthesizes: assignments, inline completions, protected-region pushes,
// and the final switch).
package ast

import "genlower/pkg/source"

// Node is implemented by every node in this package.
type Node interface {
	Range() source.Range
}

// Stmt is implemented by every statement-kind node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression-kind node.
type Expr interface {
	Node
	exprNode()
}

// base carries the range every concrete node embeds.
type base struct {
	Rng source.Range
}

func (b base) Range() source.Range { return b.Rng }

// ---------------------------------------------------------------------------
// Opaque pass-through node
// ---------------------------------------------------------------------------

// Opaque wraps a statement or expression from the caller's own tree that
// this package does not need to understand — the recorder's Statement
// opcode carries these straight through to the output without inspecting
// them. Source is an arbitrary caller-owned value (the real parser's node),
// retained only for identity and printing.
type Opaque struct {
	base
	Source  any
	IsStmt  bool
	Text    string // best-effort textual form, used by the printer
}

func (o *Opaque) stmtNode() {}
func (o *Opaque) exprNode() {}

// NewOpaqueStatement wraps an arbitrary caller statement node.
func NewOpaqueStatement(src any, text string, rng source.Range) *Opaque {
	return &Opaque{base: base{rng}, Source: src, IsStmt: true, Text: text}
}

// NewOpaqueExpression wraps an arbitrary caller expression node.
func NewOpaqueExpression(src any, text string, rng source.Range) *Opaque {
	return &Opaque{base: base{rng}, Source: src, IsStmt: false, Text: text}
}

// ---------------------------------------------------------------------------
// Identifiers, literals
// ---------------------------------------------------------------------------

type Identifier struct {
	base
	Name string
}

func (i *Identifier) exprNode() {}

func NewIdentifier(name string, rng source.Range) *Identifier {
	return &Identifier{base: base{rng}, Name: name}
}

type Parameter struct {
	base
	Name *Identifier
}

func (p *Parameter) exprNode() {}

func NewParameter(name *Identifier, rng source.Range) *Parameter {
	return &Parameter{base: base{rng}, Name: name}
}

type StringLiteral struct {
	base
	Value string
}

func (s *StringLiteral) exprNode() {}

func NewStringLiteral(value string, rng source.Range) *StringLiteral {
	return &StringLiteral{base: base{rng}, Value: value}
}

type NumberLiteral struct {
	base
	Value float64
}

func (n *NumberLiteral) exprNode() {}

func NewNumberLiteral(value float64, rng source.Range) *NumberLiteral {
	return &NumberLiteral{base: base{rng}, Value: value}
}

// ---------------------------------------------------------------------------
// Generated nodes — templated text fragments with a substitution map
// ---------------------------------------------------------------------------

// Generated is a deferred text fragment. The downstream emitter (out of
// scope here) renders Template, substituting each `{name}` placeholder
// with the printed form of Substitutions[name]. pkg/printer understands
// the same template syntax so the pass can be exercised end-to-end
// without a real emitter.
type Generated struct {
	base
	Template      string
	Substitutions map[string]Node
	AsStatement   bool
}

func (g *Generated) stmtNode() {}
func (g *Generated) exprNode() {}

func NewGenerated(template string, subs map[string]Node, rng source.Range) *Generated {
	return &Generated{base: base{rng}, Template: template, Substitutions: subs}
}

// ---------------------------------------------------------------------------
// LabelRef — a thunk over the label→case-index table
// ---------------------------------------------------------------------------

// LabelResolver resolves a raw label id to its finalized switch-case index.
// pkg/lower's assembler implements this over its labelNumbers table; ast
// only needs the interface so LabelRef can stay a pure data node until the
// whole assembler pass has run and every label is bound.
type LabelResolver interface {
	ResolveLabel(id int) int
}

// LabelRef carries a raw label id and a reference to the table that will
// eventually resolve it. It must never be eagerly resolved to an integer
// at construction time: labels can be (and usually are) referenced before
// they are marked, so resolution happens at print time, after the whole
// assembler pass completes.
type LabelRef struct {
	base
	ID       int
	Resolver LabelResolver
}

func (l *LabelRef) exprNode() {}

func NewLabelRef(id int, resolver LabelResolver, rng source.Range) *LabelRef {
	return &LabelRef{base: base{rng}, ID: id, Resolver: resolver}
}

// Resolve returns the case index this label is bound to. Panics when
// Resolver is nil (no label table was attached at construction) — a
// programmer mistake in the caller, not a user input error. Whether an
// attached resolver accepts a label that is not bound yet is up to that
// resolver.
func (l *LabelRef) Resolve() int {
	if l.Resolver == nil {
		panic("ast: LabelRef resolved before an assembler bound it to a resolver")
	}
	return l.Resolver.ResolveLabel(l.ID)
}

// ---------------------------------------------------------------------------
// Expressions the assembler itself synthesizes
// ---------------------------------------------------------------------------

type ArrayLiteral struct {
	base
	Elements []Expr
}

func (a *ArrayLiteral) exprNode() {}

func NewArrayLiteral(elements []Expr, rng source.Range) *ArrayLiteral {
	return &ArrayLiteral{base: base{rng}, Elements: elements}
}

type AssignmentExpression struct {
	base
	Target Expr
	Value  Expr
}

func (a *AssignmentExpression) exprNode() {}

func NewAssignmentExpression(target, value Expr, rng source.Range) *AssignmentExpression {
	return &AssignmentExpression{base: base{rng}, Target: target, Value: value}
}

type MemberExpression struct {
	base
	Object   Expr
	Property string
}

func (m *MemberExpression) exprNode() {}

func NewMemberExpression(object Expr, property string, rng source.Range) *MemberExpression {
	return &MemberExpression{base: base{rng}, Object: object, Property: property}
}

type CallExpression struct {
	base
	Callee Expr
	Args   []Expr
}

func (c *CallExpression) exprNode() {}

func NewCallExpression(callee Expr, args []Expr, rng source.Range) *CallExpression {
	return &CallExpression{base: base{rng}, Callee: callee, Args: args}
}

// ---------------------------------------------------------------------------
// Statements the assembler itself synthesizes
// ---------------------------------------------------------------------------

type ExpressionStatement struct {
	base
	Expression Expr
}

func (e *ExpressionStatement) stmtNode() {}

func NewExpressionStatement(expr Expr, rng source.Range) *ExpressionStatement {
	return &ExpressionStatement{base: base{rng}, Expression: expr}
}

type ReturnStatement struct {
	base
	Value Expr // nil for a bare `return;`
}

func (r *ReturnStatement) stmtNode() {}

func NewReturnStatement(value Expr, rng source.Range) *ReturnStatement {
	return &ReturnStatement{base: base{rng}, Value: value}
}

type ThrowStatement struct {
	base
	Value Expr
}

func (t *ThrowStatement) stmtNode() {}

func NewThrowStatement(value Expr, rng source.Range) *ThrowStatement {
	return &ThrowStatement{base: base{rng}, Value: value}
}

type IfStatement struct {
	base
	Condition Expr
	Then      Stmt
}

func (i *IfStatement) stmtNode() {}

func NewIfStatement(cond Expr, then Stmt, rng source.Range) *IfStatement {
	return &IfStatement{base: base{rng}, Condition: cond, Then: then}
}

type Block struct {
	base
	Statements []Stmt
}

func (b *Block) stmtNode() {}

func NewBlock(statements []Stmt, rng source.Range) *Block {
	return &Block{base: base{rng}, Statements: statements}
}

// ---------------------------------------------------------------------------
// Switch output shape — what the output builder wraps the assembled
// clauses in.
// ---------------------------------------------------------------------------

type CaseClause struct {
	base
	// CaseIndex is this clause's position in the final switch, i.e. the
	// number of clauses already assembled at the moment this label was
	// first encountered. It is filled in once, never mutated afterward —
	// clauses are appended in that same order so it always equals the
	// clause's slice position, but is stored explicitly for the printer.
	CaseIndex int
	// Statements is the same slice the assembler keeps appending to while
	// this clause is "current" — CaseClause and the assembler's live
	// buffer alias one slice header via a pointer the assembler holds,
	// not a copy.
	Statements *[]Stmt
}

func (c *CaseClause) stmtNode() {}

func NewCaseClause(index int, statements *[]Stmt, rng source.Range) *CaseClause {
	return &CaseClause{base: base{rng}, CaseIndex: index, Statements: statements}
}

type SwitchBody struct {
	base
	// Label is the discriminant expression read each re-entry, e.g.
	// `__state.label`.
	Label  Expr
	Clauses []*CaseClause
}

func (s *SwitchBody) stmtNode() {}

func NewSwitchBody(label Expr, clauses []*CaseClause, rng source.Range) *SwitchBody {
	return &SwitchBody{base: base{rng}, Label: label, Clauses: clauses}
}

// ClauseList is just the assembled case clauses, with no switch/label
// wrapper of its own. The output builder's wrapper templates already
// spell out `switch (__state.label) { {clauses} }` literally, so the
// `{clauses}` placeholder substitutes this instead of a full SwitchBody —
// a SwitchBody would print its own "switch (...) {" header and double it
// up with the template's.
type ClauseList struct {
	base
	Clauses []*CaseClause
}

func NewClauseList(clauses []*CaseClause, rng source.Range) *ClauseList {
	return &ClauseList{base: base{rng}, Clauses: clauses}
}

// ---------------------------------------------------------------------------
// Function-like declaration shapes the output builder wraps the body in.
// ---------------------------------------------------------------------------

// FunctionKind selects the outer node shape the output builder produces.
type FunctionKind int

const (
	FunctionDeclaration FunctionKind = iota
	Method
	Getter
	FunctionExpression
	ArrowFunction
)

func (k FunctionKind) String() string {
	switch k {
	case FunctionDeclaration:
		return "FunctionDeclaration"
	case Method:
		return "Method"
	case Getter:
		return "Getter"
	case FunctionExpression:
		return "FunctionExpression"
	case ArrowFunction:
		return "ArrowFunction"
	default:
		return "Unknown"
	}
}

// FunctionLike is the node the output builder returns: a function of the
// chosen Kind whose body is the generator/async wrapper template.
type FunctionLike struct {
	base
	Kind   FunctionKind
	Name   string // may be empty for expressions/arrows
	Params []*Parameter
	Body   *Block
}

func (f *FunctionLike) stmtNode() {}
func (f *FunctionLike) exprNode() {}

func NewFunctionLike(kind FunctionKind, name string, params []*Parameter, body *Block, rng source.Range) *FunctionLike {
	return &FunctionLike{base: base{rng}, Kind: kind, Name: name, Params: params, Body: body}
}
