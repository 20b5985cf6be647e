package lower

import (
	"testing"

	"genlower/pkg/ast"
	"genlower/pkg/source"
)

func opaque(text string) *ast.Opaque {
	return ast.NewOpaqueStatement(nil, text, source.Range{})
}

// lastCaseStatement returns the last statement of the last clause, the
// spot testable property 5 (completion coverage) inspects.
func lastCaseStatement(sb *ast.SwitchBody) ast.Stmt {
	last := sb.Clauses[len(sb.Clauses)-1]
	stmts := *last.Statements
	return stmts[len(stmts)-1]
}

func TestS1EmptyGenerator(t *testing.T) {
	cg := NewCodeGenerator(CodeGeneratorOptions{})
	sb := cg.finalizeSwitchBody()

	if len(sb.Clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(sb.Clauses))
	}
	ret, ok := lastCaseStatement(sb).(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected trailing return, got %T", lastCaseStatement(sb))
	}
	arr, ok := ret.Value.(*ast.ArrayLiteral)
	if !ok || len(arr.Elements) != 1 {
		t.Fatalf("expected return [\"return\"], got %#v", ret.Value)
	}
	tag, ok := arr.Elements[0].(*ast.StringLiteral)
	if !ok || tag.Value != "return" {
		t.Fatalf("expected tag \"return\", got %#v", arr.Elements[0])
	}
}

func TestS2SingleYield(t *testing.T) {
	cg := NewCodeGenerator(CodeGeneratorOptions{})
	cg.EmitYield(ast.NewNumberLiteral(42, source.Range{}))
	sb := cg.finalizeSwitchBody()

	if len(sb.Clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(sb.Clauses))
	}

	case0 := *sb.Clauses[0].Statements
	if len(case0) != 1 {
		t.Fatalf("expected case 0 to hold exactly the yield, got %d statements", len(case0))
	}
	ret, ok := case0[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected case 0 to end in a return, got %T", case0[0])
	}
	arr := ret.Value.(*ast.ArrayLiteral)
	if tag := arr.Elements[0].(*ast.StringLiteral); tag.Value != "yield" {
		t.Fatalf("expected yield tag, got %q", tag.Value)
	}
	if num, ok := arr.Elements[1].(*ast.NumberLiteral); !ok || num.Value != 42 {
		t.Fatalf("expected yield value 42, got %#v", arr.Elements[1])
	}

	// No fix-up: yield is abrupt (testable property 8's negative case).
	for _, s := range case0 {
		if _, bad := s.(*ast.ExpressionStatement); bad {
			t.Fatalf("unexpected fix-up assignment between the two cases: %#v", s)
		}
	}
}

func TestS4TryFinally(t *testing.T) {
	cg := NewCodeGenerator(CodeGeneratorOptions{})
	cg.BeginExceptionBlock()
	cg.EmitStatement(opaque("a();"))
	cg.BeginFinallyBlock()
	cg.EmitStatement(opaque("b();"))
	cg.EndExceptionBlock()

	sb := cg.finalizeSwitchBody()
	if len(sb.Clauses) != 3 {
		t.Fatalf("expected 3 clauses (start, finally, end), got %d", len(sb.Clauses))
	}

	case0 := *sb.Clauses[0].Statements
	pushStmt, ok := case0[1].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected case 0's second statement to be the trys.push call, got %T", case0[1])
	}
	call, ok := pushStmt.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected a call expression, got %T", pushStmt.Expression)
	}
	tuple := call.Args[0].(*ast.ArrayLiteral)
	if len(tuple.Elements) != 4 {
		t.Fatalf("expected a 4-tuple, got %d elements", len(tuple.Elements))
	}
	start := tuple.Elements[0].(*ast.LabelRef).Resolve()
	if start != 0 {
		t.Errorf("expected start label to resolve to case 0, got %d", start)
	}
	if _, isNull := tuple.Elements[1].(*ast.Generated); !isNull {
		t.Errorf("expected the catch slot to serialize as the null literal, got %#v", tuple.Elements[1])
	}
	finallyIdx := tuple.Elements[2].(*ast.LabelRef).Resolve()
	if finallyIdx != 1 {
		t.Errorf("expected finally label to resolve to case 1, got %d", finallyIdx)
	}
	endIdx := tuple.Elements[3].(*ast.LabelRef).Resolve()
	if endIdx != 2 {
		t.Errorf("expected end label to resolve to case 2, got %d", endIdx)
	}

	finalStmt := lastCaseStatement(sb)
	if ret, ok := finalStmt.(*ast.ReturnStatement); !ok || ret.Value.(*ast.ArrayLiteral).Elements[0].(*ast.StringLiteral).Value != "return" {
		t.Fatalf("expected the trailing clause to end in return [\"return\"], got %#v", finalStmt)
	}
}

func TestS5TryCatch(t *testing.T) {
	cg := NewCodeGenerator(CodeGeneratorOptions{})
	e := cg.DeclareLocal("e")
	cg.BeginExceptionBlock()
	cg.EmitStatement(opaque("a();"))
	cg.BeginCatchBlock(e)
	cg.EmitStatement(opaque("b();"))
	cg.EndExceptionBlock()

	sb := cg.finalizeSwitchBody()
	if len(sb.Clauses) != 3 {
		t.Fatalf("expected 3 clauses, got %d", len(sb.Clauses))
	}

	catchCase := *sb.Clauses[1].Statements
	bind, ok := catchCase[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected the catch case to open with the error binding, got %T", catchCase[0])
	}
	assign, ok := bind.Expression.(*ast.AssignmentExpression)
	if !ok {
		t.Fatalf("expected an assignment, got %T", bind.Expression)
	}
	if assign.Target.(*ast.Identifier) != e {
		t.Errorf("expected the catch variable to be assigned, got %#v", assign.Target)
	}
}

func TestS6ConditionalFallthrough(t *testing.T) {
	cg := NewCodeGenerator(CodeGeneratorOptions{})
	l := cg.DefineLabel()
	cond := ast.NewIdentifier("cond", source.Range{})
	cg.EmitBrTrue(l, cond)
	cg.EmitStatement(opaque("a();"))
	cg.MarkLabel(l)
	cg.EmitStatement(opaque("b();"))

	sb := cg.finalizeSwitchBody()
	if len(sb.Clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(sb.Clauses))
	}

	case0 := *sb.Clauses[0].Statements
	found := false
	for _, s := range case0 {
		if expr, ok := s.(*ast.ExpressionStatement); ok {
			if assign, ok := expr.Expression.(*ast.AssignmentExpression); ok {
				if member, ok := assign.Target.(*ast.MemberExpression); ok && member.Property == "label" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Error("expected a __state.label fix-up in case 0, since Statement(a) is not abrupt (testable property 8)")
	}
}

func TestLabelBindingProperty(t *testing.T) {
	cg := NewCodeGenerator(CodeGeneratorOptions{})
	unused := cg.DefineLabel() // defined, never referenced, never marked
	l := cg.DefineLabel()
	cg.EmitBrTrue(l, ast.NewIdentifier("x", source.Range{}))
	cg.MarkLabel(l)

	sb := cg.finalizeSwitchBody()
	idx := cg.labelTable.numbers[l]
	if idx < 0 || idx >= len(sb.Clauses) {
		t.Fatalf("expected label to resolve within [0, %d), got %d", len(sb.Clauses), idx)
	}
	if _, stillUnbound := cg.labelTable.numbers[unused]; stillUnbound {
		t.Errorf("expected an unmarked, unreferenced label to be left out of the label table")
	}
}

func TestBalancedBlockEvents(t *testing.T) {
	cg := NewCodeGenerator(CodeGeneratorOptions{})
	cg.BeginExceptionBlock()
	cg.EmitStatement(opaque("a();"))
	cg.BeginFinallyBlock()
	cg.EndExceptionBlock()
	cg.finalizeSwitchBody()

	opens, closes := 0, 0
	var stack []Block
	for _, ev := range cg.blockEvents {
		switch ev.Action {
		case eventOpen:
			opens++
			stack = append(stack, ev.Block)
		case eventClose:
			closes++
			if len(stack) == 0 || stack[len(stack)-1] != ev.Block {
				t.Fatalf("close event did not match the innermost open block (non-LIFO)")
			}
			stack = stack[:len(stack)-1]
		}
	}
	if opens != closes {
		t.Fatalf("expected balanced Open/Close events, got %d opens and %d closes", opens, closes)
	}
}

func TestExceptionStateMonotonicity(t *testing.T) {
	cg := NewCodeGenerator(CodeGeneratorOptions{})
	cg.BeginExceptionBlock()
	b := cg.topException()
	if b.State != StateTry {
		t.Fatalf("expected initial state Try, got %d", b.State)
	}
	cg.BeginCatchBlock(ast.NewIdentifier("e", source.Range{}))
	if b.State != StateCatch {
		t.Fatalf("expected state Catch after beginCatchBlock, got %d", b.State)
	}
	cg.BeginFinallyBlock()
	if b.State != StateFinally {
		t.Fatalf("expected state Finally after beginFinallyBlock, got %d", b.State)
	}
	cg.EndExceptionBlock()
	if b.State != StateDone {
		t.Fatalf("expected state Done after endExceptionBlock, got %d", b.State)
	}
}

func TestDeadCodeSuppression(t *testing.T) {
	cg := NewCodeGenerator(CodeGeneratorOptions{})
	cg.EmitReturn(nil)
	cg.EmitStatement(opaque("unreachable();")) // recorded, but after a completion

	sb := cg.finalizeSwitchBody()
	case0 := *sb.Clauses[0].Statements
	for _, s := range case0 {
		if op, ok := s.(*ast.Opaque); ok && op.Text == "unreachable();" {
			t.Fatalf("dead statement after a completion leaked into the output")
		}
	}
}

func TestFinalizeTwicePanics(t *testing.T) {
	cg := NewCodeGenerator(CodeGeneratorOptions{})
	cg.finalizeSwitchBody()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when finalizing twice")
		}
	}()
	cg.finalizeSwitchBody()
}

func TestEmitAfterFinalizePanics(t *testing.T) {
	cg := NewCodeGenerator(CodeGeneratorOptions{})
	cg.finalizeSwitchBody()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when recording after Finalize")
		}
	}()
	cg.EmitReturn(nil)
}
