package lower

import (
	"testing"

	"genlower/pkg/ast"
	"genlower/pkg/source"
)

// TestAnonymousLocalDisjointness is spec.md §9's hoisted-locals-naming
// supplement: the __l{n} generator must never collide with a
// caller-supplied named local, in either declaration order. This test
// covers the caller claiming the name first.
func TestAnonymousLocalDisjointness(t *testing.T) {
	cg := NewCodeGenerator(CodeGeneratorOptions{})
	cg.DeclareLocal("__l1") // caller happens to pick a name in the anonymous namespace
	anon := cg.DeclareLocal("")
	if anon.Name == "__l1" {
		t.Fatalf("anonymous local collided with a caller-supplied name: %q", anon.Name)
	}
}

func TestDeclareLocalNamed(t *testing.T) {
	cg := NewCodeGenerator(CodeGeneratorOptions{})
	id := cg.DeclareLocal("total")
	if id.Name != "total" {
		t.Errorf("expected name %q, got %q", "total", id.Name)
	}
	if len(cg.namedLocals) != 1 || len(cg.locals) != 0 {
		t.Errorf("expected the named local to land in namedLocals, got namedLocals=%d locals=%d", len(cg.namedLocals), len(cg.locals))
	}
}

func TestCacheExpressionEmitsAssignment(t *testing.T) {
	cg := NewCodeGenerator(CodeGeneratorOptions{})
	expr := ast.NewIdentifier("sideEffecting", source.Range{})
	local := cg.CacheExpression(expr)

	if len(cg.operations) != 1 {
		t.Fatalf("expected exactly one recorded operation, got %d", len(cg.operations))
	}
	stmt, ok := cg.operations[0].Node.(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected an expression statement, got %T", cg.operations[0].Node)
	}
	assign, ok := stmt.Expression.(*ast.AssignmentExpression)
	if !ok {
		t.Fatalf("expected an assignment, got %T", stmt.Expression)
	}
	if assign.Target.(*ast.Identifier) != local {
		t.Errorf("expected the cached local to be the assignment target")
	}
	if assign.Value != expr {
		t.Errorf("expected the original expression to be assigned verbatim")
	}
}
