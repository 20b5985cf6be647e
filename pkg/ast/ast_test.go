package ast

import (
	"testing"

	"genlower/pkg/source"
)

type fixedResolver struct{ index int }

func (f fixedResolver) ResolveLabel(id int) int { return f.index }

func TestLabelRefResolve(t *testing.T) {
	ref := NewLabelRef(3, fixedResolver{index: 5}, source.Range{})
	if got := ref.Resolve(); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestLabelRefResolveWithoutResolverPanics(t *testing.T) {
	ref := NewLabelRef(1, nil, source.Range{})
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic resolving a LabelRef with no resolver")
		}
	}()
	ref.Resolve()
}

func TestCaseClauseStatementsAlias(t *testing.T) {
	buf := []Stmt{}
	clause := NewCaseClause(0, &buf, source.Range{})

	buf = append(buf, NewExpressionStatement(NewIdentifier("x", source.Range{}), source.Range{}))
	// Re-slicing buf above rebinds the local variable, not the pointer
	// clause.Statements holds — assign back through the pointer, the way
	// the assembler's push() does, to exercise the aliasing contract.
	*clause.Statements = buf

	if len(*clause.Statements) != 1 {
		t.Fatalf("expected the clause to observe the appended statement, got %d", len(*clause.Statements))
	}
}
